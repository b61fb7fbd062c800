package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kozaktomas/face-auth/internal/biometric"
	"github.com/kozaktomas/face-auth/internal/config"
	"github.com/kozaktomas/face-auth/internal/database"
	"github.com/kozaktomas/face-auth/internal/database/mariadb"
	"github.com/kozaktomas/face-auth/internal/database/memory"
	"github.com/kozaktomas/face-auth/internal/database/postgres"
	"github.com/kozaktomas/face-auth/internal/database/sqlite"
	"github.com/kozaktomas/face-auth/internal/embedding"
	"github.com/kozaktomas/face-auth/internal/identity"
)

// openStore opens the identity store selected by DATABASE_DRIVER.
func openStore(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (database.IdentityStore, error) {
	switch cfg.Driver {
	case "sqlite", "":
		store, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		logger.Info("using SQLite backend", "path", cfg.URL)
		return store, nil
	case "postgres", "postgresql":
		repo, applied, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		for _, m := range applied {
			logger.Info("applied migration", "file", m)
		}
		logger.Info("using PostgreSQL backend")
		return repo, nil
	case "mysql", "mariadb":
		store, err := mariadb.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open MariaDB: %w", err)
		}
		logger.Info("using MariaDB backend")
		return store, nil
	case "memory":
		logger.Warn("using in-memory backend, identities are lost on exit")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q (want sqlite, postgres, mysql or memory)", cfg.Driver)
	}
}

// buildService wires the store, the embedding client and the descriptor
// profile into an identity service. The caller closes the returned store.
func buildService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*identity.Service, database.IdentityStore, error) {
	profile, ok := cfg.Profile()
	if !ok {
		return nil, nil, fmt.Errorf("unknown EMBEDDING_MODEL %q, add it to models.yaml", cfg.Embedding.Model)
	}
	metric, err := biometric.MetricByName(profile.Metric)
	if err != nil {
		return nil, nil, fmt.Errorf("model %q: %w", cfg.Embedding.Model, err)
	}

	store, err := openStore(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	extractor := embedding.NewClient(cfg.Embedding.URL, cfg.Embedding.Model)
	svc := identity.NewService(
		store,
		extractor,
		identity.NewBcryptHasher(cfg.Password.BcryptCost),
		identity.Options{
			Threshold: cfg.MatchThreshold(),
			Metric:    metric,
			Dim:       profile.Dim,
			Logger:    logger,
		},
	)
	logger.Info("identity service ready",
		"model", extractor.Model(), "metric", profile.Metric, "dim", profile.Dim, "threshold", svc.Threshold())
	return svc, store, nil
}
