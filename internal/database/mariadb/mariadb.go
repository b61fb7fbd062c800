// Package mariadb provides the MariaDB/MySQL-backed identity store.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kozaktomas/face-auth/internal/config"
	"github.com/kozaktomas/face-auth/internal/database/sqlstore"
)

// erDupEntry is the MySQL error number for a duplicate key.
const erDupEntry = 1062

// The binary collation keeps name comparisons case-sensitive.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS identities (
		id                BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name              VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		password_verifier VARBINARY(255) NOT NULL,
		face_template     LONGBLOB NULL,
		created_at        BIGINT NOT NULL,
		UNIQUE KEY identities_name_key (name)
	) ENGINE=InnoDB`,
}

// Open connects to MariaDB using the DSN in cfg.URL and ensures the schema exists.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*sqlstore.Store, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	db, err := sql.Open("mysql", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	store, err := sqlstore.New(ctx, db, sqlstore.Dialect{
		Name:              "mariadb",
		Schema:            schema,
		IsUniqueViolation: isUniqueViolation,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == erDupEntry
}
