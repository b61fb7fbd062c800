//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kozaktomas/face-auth/internal/config"
	"github.com/kozaktomas/face-auth/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestContainer(t *testing.T) (*Pool, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}
	if container == nil {
		t.Skip("Docker not available, skipping integration test")
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dbURL := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	cfg := &config.DatabaseConfig{
		URL:          dbURL,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	pool, err := NewPool(cfg)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to create pool: %v", err)
	}

	// Run migrations
	if _, err := pool.Migrate(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup
}

func TestIdentityRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewIdentityRepository(pool)

	template := make([]float32, 128)
	for i := range template {
		template[i] = float32(i) / 128.0
	}

	t.Run("CreateAndFind", func(t *testing.T) {
		created, err := repo.Create(ctx, "alice", []byte("verifier"), template)
		if err != nil {
			t.Fatalf("Failed to create identity: %v", err)
		}
		if created.ID == 0 {
			t.Error("Expected assigned ID")
		}

		got, err := repo.FindByName(ctx, "alice")
		if err != nil {
			t.Fatalf("Failed to find identity: %v", err)
		}
		if got == nil {
			t.Fatal("Expected identity, got nil")
		}
		if len(got.Template) != 128 {
			t.Errorf("Expected 128 dimensions, got %d", len(got.Template))
		}
		if string(got.PasswordVerifier) != "verifier" {
			t.Errorf("Unexpected verifier %q", got.PasswordVerifier)
		}
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		got, err := repo.FindByName(ctx, "Alice")
		if err != nil {
			t.Fatalf("Failed to find identity: %v", err)
		}
		if got != nil {
			t.Error("Expected nil for different case")
		}
	})

	t.Run("PasswordOnly", func(t *testing.T) {
		if _, err := repo.Create(ctx, "bob", []byte("verifier"), nil); err != nil {
			t.Fatalf("Failed to create identity: %v", err)
		}
		got, err := repo.FindByName(ctx, "bob")
		if err != nil {
			t.Fatalf("Failed to find identity: %v", err)
		}
		if got.HasTemplate() {
			t.Error("Expected no template")
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := repo.Create(ctx, "alice", []byte("other"), nil)
		if !errors.Is(err, database.ErrDuplicateIdentity) {
			t.Errorf("Expected ErrDuplicateIdentity, got %v", err)
		}
	})

	t.Run("ConcurrentCreate", func(t *testing.T) {
		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.Create(ctx, "carol", []byte("v"), template); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		if successes != 1 {
			t.Errorf("Expected exactly one successful create, got %d", successes)
		}
	})

	t.Run("ListWithTemplate", func(t *testing.T) {
		list, err := repo.ListWithTemplate(ctx)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("Expected 2 identities with templates, got %d", len(list))
		}
		if list[0].ID >= list[1].ID {
			t.Error("Expected ascending ID order")
		}

		count, err := repo.CountWithTemplate(ctx)
		if err != nil {
			t.Fatalf("Failed to count: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected 2, got %d", count)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, "alice"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if err := repo.Delete(ctx, "alice"); !errors.Is(err, database.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
