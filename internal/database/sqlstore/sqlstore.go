// Package sqlstore implements database.IdentityStore on top of database/sql
// for drivers that use "?" placeholders (SQLite, MariaDB). Templates are kept
// as little-endian float32 blobs.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-auth/internal/database"
)

// Dialect captures the driver-specific parts of the store.
type Dialect struct {
	// Name is used in error messages ("sqlite", "mariadb").
	Name string
	// Schema holds the idempotent DDL statements creating the identities table.
	Schema []string
	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation func(err error) bool
}

// Store persists identities in a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// New wraps db and applies the dialect schema.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("apply %s schema: %w", dialect.Name, err)
		}
	}
	return &Store{db: db, dialect: dialect}, nil
}

const selectColumns = `SELECT id, name, password_verifier, face_template, created_at FROM identities`

// Create inserts a new identity. The UNIQUE constraint on name makes the
// duplicate check and the insert a single atomic step.
func (s *Store) Create(ctx context.Context, name string, verifier []byte, template []float32) (*database.StoredIdentity, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO identities (name, password_verifier, face_template, created_at) VALUES (?, ?, ?, ?)`,
		name, verifier, database.EncodeTemplate(template), toMillis(createdAt),
	)
	if err != nil {
		if s.dialect.IsUniqueViolation != nil && s.dialect.IsUniqueViolation(err) {
			return nil, database.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read inserted id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &database.StoredIdentity{
		ID:               id,
		Name:             name,
		PasswordVerifier: verifier,
		Template:         template,
		CreatedAt:        fromMillis(toMillis(createdAt)),
	}, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (database.StoredIdentity, error) {
	var (
		identity  database.StoredIdentity
		blob      []byte
		createdAt int64
	)
	if err := row.Scan(&identity.ID, &identity.Name, &identity.PasswordVerifier, &blob, &createdAt); err != nil {
		return database.StoredIdentity{}, err
	}
	template, err := database.DecodeTemplate(blob)
	if err != nil {
		return database.StoredIdentity{}, fmt.Errorf("decode template for identity %d: %w", identity.ID, err)
	}
	identity.Template = template
	identity.CreatedAt = fromMillis(createdAt)
	return identity, nil
}

// FindByName retrieves an identity by name, returns nil if not found.
func (s *Store) FindByName(ctx context.Context, name string) (*database.StoredIdentity, error) {
	identity, err := scanIdentity(s.db.QueryRowContext(ctx, selectColumns+` WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &identity, nil
}

// ListWithTemplate returns all identities with a face template, ordered by ID.
func (s *Store) ListWithTemplate(ctx context.Context) ([]database.StoredIdentity, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE face_template IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query identities with template: %w", err)
	}
	defer rows.Close()

	var identities []database.StoredIdentity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return identities, nil
}

// CountWithTemplate returns the number of identities with a face template.
func (s *Store) CountWithTemplate(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM identities WHERE face_template IS NOT NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count identities with template: %w", err)
	}
	return count, nil
}

// Delete permanently removes an identity and its template.
func (s *Store) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM identities WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing %s database: %w", s.dialect.Name, err)
	}
	return nil
}

var _ database.IdentityStore = (*Store)(nil)
