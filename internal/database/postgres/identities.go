package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-auth/internal/database"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// IdentityRepository provides PostgreSQL-backed identity storage.
// Templates live in a pgvector column.
type IdentityRepository struct {
	pool *Pool
}

// NewIdentityRepository creates a new PostgreSQL identity repository.
func NewIdentityRepository(pool *Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// templateParam converts a template to a query parameter, NULL when absent.
func templateParam(template []float32) any {
	if len(template) == 0 {
		return nil
	}
	return pgvector.NewVector(template)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Create inserts a new identity inside a transaction.
// The unique constraint on name turns a concurrent duplicate into ErrDuplicateIdentity.
func (r *IdentityRepository) Create(
	ctx context.Context, name string, verifier []byte, template []float32,
) (*database.StoredIdentity, error) {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	identity := database.StoredIdentity{
		Name:             name,
		PasswordVerifier: verifier,
		Template:         template,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO identities (name, password_verifier, face_template)
		VALUES ($1, $2, $3::vector)
		RETURNING id, created_at
	`, name, verifier, templateParam(template)).Scan(&identity.ID, &identity.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, database.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &identity, nil
}

const selectIdentity = `
	SELECT id, name, password_verifier, face_template, created_at
	FROM identities
`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (database.StoredIdentity, error) {
	var (
		identity database.StoredIdentity
		vec      *pgvector.Vector
	)
	if err := row.Scan(&identity.ID, &identity.Name, &identity.PasswordVerifier, &vec, &identity.CreatedAt); err != nil {
		return database.StoredIdentity{}, err
	}
	if vec != nil {
		identity.Template = vec.Slice()
	}
	return identity, nil
}

// FindByName retrieves an identity by name, returns nil if not found.
func (r *IdentityRepository) FindByName(ctx context.Context, name string) (*database.StoredIdentity, error) {
	identity, err := scanIdentity(r.pool.QueryRow(ctx, selectIdentity+` WHERE name = $1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &identity, nil
}

// ListWithTemplate returns all identities with a face template, ordered by ID.
func (r *IdentityRepository) ListWithTemplate(ctx context.Context) ([]database.StoredIdentity, error) {
	rows, err := r.pool.Query(ctx, selectIdentity+` WHERE face_template IS NOT NULL ORDER BY id`)
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
func (r *IdentityRepository) CountWithTemplate(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM identities WHERE face_template IS NOT NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count identities with template: %w", err)
	}
	return count, nil
}

// Delete permanently removes an identity and its template.
func (r *IdentityRepository) Delete(ctx context.Context, name string) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM identities WHERE name = $1", name)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if count == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Close closes the underlying pool.
func (r *IdentityRepository) Close() error {
	return r.pool.Close()
}

var _ database.IdentityStore = (*IdentityRepository)(nil)
