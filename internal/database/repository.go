package database

import (
	"context"
)

// IdentityReader provides read-only access to enrolled identities
type IdentityReader interface {
	// FindByName retrieves an identity by exact, case-sensitive name, returns nil if not found
	FindByName(ctx context.Context, name string) (*StoredIdentity, error)
	// ListWithTemplate returns every identity that enrolled a face, ordered by ID.
	// The result is a consistent snapshot; callers may scan it without further locking.
	ListWithTemplate(ctx context.Context) ([]StoredIdentity, error)
	// CountWithTemplate returns the number of identities that enrolled a face
	CountWithTemplate(ctx context.Context) (int, error)
}

// IdentityStore provides read and write access to enrolled identities
type IdentityStore interface {
	IdentityReader

	// Create inserts a fully populated identity atomically.
	// Returns ErrDuplicateIdentity if the name is already taken; the uniqueness
	// check and the insert happen in one transaction.
	Create(ctx context.Context, name string, verifier []byte, template []float32) (*StoredIdentity, error)

	// Delete permanently removes the identity and its template.
	// Returns ErrNotFound if the name is unknown.
	Delete(ctx context.Context, name string) error

	// Close releases the underlying connection pool
	Close() error
}
