// Package memory provides an in-memory identity store.
// It backs the "memory" database driver and the workflow tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kozaktomas/face-auth/internal/database"
)

// Store is an in-memory implementation of database.IdentityStore.
// A single RWMutex guards all records, so Create's uniqueness check and insert
// are atomic and ListWithTemplate always observes a consistent snapshot.
type Store struct {
	mu         sync.RWMutex
	identities map[string]*database.StoredIdentity // keyed by Name
	nextID     int64

	// Error injection
	CreateError error
	FindError   error
	ListError   error
	CountError  error
	DeleteError error
}

// NewStore creates a new empty in-memory store
func NewStore() *Store {
	return &Store{
		identities: make(map[string]*database.StoredIdentity),
		nextID:     1,
	}
}

// clone returns a deep copy so callers can never mutate stored records.
func clone(s *database.StoredIdentity) database.StoredIdentity {
	out := *s
	out.PasswordVerifier = slices.Clone(s.PasswordVerifier)
	out.Template = slices.Clone(s.Template)
	return out
}

// Create inserts a new identity
func (m *Store) Create(_ context.Context, name string, verifier []byte, template []float32) (*database.StoredIdentity, error) {
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.identities[name]; exists {
		return nil, database.ErrDuplicateIdentity
	}

	identity := &database.StoredIdentity{
		ID:               m.nextID,
		Name:             name,
		PasswordVerifier: slices.Clone(verifier),
		Template:         slices.Clone(template),
		CreatedAt:        time.Now().UTC(),
	}
	m.nextID++
	m.identities[name] = identity

	out := clone(identity)
	return &out, nil
}

// FindByName retrieves an identity by name
func (m *Store) FindByName(_ context.Context, name string) (*database.StoredIdentity, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	identity, ok := m.identities[name]
	if !ok {
		return nil, nil
	}
	out := clone(identity)
	return &out, nil
}

// ListWithTemplate returns all identities with a face template, ordered by ID
func (m *Store) ListWithTemplate(_ context.Context) ([]database.StoredIdentity, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []database.StoredIdentity
	for _, identity := range m.identities {
		if identity.HasTemplate() {
			results = append(results, clone(identity))
		}
	}
	slices.SortFunc(results, func(a, b database.StoredIdentity) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return results, nil
}

// CountWithTemplate returns the number of identities with a face template
func (m *Store) CountWithTemplate(_ context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, identity := range m.identities {
		if identity.HasTemplate() {
			count++
		}
	}
	return count, nil
}

// Delete removes an identity
func (m *Store) Delete(_ context.Context, name string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.identities[name]; !ok {
		return database.ErrNotFound
	}
	delete(m.identities, name)
	return nil
}

// Close is a no-op for the in-memory store
func (m *Store) Close() error {
	return nil
}

var _ database.IdentityStore = (*Store)(nil)
