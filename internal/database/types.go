package database

import (
	"time"
)

// StoredIdentity represents an enrolled identity stored in the database
type StoredIdentity struct {
	ID               int64
	Name             string
	PasswordVerifier []byte    // bcrypt hash, never compared by equality
	Template         []float32 // face descriptor, nil for password-only identities
	CreatedAt        time.Time
}

// HasTemplate reports whether the identity enrolled a face.
func (s *StoredIdentity) HasTemplate() bool {
	return len(s.Template) > 0
}
