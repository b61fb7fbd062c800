package identity

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// PasswordHasher produces and checks one-way password verifiers.
type PasswordHasher interface {
	Hash(plaintext string) ([]byte, error)
	Verify(plaintext string, verifier []byte) bool
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost. Zero or out of
// range values fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt verifier for plaintext.
func (h *BcryptHasher) Hash(plaintext string) ([]byte, error) {
	verifier, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return verifier, nil
}

// Verify reports whether plaintext matches verifier in constant time.
func (h *BcryptHasher) Verify(plaintext string, verifier []byte) bool {
	return bcrypt.CompareHashAndPassword(verifier, []byte(plaintext)) == nil
}
