package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/registrar/ports"
)

// BcryptHasher implements the Hasher interface using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher at the default cost.
func NewBcrypt() ports.Hasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptWithCost creates a bcrypt hasher at an explicit cost. Tests use
// bcrypt.MinCost to keep hashing fast.
func NewBcryptWithCost(cost int) ports.Hasher {
	return &BcryptHasher{cost: cost}
}

// Hash produces a salted digest of the plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Compare reports whether plaintext matches the digest.
func (h *BcryptHasher) Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
