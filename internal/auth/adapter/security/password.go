package security

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost matches the cost the rest of the platform stores
	// hashes with.
	DefaultBcryptCost = 12

	minBcryptCost = bcrypt.MinCost
	maxBcryptCost = bcrypt.MaxCost
)

// PasswordService hashes and verifies passwords using a SHA-256 pre-hash
// followed by bcrypt. The pre-hash produces a fixed 32-byte digest, so the
// underlying bcrypt call never sees more than its 72-byte input limit no
// matter how long the password is.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a password service with the given bcrypt cost.
func NewPasswordService(cost int) (*PasswordService, error) {
	if cost < minBcryptCost || cost > maxBcryptCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &PasswordService{cost: cost}, nil
}

func digest(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return sum[:]
}

// Hash returns the bcrypt hash of the password's SHA-256 digest.
func (s *PasswordService) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(digest(plaintext), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. A malformed or
// incompatible stored hash verifies false instead of erroring, so callers
// can treat it as invalid credentials.
func (s *PasswordService) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(plaintext)) == nil
}
