package repository

// PasswordHasher abstracts the slow, salted password hash used to store and
// verify credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches the stored hash. A malformed
	// stored hash verifies false rather than erroring, so callers can treat
	// it uniformly as invalid credentials.
	Verify(plaintext, hash string) bool
}

// TokenSource produces opaque session tokens. Tokens are URL-safe and carry
// at least 32 bytes of entropy; uniqueness follows from the entropy, and a
// collision at insert is a retry condition rather than a user-facing error.
type TokenSource interface {
	NewToken() (string, error)
}
