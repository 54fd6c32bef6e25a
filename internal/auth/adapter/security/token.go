package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenEntropyBytes is the number of random bytes behind each session
// token. 32 bytes keeps tokens unguessable and unique in practice.
const tokenEntropyBytes = 32

// SessionTokenSource generates opaque, URL-safe session tokens from the
// platform CSPRNG. The token has no decodable structure; resolving it
// requires a store lookup.
type SessionTokenSource struct{}

// NewSessionTokenSource creates a new token source.
func NewSessionTokenSource() *SessionTokenSource {
	return &SessionTokenSource{}
}

// NewToken returns a fresh opaque token.
func (s *SessionTokenSource) NewToken() (string, error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
