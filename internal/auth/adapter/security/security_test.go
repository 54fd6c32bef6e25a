package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService_RoundTrip(t *testing.T) {
	svc, err := NewPasswordService(4) // low cost to keep the test fast
	require.NoError(t, err)

	hash, err := svc.Hash("demo123")
	require.NoError(t, err)
	assert.NotEqual(t, "demo123", hash)

	assert.True(t, svc.Verify("demo123", hash))
	assert.False(t, svc.Verify("demo124", hash))
}

func TestPasswordService_MalformedHash(t *testing.T) {
	svc, err := NewPasswordService(4)
	require.NoError(t, err)

	assert.False(t, svc.Verify("demo123", ""))
	assert.False(t, svc.Verify("demo123", "not-a-bcrypt-hash"))
}

func TestPasswordService_LongPassword(t *testing.T) {
	// Raw bcrypt rejects inputs over 72 bytes; the SHA-256 pre-hash keeps
	// arbitrarily long passwords working.
	svc, err := NewPasswordService(4)
	require.NoError(t, err)

	long := strings.Repeat("correct horse battery staple ", 10)
	hash, err := svc.Hash(long)
	require.NoError(t, err)
	assert.True(t, svc.Verify(long, hash))
	assert.False(t, svc.Verify(long+"x", hash))
}

func TestPasswordService_CostBounds(t *testing.T) {
	_, err := NewPasswordService(0)
	assert.Error(t, err)
	_, err = NewPasswordService(99)
	assert.Error(t, err)
}

func TestSessionTokenSource(t *testing.T) {
	src := NewSessionTokenSource()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := src.NewToken()
		require.NoError(t, err)
		// 32 bytes of entropy encode to 43 base64url characters.
		assert.Len(t, token, 43)
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "=")
		assert.False(t, seen[token], "token reuse")
		seen[token] = true
	}
}
