// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	require.NoError(t, Init())

	playerID := uuid.New().String()
	token, err := CreateJWT(playerID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, sub)
}

func TestJWTRejectsTampering(t *testing.T) {
	require.NoError(t, Init())

	token, err := CreateJWT(uuid.New().String())
	require.NoError(t, err)

	_, err = AuthenticateJWT(token + "x")
	assert.Error(t, err)

	_, err = AuthenticateJWT("not-a-token")
	assert.Error(t, err)
}

func TestJWTKeysArePerProcess(t *testing.T) {
	require.NoError(t, Init())
	token, err := CreateJWT(uuid.New().String())
	require.NoError(t, err)

	// Re-initializing rotates the key pair, invalidating old sessions.
	require.NoError(t, Init())
	_, err = AuthenticateJWT(token)
	assert.Error(t, err)
}

func TestParseTokenExpireTime(t *testing.T) {
	t.Setenv("TOKEN_EXPIRE_TIME", "")
	require.NoError(t, parseTokenExpireTime())
	assert.Zero(t, TokenExpireTimeSec)

	t.Setenv("TOKEN_EXPIRE_TIME", "never")
	require.NoError(t, parseTokenExpireTime())
	assert.Zero(t, TokenExpireTimeSec)

	t.Setenv("TOKEN_EXPIRE_TIME", "24h")
	require.NoError(t, parseTokenExpireTime())
	assert.Equal(t, 86400, TokenExpireTimeSec)

	t.Setenv("TOKEN_EXPIRE_TIME", "bogus")
	assert.Error(t, parseTokenExpireTime())
}
