package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)
	assert.True(t, CheckPasswordHash("pw123", hash))
	assert.False(t, CheckPasswordHash("pw456", hash))
}

func TestNewOneTimeToken(t *testing.T) {
	a, err := NewOneTimeToken()
	require.NoError(t, err)
	b, err := NewOneTimeToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken("secret", "user-1", "a@x.com", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)

	_, err = ParseToken("other", tok)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	tok, err := GenerateToken("secret", "user-1", "a@x.com", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret", tok)
	assert.Error(t, err)
}
