package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	ok, err := ComparePassword(hash, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword(hash, "secret124")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePasswordMalformedHash(t *testing.T) {
	ok, err := ComparePassword("not-a-bcrypt-hash", "secret123")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHashPasswordInvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("secret123", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestLongPasswordsUseFirst72Bytes(t *testing.T) {
	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := ComparePassword(hash, long)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword(hash, strings.Repeat("a", 72))
	require.NoError(t, err)
	assert.True(t, ok, "bytes past 72 do not affect the hash")

	ok, err = ComparePassword(hash, strings.Repeat("a", 71))
	require.NoError(t, err)
	assert.False(t, ok)
}
