package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)

	second, err := HashPassword("secret1")
	require.NoError(t, err)

	// Одинаковые пароли дают разные хеши из-за случайной соли
	assert.NotEqual(t, first, second)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("secret1", hash))
	assert.False(t, VerifyPassword("secret2", hash))
	assert.False(t, VerifyPassword("", hash))
	assert.False(t, VerifyPassword("secret1", "not-a-bcrypt-hash"))
}
