package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)
	require.NotEqual(t, "Secret1!", hash)

	require.True(t, VerifyPassword(hash, "Secret1!"))
	require.False(t, VerifyPassword(hash, "secret1!"))
}

func TestGenerateTokenUnique(t *testing.T) {
	first, err := GenerateToken(32)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := GenerateToken(32)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
