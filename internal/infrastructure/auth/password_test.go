package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	h := NewPasswordHasher()

	hash, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, h.Verify("correct horse battery staple", hash))
	require.False(t, h.Verify("wrong password", hash))
}

func TestPasswordHasherUniqueSalts(t *testing.T) {
	h := NewPasswordHasher()

	first, err := h.Hash("password123")
	require.NoError(t, err)
	second, err := h.Hash("password123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
