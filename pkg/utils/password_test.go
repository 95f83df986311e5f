package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_NeverPlaintext(t *testing.T) {
	var h Argon2Hasher

	hash, err := h.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.Contains(t, hash, "$argon2id$")
}

func TestHashPassword_RandomSalt(t *testing.T) {
	var h Argon2Hasher

	h1, err := h.HashPassword("secret1")
	require.NoError(t, err)
	h2, err := h.HashPassword("secret1")
	require.NoError(t, err)

	// Same password, different salt, different hash
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	var h Argon2Hasher

	hash, err := h.HashPassword("secret1")
	require.NoError(t, err)

	ok, err := h.VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.VerifyPassword("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_InvalidFormat(t *testing.T) {
	var h Argon2Hasher

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not a hash", "plaintext"},
		{"wrong scheme", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"bad base64 salt", "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.VerifyPassword("secret1", tt.hash)
			assert.Error(t, err)
		})
	}
}
