package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	c := NewCodec("super-secret")

	tok, err := c.Sign("a@x.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	subject, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	c := NewCodec("secret")

	tok, err := c.Sign("a@x.com", -1*time.Second)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewCodec("right-secret").Sign("a@x.com", time.Hour)
	require.NoError(t, err)

	_, err = NewCodec("wrong-secret").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	c := NewCodec("secret")

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := c.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	c := NewCodec("secret")

	tok, err := c.Sign("", time.Hour)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
