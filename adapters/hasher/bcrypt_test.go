package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewBcryptWithCost(bcrypt.MinCost)

	digest, err := h.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", digest)

	assert.True(t, h.Compare("s3cret", digest))
	assert.False(t, h.Compare("wrong", digest))
	assert.False(t, h.Compare("s3cret", "not-a-digest"))
}

func TestHashesAreSalted(t *testing.T) {
	h := NewBcryptWithCost(bcrypt.MinCost)

	first, err := h.Hash("s3cret")
	require.NoError(t, err)
	second, err := h.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
