package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_SaltedAndVerifiable(t *testing.T) {
	t.Parallel()

	h := New("test-pepper")

	first, err := h.Hash("password")
	require.NoError(t, err)
	second, err := h.Hash("password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "salting must make repeated hashes differ")
	assert.True(t, h.Check(first, "password"))
	assert.True(t, h.Check(second, "password"))
	assert.False(t, h.Check(first, "wrong-password"))
}

func TestHash_PepperSensitivity(t *testing.T) {
	t.Parallel()

	peppered := New("pepper-a")
	hashed, err := peppered.Hash("password")
	require.NoError(t, err)

	otherPepper := New("pepper-b")
	assert.False(t, otherPepper.Check(hashed, "password"))

	noPepper := New("")
	assert.False(t, noPepper.Check(hashed, "password"))
}

func TestHash_EmptyPepperIsNoOp(t *testing.T) {
	t.Parallel()

	h := New("")
	hashed, err := h.Hash("password")
	require.NoError(t, err)
	assert.True(t, h.Check(hashed, "password"))
}

func TestCheck_MalformedHashReturnsFalse(t *testing.T) {
	t.Parallel()

	h := New("test-pepper")
	assert.False(t, h.Check("not-a-bcrypt-hash", "password"))
	assert.False(t, h.Check("", "password"))
}
