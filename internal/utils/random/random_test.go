package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	s, err := String(32, CharsetAlphanumeric)
	require.NoError(t, err)
	assert.Len(t, s, 32)
	for _, r := range s {
		assert.True(t, strings.ContainsRune(CharsetAlphanumeric, r), "unexpected rune %q", r)
	}

	other, err := String(32, "")
	require.NoError(t, err)
	assert.Len(t, other, 32)
	assert.NotEqual(t, s, other)

	empty, err := String(0, CharsetAlphanumeric)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
