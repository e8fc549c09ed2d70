package pset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBlinderLengthAndUniqueness(t *testing.T) {
	a, err := RandomBlinder()
	require.NoError(t, err)
	b, err := RandomBlinder()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Len(t, b, 32)
	assert.False(t, bytes.Equal(a, b))
}
