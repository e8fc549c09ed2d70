package pset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeExplicitValueRoundTrip(t *testing.T) {
	encoded := encodeExplicitValue(123456789)

	decoded, err := DecodeExplicitValue(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), decoded)
}

func TestDecodeExplicitValueZero(t *testing.T) {
	encoded := encodeExplicitValue(0)

	decoded, err := DecodeExplicitValue(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), decoded)
}
