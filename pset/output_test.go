package pset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputIsFeeOutput(t *testing.T) {
	var out Output
	assert.True(t, out.IsFeeOutput())

	out.Script = []byte{0x00, 0x14}
	assert.False(t, out.IsFeeOutput())
}

func TestOutputNeedsBlinding(t *testing.T) {
	var out Output
	assert.False(t, out.NeedsBlinding())

	out.BlindingPubkey = make([]byte, 33)
	assert.True(t, out.NeedsBlinding())
}

func TestOutputBlindingStatus(t *testing.T) {
	var out Output
	assert.Equal(t, BlindingStatusNone, out.BlindingStatus())

	out.AssetCommitment = make([]byte, 33)
	out.ValueCommitment = make([]byte, 33)
	assert.Equal(t, BlindingStatusFull, out.BlindingStatus())
}
