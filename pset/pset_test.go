package pset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTxPset(t *testing.T, isLiquid bool) *Pset {
	t.Helper()
	p := New(isLiquid)
	upd, err := NewUpdater(p)
	require.NoError(t, err)
	require.NoError(t, upd.AddInputs([]InputArgs{{
		Txid:    "000000000000000000000000000000000000000000000000000000000000000a",
		TxIndex: 1,
	}}))
	return p
}

func TestNewPsetHasVersion2(t *testing.T) {
	p := New(false)
	assert.Equal(t, uint32(2), p.Global.Version)
	assert.Equal(t, uint32(2), p.OriginalVersion)
	assert.False(t, p.IsLiquid)
}

func TestCopyIsIndependent(t *testing.T) {
	p := newTxPset(t, false)
	cp := p.Copy()

	cp.Inputs[0].Sequence = 42
	assert.NotEqual(t, p.Inputs[0].Sequence, cp.Inputs[0].Sequence)
}

func TestNumInputsAndGetInputPanicsOutOfRange(t *testing.T) {
	p := newTxPset(t, false)
	assert.Equal(t, 1, p.NumInputs())
	assert.Equal(t, 0, p.NumOutputs())

	assert.Panics(t, func() { p.GetInput(5) })
}

func TestExtractIncludesExplicitFeeValue(t *testing.T) {
	p := New(false)
	upd, err := NewUpdater(p)
	require.NoError(t, err)
	require.NoError(t, upd.AddInputs([]InputArgs{{
		Txid:    "000000000000000000000000000000000000000000000000000000000000000a",
		TxIndex: 0,
	}}))
	require.NoError(t, upd.AddOutputs([]OutputArgs{{Amount: 1500, Address: ""}}))

	tx, err := p.Extract()
	require.NoError(t, err)
	require.Len(t, tx.Outputs, 1)

	amount, err := decodeExplicitValue(tx.Outputs[0].Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), amount)
}

func TestSanityCheckRejectsOutputCountMismatch(t *testing.T) {
	p := New(false)
	p.Global.OutputCount = 1
	err := p.SanityCheck()
	assert.ErrorIs(t, err, ErrInvalidPsbtFormat)
}

func TestSanityCheckRejectsBlindedFeeOutput(t *testing.T) {
	p := New(true)
	p.Global.OutputCount = 1
	p.Outputs = []Output{{
		HasAmount:       true,
		Amount:          500,
		AssetCommitment: make([]byte, 33),
		ValueCommitment: make([]byte, 33),
		EcdhPubkey:      make([]byte, 33),
		ValueRangeproof: []byte{0x00},
		// Script intentionally empty: this is the fee output, which must
		// never be blinded.
	}}
	err := p.SanityCheck()
	assert.ErrorIs(t, err, ErrInvalidBlindingStatus)
}
