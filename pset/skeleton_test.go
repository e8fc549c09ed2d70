package pset

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulpemventures/go-elements/transaction"
)

func buildRawTx(t *testing.T) *transaction.Transaction {
	t.Helper()
	tx := transaction.NewTx(2)
	hash := make([]byte, 32)
	hash[0] = 0x0a
	tx.Inputs = append(tx.Inputs, transaction.NewTxInput(hash, 0))
	tx.Outputs = append(tx.Outputs, transaction.NewTxOutput(nil, encodeExplicitValue(5000), []byte{0x00, 0x14}))
	return tx
}

func TestParseRawTxNonLiquidRoundTrip(t *testing.T) {
	msgTx := wire.NewMsgTx(2)
	var hash chainhash.Hash
	hash[0] = 0x0a
	msgTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&hash, 0), nil, nil))
	msgTx.AddTxOut(wire.NewTxOut(5000, []byte{0x00, 0x14}))
	var raw bytes.Buffer
	require.NoError(t, msgTx.Serialize(&raw))

	parsed, err := ParseRawTx(hex.EncodeToString(raw.Bytes()), false)
	require.NoError(t, err)
	require.Len(t, parsed.Inputs, 1)
	require.Len(t, parsed.Outputs, 1)
}

func TestNewFromTxSeedsExplicitAmounts(t *testing.T) {
	tx := buildRawTx(t)

	p, err := NewFromTx(tx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, p.NumInputs())
	assert.Equal(t, 1, p.NumOutputs())

	out := p.GetOutput(0)
	assert.True(t, out.HasAmount)
	assert.Equal(t, uint64(5000), out.Amount)
}

func TestNewFromTxOriginalVersionForLegacyTx(t *testing.T) {
	tx := transaction.NewTx(1)
	p, err := NewFromTx(tx, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), p.OriginalVersion)
}
