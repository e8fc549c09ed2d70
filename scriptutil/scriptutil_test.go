package scriptutil

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AreaLayer/gdk/pset"
)

func newTestPset(t *testing.T) *pset.Updater {
	t.Helper()
	p := pset.New(false)
	upd, err := pset.NewUpdater(p)
	require.NoError(t, err)
	require.NoError(t, upd.AddInputs([]pset.InputArgs{{
		Txid:    "000000000000000000000000000000000000000000000000000000000000000a",
		TxIndex: 0,
	}}))
	require.NoError(t, upd.AddOutputs([]pset.OutputArgs{{Amount: 1000, Address: ""}}))
	return upd
}

func samplePubkey(t *testing.T) []byte {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv.PubKey().SerializeCompressed()
}

func TestAddInputScriptsP2SHP2WPKH(t *testing.T) {
	upd := newTestPset(t)
	b := NewBuilder()

	err := b.AddInputScripts(upd, 0, AddressP2SHP2WPKH, samplePubkey(t), nil)
	require.NoError(t, err)

	in := upd.Pset.GetInput(0)
	assert.NotEmpty(t, in.RedeemScript)
	assert.Empty(t, in.WitnessScript)
}

func TestAddInputScriptsP2SHP2WPKHRequiresPubkey(t *testing.T) {
	upd := newTestPset(t)
	b := NewBuilder()

	err := b.AddInputScripts(upd, 0, AddressP2SHP2WPKH, nil, nil)
	assert.Error(t, err)
}

func TestAddInputScriptsP2WSH(t *testing.T) {
	upd := newTestPset(t)
	b := NewBuilder()
	witnessScript := []byte{0x51, 0x52, 0xae} // dummy OP_1 OP_2 OP_CHECKMULTISIG-ish bytes

	err := b.AddInputScripts(upd, 0, AddressP2WSH, nil, witnessScript)
	require.NoError(t, err)

	in := upd.Pset.GetInput(0)
	assert.Equal(t, witnessScript, in.WitnessScript)
	assert.NotEmpty(t, in.RedeemScript)
}

func TestAddInputScriptsP2WSHRequiresPrevoutScript(t *testing.T) {
	upd := newTestPset(t)
	b := NewBuilder()

	err := b.AddInputScripts(upd, 0, AddressCSV, nil, nil)
	assert.Error(t, err)
}

func TestAddInputScriptsP2WPKHIsNoop(t *testing.T) {
	upd := newTestPset(t)
	b := NewBuilder()

	err := b.AddInputScripts(upd, 0, AddressP2WPKH, samplePubkey(t), nil)
	require.NoError(t, err)

	in := upd.Pset.GetInput(0)
	assert.Empty(t, in.RedeemScript)
	assert.Empty(t, in.WitnessScript)
}
