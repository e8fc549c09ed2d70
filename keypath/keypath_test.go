package keypath

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/go-elements/transaction"

	"github.com/AreaLayer/gdk/netparams"
	"github.com/AreaLayer/gdk/pset"
	"github.com/AreaLayer/gdk/signer"
	"github.com/AreaLayer/gdk/wsession"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type fakePubkeySource struct {
	path []uint32
}

func (f fakePubkeySource) GetFullPath(subaccount, pointer uint32, isInternal bool) []uint32 {
	return f.path
}

type fakeSession struct {
	params netparams.Params
	keys   []wsession.ExtPubKey
}

func (f fakeSession) KeysFromUtxo(utxo wsession.Utxo) ([]wsession.ExtPubKey, error) {
	return f.keys, nil
}

func (f fakeSession) ScriptpubkeyData(script []byte) (wsession.OutputInfo, bool) { return wsession.OutputInfo{}, false }

func (f fakeSession) FetchRawTransaction(txid string) (*transaction.Transaction, error) {
	return nil, nil
}

func (f fakeSession) GreenPubkeys() wsession.PubkeySource { return fakePubkeySource{path: []uint32{1, 2}} }
func (f fakeSession) UserPubkeys() wsession.PubkeySource  { return fakePubkeySource{path: []uint32{3, 4}} }
func (f fakeSession) NetParams() netparams.Params          { return f.params }

func newTestSigner(t *testing.T) *signer.Signer {
	t.Helper()
	s, err := signer.New(netparams.Testnet, nil, signer.Request{Mnemonic: testMnemonic})
	require.NoError(t, err)
	return s
}

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

func TestAddInputKeypathsAttachesGreenAndUserKeys(t *testing.T) {
	session := fakeSession{
		params: netparams.Testnet,
		keys:   []wsession.ExtPubKey{{PublicKey: samplePubkey(t)}, {PublicKey: samplePubkey(t)}},
	}
	s := newTestSigner(t)
	b := NewBuilder(session, s)
	upd := newTestPset(t)

	err := b.AddInputKeypaths(upd, 0, wsession.Utxo{Subaccount: 1, Pointer: 2})
	require.NoError(t, err)

	in := upd.Pset.GetInput(0)
	assert.Len(t, in.Bip32Derivation, 2)
}

func TestAddInputKeypathsSkipsGreenKeyForElectrum(t *testing.T) {
	params := netparams.Testnet
	params.IsElectrum = true
	session := fakeSession{
		params: params,
		keys:   []wsession.ExtPubKey{{PublicKey: samplePubkey(t)}},
	}
	s := newTestSigner(t)
	b := NewBuilder(session, s)
	upd := newTestPset(t)

	err := b.AddInputKeypaths(upd, 0, wsession.Utxo{Subaccount: 1, Pointer: 2})
	require.NoError(t, err)

	// Electrum has no Green key: the single key is the user's own.
	in := upd.Pset.GetInput(0)
	assert.Len(t, in.Bip32Derivation, 1)
}

func TestAddOutputKeypathsAttachesDerivation(t *testing.T) {
	session := fakeSession{
		params: netparams.Testnet,
		keys:   []wsession.ExtPubKey{{PublicKey: samplePubkey(t)}},
	}
	s := newTestSigner(t)
	b := NewBuilder(session, s)
	upd := newTestPset(t)

	err := b.AddOutputKeypaths(upd, 0, wsession.OutputInfo{Subaccount: 1, Pointer: 2})
	require.NoError(t, err)

	out := upd.Pset.GetOutput(0)
	assert.Len(t, out.Bip32Derivation, 1)
}
