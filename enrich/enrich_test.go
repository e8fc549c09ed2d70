package enrich

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/go-elements/elementsutil"
	"github.com/vulpemventures/go-elements/transaction"

	"github.com/AreaLayer/gdk/keypath"
	"github.com/AreaLayer/gdk/netparams"
	"github.com/AreaLayer/gdk/pset"
	"github.com/AreaLayer/gdk/scriptutil"
	"github.com/AreaLayer/gdk/signer"
	"github.com/AreaLayer/gdk/wsession"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type fakePubkeySource struct{ path []uint32 }

func (f fakePubkeySource) GetFullPath(subaccount, pointer uint32, isInternal bool) []uint32 {
	return f.path
}

type fakeSession struct {
	params    netparams.Params
	keys      []wsession.ExtPubKey
	scripts   map[string]wsession.OutputInfo
	rawTxByID map[string]*transaction.Transaction
}

func (f fakeSession) KeysFromUtxo(utxo wsession.Utxo) ([]wsession.ExtPubKey, error) {
	return f.keys, nil
}

func (f fakeSession) ScriptpubkeyData(script []byte) (wsession.OutputInfo, bool) {
	info, ok := f.scripts[string(script)]
	return info, ok
}

func (f fakeSession) FetchRawTransaction(txid string) (*transaction.Transaction, error) {
	tx, ok := f.rawTxByID[txid]
	if !ok {
		return nil, assertNever{}
	}
	return tx, nil
}

func (f fakeSession) GreenPubkeys() wsession.PubkeySource { return fakePubkeySource{} }
func (f fakeSession) UserPubkeys() wsession.PubkeySource  { return fakePubkeySource{path: []uint32{0, 5}} }
func (f fakeSession) NetParams() netparams.Params          { return f.params }

// assertNever satisfies the error interface for a lookup that a correctly
// written test should never hit.
type assertNever struct{}

func (assertNever) Error() string { return "unexpected FetchRawTransaction call" }

func newTestEngine(t *testing.T, session wsession.Session) *Engine {
	t.Helper()
	params := netparams.Testnet
	params.IsElectrum = true // no Green co-signer key needed for this fixture
	s, err := signer.New(params, nil, signer.Request{Mnemonic: testMnemonic})
	require.NoError(t, err)
	kb := keypath.NewBuilder(session, s)
	sb := scriptutil.NewBuilder()
	return NewEngine(session, s, kb, sb)
}

func p2wpkhScript(t *testing.T) ([]byte, []byte) {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PubKey().SerializeCompressed()
	h := btcutil.Hash160(pub)
	script := append([]byte{0x00, 0x14}, h...)
	return script, pub
}

func TestToDetailsNonLiquidWalletInputAndOutput(t *testing.T) {
	prevoutScript, _ := p2wpkhScript(t)
	walletOutScript, _ := p2wpkhScript(t)

	prevTxid := "000000000000000000000000000000000000000000000000000000000000000a"
	prevTxidBytes, err := elementsutil.TxIDToBytes(prevTxid)
	require.NoError(t, err)

	p := &pset.Pset{
		IsLiquid:        false,
		OriginalVersion: 2,
		Global:          pset.Global{Version: 2, InputCount: 1, OutputCount: 1},
		Inputs: []pset.Input{{
			PreviousTxid:    prevTxidBytes,
			PreviousTxIndex: 0,
			WitnessUtxo:     transaction.NewTxOutput(nil, encodeExplicitValueForTest(100000), prevoutScript),
		}},
		Outputs: []pset.Output{{
			Script:    walletOutScript,
			HasAmount: true,
			Amount:    99000,
		}},
	}

	session := fakeSession{
		params: netparams.Testnet,
		keys:   []wsession.ExtPubKey{{PublicKey: mustPubkey(t)}},
		scripts: map[string]wsession.OutputInfo{
			string(walletOutScript): {Subaccount: 1, Pointer: 3, IsInternal: true, AddressType: "p2wpkh"},
		},
	}
	session.params.IsElectrum = true

	engine := newTestEngine(t, session)

	utxosByAsset := map[string][]wsession.Utxo{
		"": {{
			Txid:          prevTxid,
			Vout:          0,
			Satoshi:       100000,
			Subaccount:    1,
			Pointer:       2,
			AddressType:   "p2wpkh",
			PrevoutScript: prevoutScript,
		}},
	}

	details, err := engine.ToDetails(p, utxosByAsset)
	require.NoError(t, err)

	assert.False(t, details.IsPartial)
	require.Len(t, details.TransactionInputs, 1)
	assert.True(t, details.TransactionInputs[0].IsWallet)

	require.Len(t, details.TransactionOutputs, 1)
	assert.True(t, details.TransactionOutputs[0].IsWallet)
	assert.True(t, details.TransactionOutputs[0].IsInternal)
	assert.Equal(t, uint64(1000), details.Fee)
}

func mustPubkey(t *testing.T) []byte {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv.PubKey().SerializeCompressed()
}

func encodeExplicitValueForTest(amount uint64) []byte {
	v := make([]byte, 9)
	v[0] = 1
	for i := 0; i < 8; i++ {
		v[8-i] = byte(amount >> (8 * i))
	}
	return v
}
