package enrich

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AreaLayer/gdk/wsession"
)

func TestTakeMatchingUtxoFound(t *testing.T) {
	utxosByAsset := map[string][]wsession.Utxo{
		"lbtc": {
			{Txid: "aa", Vout: 0, Satoshi: 1000},
			{Txid: "bb", Vout: 1, Satoshi: 2000},
		},
	}

	utxo, ok := takeMatchingUtxo(utxosByAsset, "bb", 1)
	require.True(t, ok)
	assert.Equal(t, uint64(2000), utxo.Satoshi)
	assert.Len(t, utxosByAsset["lbtc"], 1)
	assert.Equal(t, "aa", utxosByAsset["lbtc"][0].Txid)
}

func TestTakeMatchingUtxoNotFound(t *testing.T) {
	utxosByAsset := map[string][]wsession.Utxo{
		"lbtc": {{Txid: "aa", Vout: 0}},
	}

	_, ok := takeMatchingUtxo(utxosByAsset, "cc", 0)
	assert.False(t, ok)
}

func TestTakeMatchingUtxoNilMap(t *testing.T) {
	_, ok := takeMatchingUtxo(nil, "aa", 0)
	assert.False(t, ok)
}

func TestPolicyAssetSum(t *testing.T) {
	sums := newPolicyAssetSum()
	sums.addIn("lbtc", 1000)
	sums.addIn("lbtc", 500)
	sums.subOut("lbtc", 300)
	sums.addIn("usdt", 10)

	assert.Equal(t, int64(1200), sums.get("lbtc"))
	assert.Equal(t, int64(10), sums.get("usdt"))
	assert.Equal(t, int64(0), sums.get("unknown"))
}

func TestDefaultSighash(t *testing.T) {
	assert.Equal(t, uint32(0), defaultSighash(0))
	assert.Equal(t, uint32(0), defaultSighash(txscript.SigHashAll))
	assert.Equal(t, uint32(txscript.SigHashSingle), defaultSighash(txscript.SigHashSingle))
}

func TestDecodeAssetIDRoundTrip(t *testing.T) {
	const lbtcRegtest = "5ac9f65c0efcc4775e0baec4ec03abdde22473cd3cf33c0419ca290e0751b225"

	asset, err := decodeAssetID(lbtcRegtest)
	require.NoError(t, err)
	require.Len(t, asset, 32)

	assert.Equal(t, lbtcRegtest, assetIDHex(asset))
}
