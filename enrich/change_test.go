package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AreaLayer/gdk/scriptutil"
)

func TestApplyChangeHeuristicSinglesigUntouched(t *testing.T) {
	outputs := []OutputDetail{
		{AssetID: "lbtc", IsWallet: true, AddressType: string(scriptutil.AddressP2WPKH), IsChange: false},
		{AssetID: "lbtc", IsWallet: false},
	}
	walletInputAssets := map[string]bool{"lbtc": true}

	applyChangeHeuristic(outputs, walletInputAssets)

	assert.False(t, outputs[0].IsChange)
}

func TestApplyChangeHeuristicMultisigSentExternally(t *testing.T) {
	outputs := []OutputDetail{
		{AssetID: "lbtc", IsWallet: true, AddressType: string(scriptutil.AddressP2WSH)},
		{AssetID: "lbtc", IsWallet: false},
	}
	walletInputAssets := map[string]bool{"lbtc": true}

	applyChangeHeuristic(outputs, walletInputAssets)

	assert.True(t, outputs[0].IsChange)
}

func TestApplyChangeHeuristicMultisigTwoWalletOutputs(t *testing.T) {
	outputs := []OutputDetail{
		{AssetID: "lbtc", IsWallet: true, AddressType: string(scriptutil.AddressCSV)},
		{AssetID: "lbtc", IsWallet: true, AddressType: string(scriptutil.AddressCSV)},
	}
	walletInputAssets := map[string]bool{"lbtc": true}

	applyChangeHeuristic(outputs, walletInputAssets)

	assert.True(t, outputs[0].IsChange)
	assert.False(t, outputs[1].IsChange)
}

func TestApplyChangeHeuristicMultisigSoleWalletOutputNotSent(t *testing.T) {
	outputs := []OutputDetail{
		{AssetID: "lbtc", IsWallet: true, AddressType: string(scriptutil.AddressP2WSH)},
	}
	walletInputAssets := map[string]bool{"lbtc": true}

	applyChangeHeuristic(outputs, walletInputAssets)

	assert.False(t, outputs[0].IsChange)
}

func TestApplyChangeHeuristicIgnoresAssetsNeverFedAsInput(t *testing.T) {
	outputs := []OutputDetail{
		{AssetID: "usdt", IsWallet: true, AddressType: string(scriptutil.AddressP2WSH)},
	}
	walletInputAssets := map[string]bool{"lbtc": true}

	applyChangeHeuristic(outputs, walletInputAssets)

	assert.False(t, outputs[0].IsChange)
}

func TestApplyChangeHeuristicSkipsFeeOutput(t *testing.T) {
	outputs := []OutputDetail{
		{AssetID: "lbtc", Scriptpubkey: nil}, // fee output, empty script
		{AssetID: "lbtc", IsWallet: true, AddressType: string(scriptutil.AddressP2WSH), Scriptpubkey: []byte{0x00}},
	}
	walletInputAssets := map[string]bool{"lbtc": true}

	applyChangeHeuristic(outputs, walletInputAssets)

	assert.False(t, outputs[1].IsChange)
}
