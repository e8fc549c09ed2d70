package enrich

import "github.com/AreaLayer/gdk/scriptutil"

// applyChangeHeuristic implements spec.md §4.6: singlesig wallet outputs
// already carry their is_change value from the is_internal rename in
// ToDetails' output loop, but multisig wallets have no dedicated internal
// chain and need a flow-based heuristic instead — for every asset the
// wallet fed an input into, the first wallet output of that asset is
// change unless the asset was never sent externally and the wallet has
// only that one output of it.
func applyChangeHeuristic(outputs []OutputDetail, walletInputAssets map[string]bool) {
	sentExternally := map[string]bool{}
	walletOutputCount := map[string]int{}
	firstWalletOutput := map[string]int{}

	for i, out := range outputs {
		if out.IsFeeOutput() {
			continue
		}
		if !out.IsWallet {
			sentExternally[out.AssetID] = true
			continue
		}
		walletOutputCount[out.AssetID]++
		if _, ok := firstWalletOutput[out.AssetID]; !ok {
			firstWalletOutput[out.AssetID] = i
		}
	}

	for asset := range walletInputAssets {
		idx, ok := firstWalletOutput[asset]
		if !ok {
			continue
		}
		if !isMultisigAddressType(outputs[idx].AddressType) {
			continue
		}
		outputs[idx].IsChange = sentExternally[asset] || walletOutputCount[asset] >= 2
	}
}

func isMultisigAddressType(addrType string) bool {
	t := scriptutil.AddressType(addrType)
	return t == scriptutil.AddressCSV || t == scriptutil.AddressP2WSH
}
