package enrich

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/vulpemventures/go-elements/elementsutil"

	"github.com/AreaLayer/gdk/keypath"
	"github.com/AreaLayer/gdk/pset"
	"github.com/AreaLayer/gdk/scriptutil"
	"github.com/AreaLayer/gdk/signer"
	"github.com/AreaLayer/gdk/wsession"
)

// Engine is the EnrichmentEngine: it owns the collaborators ToDetails and
// FromDetails need to resolve wallet keys, scripts and blinding factors,
// but does not retry or cache anything itself (spec.md §5 — no internal
// suspension).
type Engine struct {
	session  wsession.Session
	signer   *signer.Signer
	keypaths *keypath.Builder
	scripts  *scriptutil.Builder
}

func NewEngine(session wsession.Session, s *signer.Signer, keypaths *keypath.Builder, scripts *scriptutil.Builder) *Engine {
	return &Engine{session: session, signer: s, keypaths: keypaths, scripts: scripts}
}

// takeMatchingUtxo finds and removes a utxo matching (txid, vout) from
// utxosByAsset, mirroring take_matching_utxo. utxosByAsset may be nil or
// hold any subset of assets; a flat list (deprecated) is modelled as a
// single entry under an empty asset key by the caller if needed.
func takeMatchingUtxo(utxosByAsset map[string][]wsession.Utxo, txid string, vout uint32) (wsession.Utxo, bool) {
	for asset, utxos := range utxosByAsset {
		for i, u := range utxos {
			if u.Txid == txid && u.Vout == vout {
				utxosByAsset[asset] = append(utxos[:i], utxos[i+1:]...)
				return u, true
			}
		}
	}
	return wsession.Utxo{}, false
}

// txidHex returns the reversed (display-order) hex of a PSET input's raw
// little-endian PreviousTxid, mirroring go-elements' own
// elementsutil.TxIDFromBytes/TxIDToBytes round trip (see psetv2/updater.go
// in the teacher).
func txidHex(previousTxid []byte) string {
	return elementsutil.TxIDFromBytes(previousTxid)
}

func assetIDHex(asset []byte) string {
	return elementsutil.AssetHashFromBytes(asset)
}

// policyAssetSum accumulates the net amount (wallet inputs minus wallet
// outputs) per asset, used by ToDetails' fee computation.
type policyAssetSum struct {
	sums map[string]int64
}

func newPolicyAssetSum() *policyAssetSum { return &policyAssetSum{sums: map[string]int64{}} }

func (s *policyAssetSum) addIn(asset string, satoshi uint64)  { s.sums[asset] += int64(satoshi) }
func (s *policyAssetSum) subOut(asset string, satoshi uint64) { s.sums[asset] -= int64(satoshi) }
func (s *policyAssetSum) get(asset string) int64              { return s.sums[asset] }

func decodeAssetID(assetHex string) ([]byte, error) {
	return elementsutil.AssetHashToBytes(assetHex)
}

func defaultSighash(sh txscript.SigHashType) uint32 {
	if sh == 0 || sh == txscript.SigHashAll {
		return 0
	}
	return uint32(sh)
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("enrich: "+format, args...)
}
