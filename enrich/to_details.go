package enrich

import (
	"encoding/hex"

	"github.com/vulpemventures/go-elements/address"

	"github.com/AreaLayer/gdk/gdklog"
	"github.com/AreaLayer/gdk/pset"
	"github.com/AreaLayer/gdk/scriptutil"
	"github.com/AreaLayer/gdk/wsession"
)

// dummySigSize and dummyPubkeySize bound a DER ECDSA signature (including
// its trailing sighash byte) and a compressed pubkey, used to size the
// placeholder witness/scriptSig ToDetails attaches to an unsigned wallet
// input so its fee-rate estimate never undershoots the fully-signed size.
const (
	dummySigSize    = 73
	dummyPubkeySize = 33
)

// ToDetails walks psbt into the wallet's transaction-details view
// (spec.md §4.5.1): every input is matched against utxosByAsset (either a
// flat, deprecated list under one key, or a proper asset_id -> utxos map)
// to tell wallet inputs from foreign ones, every output is classified via
// Session.ScriptpubkeyData, and ChangeHeuristic runs last over the
// classified outputs.
func (e *Engine) ToDetails(p *pset.Pset, utxosByAsset map[string][]wsession.Utxo) (*Details, error) {
	upd, err := pset.NewUpdater(p)
	if err != nil {
		return nil, errorf("building updater: %w", err)
	}

	tx, err := p.Extract()
	if err != nil {
		return nil, errorf("extracting transaction: %w", err)
	}
	rawTx, err := tx.Serialize()
	if err != nil {
		return nil, errorf("serializing transaction: %w", err)
	}

	txHash := tx.TxHash()
	details := &Details{
		Transaction:  hex.EncodeToString(rawTx),
		Txhash:       txidHex(txHash[:]),
		IsBlinded:    p.IsLiquid,
		UtxoStrategy: "manual",
	}

	sums := newPolicyAssetSum()
	walletInputAssets := map[string]bool{}
	var topLevelErr string
	numWalletInputs := 0
	var dummyExtraBytes int

	for i := 0; i < p.NumInputs(); i++ {
		in := p.GetInput(i)
		txid := txidHex(in.PreviousTxid)
		detail := InputDetail{Txid: txid, Vout: in.PreviousTxIndex, Sequence: in.SequenceOrDefault()}

		utxo, isWallet := takeMatchingUtxo(utxosByAsset, txid, in.PreviousTxIndex)
		if err := e.ensureInputUtxo(upd, i, in, txid); err != nil {
			return nil, err
		}
		in = p.GetInput(i)

		if isWallet {
			numWalletInputs++
			detail.IsWallet = true
			detail.SkipSigning = utxo.SkipSigning
			detail.AssetID = utxo.AssetID
			detail.Satoshi = utxo.Satoshi
			detail.AssetBlinder = utxo.AssetBlinder
			detail.AmountBlinder = utxo.AmountBlinder
			detail.Subaccount = utxo.Subaccount
			detail.Pointer = utxo.Pointer
			detail.IsInternal = utxo.IsInternal
			detail.AddressType = utxo.AddressType
			detail.PrevoutScript = utxo.PrevoutScript
			detail.UserSighash = defaultSighash(in.Sighash())
			if len(in.RedeemScript) > 0 {
				detail.RedeemScript = in.RedeemScript
			}

			sums.addIn(utxo.AssetID, utxo.Satoshi)
			walletInputAssets[utxo.AssetID] = true

			if err := e.keypaths.AddInputKeypaths(upd, i, utxo); err != nil {
				return nil, err
			}
			in = p.GetInput(i)

			if !in.IsFinalized() {
				dummyExtraBytes += dummyInputSize(scriptutil.AddressType(utxo.AddressType), len(in.Bip32Derivation), len(utxo.PrevoutScript))
			}
		} else {
			detail.SkipSigning = true
			if bestUtxo := in.BestUtxo(); bestUtxo != nil {
				if amount, err := pset.DecodeExplicitValue(bestUtxo.Value); err == nil {
					detail.Satoshi = amount
				}
			}
			if len(in.RedeemScript) > 0 {
				detail.RedeemScript = in.RedeemScript
			}
			if p.IsLiquid {
				if !in.HasAmount || len(in.ValueProof) == 0 || len(in.AssetProof) == 0 {
					detail.Error = "failed to unblind utxo"
					gdklog.Warnf("enrich: input %d (%s:%d) is non-wallet and missing explicit proofs", i, txid, in.PreviousTxIndex)
				} else {
					detail.Satoshi = in.Amount
					detail.AssetID = assetIDHex(in.ExplicitAsset)
				}
			}
		}

		if detail.Error != "" && !detail.SkipSigning {
			topLevelErr = detail.Error
		}
		details.TransactionInputs = append(details.TransactionInputs, detail)
	}
	details.IsPartial = numWalletInputs != p.NumInputs()

	var explicitFee uint64
	for i := 0; i < p.NumOutputs(); i++ {
		out := p.GetOutput(i)
		detail := OutputDetail{Scriptpubkey: out.Script}

		if !p.IsLiquid {
			if !out.HasAmount || len(out.Script) == 0 {
				return nil, errorf("output %d missing amount or script", i)
			}
			detail.Satoshi = out.Amount
		} else {
			if len(out.Asset) == 0 || !out.HasAmount {
				return nil, errorf("output %d missing explicit asset or amount", i)
			}
			detail.AssetID = assetIDHex(out.Asset)
			detail.Satoshi = out.Amount

			switch out.BlindingStatus() {
			case pset.BlindingStatusNone:
				if !out.IsFeeOutput() {
					return nil, errorf("output %d: unblinded output must be the fee output", i)
				}
				explicitFee += out.Amount
			case pset.BlindingStatusFull:
				if out.IsFeeOutput() {
					return nil, errorf("output %d: blinded output must carry a script", i)
				}
			}
		}

		if !out.IsFeeOutput() {
			if info, ok := e.session.ScriptpubkeyData(out.Script); ok {
				detail.IsWallet = true
				detail.Subaccount = info.Subaccount
				detail.Pointer = info.Pointer
				detail.IsInternal = info.IsInternal
				detail.AddressType = info.AddressType
				detail.IsChange = info.IsInternal

				if p.IsLiquid && e.signer.HasMasterBlindingKey() {
					blindingKey := e.signer.GetBlindingKeyFromScript(out.Script)
					if result, err := pset.UnblindWalletOutput(out, blindingKey[:]); err == nil {
						detail.Satoshi = result.Value
						detail.AssetID = assetIDHex(result.Asset)
						detail.AssetBlinder = result.AssetBlindingFactor
						detail.AmountBlinder = result.ValueBlindingFactor
					}
				}

				sums.subOut(detail.AssetID, detail.Satoshi)
			}

			detail.Address = e.addressForOutput(out)
		}

		details.TransactionOutputs = append(details.TransactionOutputs, detail)
	}

	applyChangeHeuristic(details.TransactionOutputs, walletInputAssets)

	if p.IsLiquid {
		policyAsset := e.session.NetParams().PolicyAsset
		fee := sums.get(policyAsset)
		if fee < 0 {
			fee = 0
		}
		if uint64(fee) != explicitFee && topLevelErr == "" {
			return nil, errorf("explicit fee %d does not match computed fee %d", explicitFee, fee)
		}
		details.Fee = explicitFee
	} else {
		var fee int64
		for asset, v := range sums.sums {
			_ = asset
			fee += v
		}
		if fee > 0 {
			details.Fee = uint64(fee)
		}
	}

	estimatedSize := len(rawTx) + dummyExtraBytes
	if estimatedSize > 0 {
		details.FeeRate = details.Fee * 1000 / uint64(estimatedSize)
	}
	details.NetworkFee = 0
	details.Error = topLevelErr

	return details, nil
}

// ensureInputUtxo fetches and attaches the previous transaction when input
// i's PSET carries neither a non-witness nor a witness UTXO yet, so the
// later non-wallet satoshi lookup can rely on BestUtxo being populated.
func (e *Engine) ensureInputUtxo(upd *pset.Updater, i int, in *pset.Input, txid string) error {
	if in.WitnessUtxo != nil || in.NonWitnessUtxo != nil {
		return nil
	}
	prevTx, err := e.session.FetchRawTransaction(txid)
	if err != nil {
		return errorf("fetching previous transaction %s: %w", txid, err)
	}
	return upd.AddInNonWitnessUtxo(i, prevTx)
}

// dummyInputSize estimates the serialized size a placeholder final
// witness/scriptSig would add for addrType, overestimating rather than
// underestimating: p2wpkh-family inputs get a single signature and
// pubkey, csv/p2wsh multisig inputs get one signature per known signer
// (at least two), and anything else gets one signature plus one
// compressed pubkey per known signer (at least one).
func dummyInputSize(addrType scriptutil.AddressType, numSigners, witnessScriptLen int) int {
	switch addrType {
	case scriptutil.AddressP2WPKH, scriptutil.AddressP2SHP2WPKH:
		return 1 + (1 + dummySigSize) + (1 + dummyPubkeySize)
	case scriptutil.AddressCSV, scriptutil.AddressP2WSH:
		n := numSigners
		if n < 2 {
			n = 2
		}
		return 2 + n*(1+dummySigSize) + witnessScriptLen
	default:
		n := numSigners
		if n < 1 {
			n = 1
		}
		return n*(1+dummySigSize) + n*(1+dummyPubkeySize)
	}
}

// addressForOutput renders a display address for a non-fee output,
// confidential when the output carries a blinding pubkey, returning the
// empty string on any failure since address rendering is informational
// only.
func (e *Engine) addressForOutput(out *pset.Output) string {
	net := e.session.NetParams().Network
	addr, err := address.FromScript(out.Script, net)
	if err != nil {
		return ""
	}
	if len(out.BlindingPubkey) > 0 {
		if confidential, err := address.ToConfidential(addr, out.BlindingPubkey); err == nil {
			return confidential
		}
	}
	return addr
}
