package enrich

import (
	"github.com/btcsuite/btcd/txscript"

	"github.com/AreaLayer/gdk/pset"
	"github.com/AreaLayer/gdk/scriptutil"
	"github.com/AreaLayer/gdk/wsession"
)

// FromDetails builds a Pset back out of the wallet's transaction-details
// view (spec.md §4.5.2): parse the raw transaction into a version-2
// skeleton, then attach keypaths, scripts, explicit values and — for
// liquid — every confidential field input by input and output by output.
func (e *Engine) FromDetails(details *Details) (*pset.Pset, error) {
	isLiquid := e.session.NetParams().IsLiquid

	tx, err := pset.ParseRawTx(details.Transaction, isLiquid)
	if err != nil {
		return nil, errorf("parsing raw transaction: %w", err)
	}
	p, err := pset.NewFromTx(tx, isLiquid)
	if err != nil {
		return nil, errorf("building pset skeleton: %w", err)
	}
	upd, err := pset.NewUpdater(p)
	if err != nil {
		return nil, errorf("building updater: %w", err)
	}

	if len(details.TransactionInputs) != p.NumInputs() {
		return nil, errorf("details carries %d inputs, transaction has %d", len(details.TransactionInputs), p.NumInputs())
	}
	if len(details.TransactionOutputs) != p.NumOutputs() {
		return nil, errorf("details carries %d outputs, transaction has %d", len(details.TransactionOutputs), p.NumOutputs())
	}

	for i, in := range details.TransactionInputs {
		if err := e.fromDetailsInput(upd, i, in); err != nil {
			return nil, errorf("input %d: %w", i, err)
		}
	}

	for i, out := range details.TransactionOutputs {
		if err := e.fromDetailsOutput(upd, i, out, details.TransactionInputs); err != nil {
			return nil, errorf("output %d: %w", i, err)
		}
	}

	return p, nil
}

func (e *Engine) fromDetailsInput(upd *pset.Updater, i int, detail InputDetail) error {
	if detail.IsWallet {
		utxo := wsession.Utxo{
			Txid:          detail.Txid,
			Vout:          detail.Vout,
			Subaccount:    detail.Subaccount,
			Pointer:       detail.Pointer,
			IsInternal:    detail.IsInternal,
			AddressType:   detail.AddressType,
			PrevoutScript: detail.PrevoutScript,
			AssetID:       detail.AssetID,
			Satoshi:       detail.Satoshi,
			AssetBlinder:  detail.AssetBlinder,
			AmountBlinder: detail.AmountBlinder,
			SkipSigning:   detail.SkipSigning,
		}

		if err := e.keypaths.AddInputKeypaths(upd, i, utxo); err != nil {
			return err
		}

		keys, err := e.session.KeysFromUtxo(utxo)
		if err != nil {
			return errorf("resolving keys: %w", err)
		}
		var pubkey []byte
		if len(keys) > 0 {
			pubkey = keys[len(keys)-1].PublicKey
		}
		if err := e.scripts.AddInputScripts(upd, i, scriptutil.AddressType(detail.AddressType), pubkey, detail.PrevoutScript); err != nil {
			return err
		}
	}

	if detail.UserSighash != 0 {
		if err := upd.AddInSighashType(txscript.SigHashType(detail.UserSighash), i); err != nil {
			return err
		}
	}

	if e.session.NetParams().IsLiquid && detail.AssetID != "" {
		asset, err := decodeAssetID(detail.AssetID)
		if err != nil {
			return errorf("decoding asset id: %w", err)
		}
		if err := upd.AddInExplicitAsset(asset, i); err != nil {
			return err
		}
		if err := upd.AddInExplicitValue(detail.Satoshi, i); err != nil {
			return err
		}
	}

	in := upd.Pset.GetInput(i)
	if in.WitnessUtxo == nil && in.NonWitnessUtxo == nil {
		prevTx, err := e.session.FetchRawTransaction(detail.Txid)
		if err != nil {
			return errorf("fetching previous transaction %s: %w", detail.Txid, err)
		}
		if int(detail.Vout) >= len(prevTx.Outputs) {
			return errorf("previous transaction %s has no output %d", detail.Txid, detail.Vout)
		}
		if err := upd.AddInWitnessUtxo(prevTx.Outputs[detail.Vout], i); err != nil {
			return err
		}
		in = upd.Pset.GetInput(i)
	}

	if e.session.NetParams().IsLiquid && detail.AssetID != "" {
		asset, _ := decodeAssetID(detail.AssetID)
		utxo := in.BestUtxo()
		if utxo == nil {
			return errorf("no prevout attached")
		}
		valueProof, assetProof, err := pset.InputExplicitProofs(
			detail.Satoshi, asset, detail.AssetBlinder, detail.AmountBlinder, utxo.Value, utxo.Script,
		)
		if err != nil {
			return errorf("computing explicit proofs: %w", err)
		}
		if err := upd.AddInUtxoValueProof(valueProof, i); err != nil {
			return err
		}
		if err := upd.AddInUtxoAssetProof(assetProof, i); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) fromDetailsOutput(upd *pset.Updater, i int, detail OutputDetail, inputs []InputDetail) error {
	if detail.IsWallet {
		if err := e.keypaths.AddOutputKeypaths(upd, i, wsession.OutputInfo{
			Subaccount:  detail.Subaccount,
			Pointer:     detail.Pointer,
			IsInternal:  detail.IsInternal,
			AddressType: detail.AddressType,
		}); err != nil {
			return err
		}
	}

	if !e.session.NetParams().IsLiquid {
		return nil
	}

	asset, err := decodeAssetID(detail.AssetID)
	if err != nil {
		return errorf("decoding asset id: %w", err)
	}
	if err := upd.AddOutExplicitAsset(asset, i); err != nil {
		return err
	}
	if err := upd.AddOutExplicitValue(detail.Satoshi, i); err != nil {
		return err
	}

	if detail.IsFeeOutput() {
		return nil
	}

	if err := upd.AddOutBlinderIndex(uint32(i), i); err != nil {
		return err
	}

	blindingPubkey := detail.BlindingKey
	if len(blindingPubkey) == 0 && detail.IsWallet {
		blindingPubkey = e.signer.GetBlindingPubkeyFromScript(detail.Scriptpubkey)
	}
	if len(blindingPubkey) == 0 {
		return errorf("no blinding pubkey available")
	}
	if err := upd.AddOutBlindingPubkey(blindingPubkey, i); err != nil {
		return err
	}

	assetBlinder := detail.AssetBlinder
	if len(assetBlinder) == 0 {
		var err error
		assetBlinder, err = pset.RandomBlinder()
		if err != nil {
			return err
		}
	}
	valueBlinder := detail.AmountBlinder
	if len(valueBlinder) == 0 {
		var err error
		valueBlinder, err = pset.RandomBlinder()
		if err != nil {
			return err
		}
	}

	var inputAssets, inputAssetBlinders [][]byte
	for _, in := range inputs {
		inAsset, err := decodeAssetID(in.AssetID)
		if err != nil || len(inAsset) == 0 {
			continue
		}
		blinder := in.AssetBlinder
		if len(blinder) == 0 {
			blinder = make([]byte, 32)
		}
		inputAssets = append(inputAssets, inAsset)
		inputAssetBlinders = append(inputAssetBlinders, blinder)
	}

	commitments, err := pset.BlindOutput(pset.OutputBlindingArgs{
		Asset:              asset,
		Value:              detail.Satoshi,
		AssetBlinder:       assetBlinder,
		ValueBlinder:       valueBlinder,
		BlindingPubkey:     blindingPubkey,
		ScriptPubkey:       detail.Scriptpubkey,
		InputAssets:        inputAssets,
		InputAssetBlinders: inputAssetBlinders,
	})
	if err != nil {
		return errorf("blinding output: %w", err)
	}

	if err := upd.AddOutAssetCommitment(commitments.AssetCommitment, i); err != nil {
		return err
	}
	if err := upd.AddOutValueCommitment(commitments.ValueCommitment, i); err != nil {
		return err
	}
	if err := upd.AddOutEcdhPubkey(commitments.EcdhPubkey, i); err != nil {
		return err
	}
	if err := upd.AddOutValueRangeproof(commitments.ValueRangeproof, i); err != nil {
		return err
	}
	if err := upd.AddOutAssetSurjectionProof(commitments.SurjectionProof, i); err != nil {
		return err
	}
	if err := upd.AddOutBlindValueProof(commitments.BlindValueProof, i); err != nil {
		return err
	}
	if err := upd.AddOutBlindAssetProof(commitments.BlindAssetProof, i); err != nil {
		return err
	}
	return nil
}
