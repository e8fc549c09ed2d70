package pset

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/vulpemventures/go-elements/transaction"
)

// fromBtcPacket converts a BIP-174 (version 0) btcutil/psbt.Packet into
// our normalised representation. Non-liquid containers never carry a
// version other than 0 in this module's supported range, so the
// "original version" is always 0 here.
func fromBtcPacket(packet *psbt.Packet) (*Pset, error) {
	p := &Pset{
		IsLiquid:        false,
		OriginalVersion: 0,
		Global: Global{
			Version:   2,
			TxVersion: uint32(packet.UnsignedTx.Version),
		},
	}

	for i, txIn := range packet.UnsignedTx.TxIn {
		src := packet.Inputs[i]
		in := Input{
			PreviousTxid:    reverseBytes(txIn.PreviousOutPoint.Hash[:]),
			PreviousTxIndex: txIn.PreviousOutPoint.Index,
			Sequence:        txIn.Sequence,
			SigHashType:     src.SighashType,
			RedeemScript:    src.RedeemScript,
			WitnessScript:   src.WitnessScript,
			FinalScriptSig:  src.FinalScriptSig,
		}
		if src.NonWitnessUtxo != nil {
			in.NonWitnessUtxo = btcTxToElementsTx(src.NonWitnessUtxo)
		}
		if src.WitnessUtxo != nil {
			in.WitnessUtxo = transaction.NewTxOutput(nil, encodeExplicitValue(uint64(src.WitnessUtxo.Value)), src.WitnessUtxo.PkScript)
		}
		if len(src.FinalScriptWitness) > 0 {
			stack, err := decodeWitnessStack(src.FinalScriptWitness)
			if err != nil {
				return nil, err
			}
			in.FinalScriptWitness = stack
		}
		for _, d := range src.Bip32Derivation {
			in.Bip32Derivation = append(in.Bip32Derivation, DerivationPathWithPubKey{
				PubKey:               d.PubKey,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		for _, s := range src.PartialSigs {
			in.PartialSigs = append(in.PartialSigs, PartialSig{PubKey: s.PubKey, Signature: s.Signature})
		}
		in.TaprootInternalKey = src.TaprootInternalKey
		in.TaprootMerkleRoot = src.TaprootMerkleRoot
		in.TaprootKeySpendSig = src.TaprootKeySpendSig
		for _, l := range src.TaprootLeafScript {
			in.TaprootLeafScript = append(in.TaprootLeafScript, &TaprootTapLeafScript{
				ControlBlock: l.ControlBlock,
				Script:       l.Script,
				LeafVersion:  byte(l.LeafVersion),
			})
		}
		for _, d := range src.TaprootBip32Derivation {
			in.TaprootBip32Derivation = append(in.TaprootBip32Derivation, &TaprootBip32Derivation{
				XOnlyPubKey:          d.XOnlyPubKey,
				LeafHashes:           d.LeafHashes,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		for _, s := range src.TaprootScriptSpendSig {
			in.TaprootScriptSpendSig = append(in.TaprootScriptSpendSig, &TaprootScriptSpendSig{
				XOnlyPubKey: s.XOnlyPubKey,
				LeafHash:    s.LeafHash,
				Signature:   s.Signature,
				SigHash:     byte(s.SigHash),
			})
		}
		p.Inputs = append(p.Inputs, in)
	}
	p.Global.InputCount = uint32(len(p.Inputs))

	for i, txOut := range packet.UnsignedTx.TxOut {
		src := packet.Outputs[i]
		out := Output{
			Script:        txOut.PkScript,
			HasAmount:     true,
			Amount:        uint64(txOut.Value),
			RedeemScript:  src.RedeemScript,
			WitnessScript: src.WitnessScript,
		}
		for _, d := range src.Bip32Derivation {
			out.Bip32Derivation = append(out.Bip32Derivation, DerivationPathWithPubKey{
				PubKey:               d.PubKey,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		out.TaprootInternalKey = src.TaprootInternalKey
		out.TaprootTapTree = src.TaprootTapTree
		for _, d := range src.TaprootBip32Derivation {
			out.TaprootBip32Derivation = append(out.TaprootBip32Derivation, &TaprootBip32Derivation{
				XOnlyPubKey:          d.XOnlyPubKey,
				LeafHashes:           d.LeafHashes,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		p.Outputs = append(p.Outputs, out)
	}
	p.Global.OutputCount = uint32(len(p.Outputs))

	return p, p.SanityCheck()
}

// toBtcPacket converts our normalised representation back to a
// btcutil/psbt.Packet ready for serialisation. includeRedundant controls
// whether a witness UTXO is kept even when a non-witness UTXO already
// covers the same input (BIP-174's "redundant" fields).
func toBtcPacket(p *Pset, includeRedundant bool) (*psbt.Packet, error) {
	tx := wire.NewMsgTx(int32(p.Global.TxVersion))
	if tx.Version == 0 {
		tx.Version = 2
	}

	pIns := make([]psbt.PInput, len(p.Inputs))
	for i, in := range p.Inputs {
		hash, err := chainhashFromBytes(in.PreviousTxid)
		if err != nil {
			return nil, err
		}
		txIn := wire.NewTxIn(wire.NewOutPoint(hash, in.PreviousTxIndex), nil, nil)
		txIn.Sequence = in.SequenceOrDefault()
		tx.AddTxIn(txIn)

		pin := psbt.PInput{
			SighashType:    in.SigHashType,
			RedeemScript:   in.RedeemScript,
			WitnessScript:  in.WitnessScript,
			FinalScriptSig: in.FinalScriptSig,
		}
		if in.NonWitnessUtxo != nil {
			pin.NonWitnessUtxo = elementsTxToBtcTx(in.NonWitnessUtxo)
		}
		if in.WitnessUtxo != nil && (includeRedundant || in.NonWitnessUtxo == nil) {
			value, err := decodeExplicitValue(in.WitnessUtxo.Value)
			if err != nil {
				return nil, err
			}
			pin.WitnessUtxo = wire.NewTxOut(int64(value), in.WitnessUtxo.Script)
		}
		if len(in.FinalScriptWitness) > 0 {
			encoded, err := encodeWitnessStack(in.FinalScriptWitness)
			if err != nil {
				return nil, err
			}
			pin.FinalScriptWitness = encoded
		}
		for _, d := range in.Bip32Derivation {
			pin.Bip32Derivation = append(pin.Bip32Derivation, &psbt.Bip32Derivation{
				PubKey:               d.PubKey,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		for _, s := range in.PartialSigs {
			pin.PartialSigs = append(pin.PartialSigs, &psbt.PartialSig{PubKey: s.PubKey, Signature: s.Signature})
		}
		pin.TaprootInternalKey = in.TaprootInternalKey
		pin.TaprootMerkleRoot = in.TaprootMerkleRoot
		pin.TaprootKeySpendSig = in.TaprootKeySpendSig
		pIns[i] = pin
	}

	pOuts := make([]psbt.POutput, len(p.Outputs))
	for i, out := range p.Outputs {
		tx.AddTxOut(wire.NewTxOut(int64(out.Amount), out.Script))
		pout := psbt.POutput{RedeemScript: out.RedeemScript, WitnessScript: out.WitnessScript}
		for _, d := range out.Bip32Derivation {
			pout.Bip32Derivation = append(pout.Bip32Derivation, &psbt.Bip32Derivation{
				PubKey:               d.PubKey,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		pout.TaprootInternalKey = out.TaprootInternalKey
		pout.TaprootTapTree = out.TaprootTapTree
		pOuts[i] = pout
	}

	return &psbt.Packet{UnsignedTx: tx, Inputs: pIns, Outputs: pOuts}, nil
}

func encodeWitnessStack(stack [][]byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarInt(&buf, 0, uint64(len(stack))); err != nil {
		return nil, err
	}
	for _, item := range stack {
		if err := wire.WriteVarBytes(&buf, 0, item); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeWitnessStack(data []byte) ([][]byte, error) {
	r := bytes.NewReader(data)
	n, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, err
	}
	stack := make([][]byte, n)
	for i := range stack {
		item, err := wire.ReadVarBytes(r, 0, wire.MaxMessagePayload, "witness item")
		if err != nil {
			return nil, err
		}
		stack[i] = item
	}
	return stack, nil
}

func chainhashFromBytes(b []byte) (*chainhash.Hash, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: previous txid must be 32 bytes", ErrInvalidPsbtFormat)
	}
	var h chainhash.Hash
	copy(h[:], b)
	return &h, nil
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func decodeExplicitValue(v []byte) (uint64, error) {
	if len(v) != 9 || v[0] != 1 {
		return 0, fmt.Errorf("%w: not an explicit value", ErrInvalidPsbtFormat)
	}
	var amount uint64
	for i := 0; i < 8; i++ {
		amount |= uint64(v[8-i]) << (8 * i)
	}
	return amount, nil
}

// btcTxToElementsTx/elementsTxToBtcTx adapt between wire.MsgTx (the
// non-liquid PSBT wire type) and go-elements' transaction.Transaction
// (used uniformly by this package's Input.NonWitnessUtxo so enrich/signer
// don't need to special-case the liquid flag when reading a prevout).
func btcTxToElementsTx(tx *wire.MsgTx) *transaction.Transaction {
	out := transaction.NewTx(int32(tx.Version))
	for _, in := range tx.TxIn {
		txid := reverseBytes(in.PreviousOutPoint.Hash[:])
		txIn := transaction.NewTxInput(txid, in.PreviousOutPoint.Index)
		txIn.Sequence = in.Sequence
		out.Inputs = append(out.Inputs, txIn)
	}
	for _, o := range tx.TxOut {
		out.Outputs = append(out.Outputs, transaction.NewTxOutput(nil, encodeExplicitValue(uint64(o.Value)), o.PkScript))
	}
	return out
}

func elementsTxToBtcTx(tx *transaction.Transaction) *wire.MsgTx {
	out := wire.NewMsgTx(tx.Version)
	for _, in := range tx.Inputs {
		hash, _ := chainhashFromBytes(reverseBytes(in.Hash))
		txIn := wire.NewTxIn(wire.NewOutPoint(hash, in.Index), nil, nil)
		txIn.Sequence = in.Sequence
		out.AddTxIn(txIn)
	}
	for _, o := range tx.Outputs {
		value, _ := decodeExplicitValue(o.Value)
		out.AddTxOut(wire.NewTxOut(int64(value), o.Script))
	}
	return out
}
