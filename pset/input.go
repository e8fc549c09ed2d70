package pset

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/vulpemventures/go-elements/transaction"
)

// Input is the per-input section of a normalised (version 2) Psbt.
//
// Named fields cover everything the BIP-174/PSET spec gives a dedicated
// key type for; this mirrors go-elements' own psetv2.Input shape (see
// psetv2/updater.go in the teacher, which addresses these same fields by
// name) rather than exposing the wire's raw tag->bytes map, since encoding
// that map is the wire codec's job, not this wallet's.
type Input struct {
	PreviousTxid     []byte
	PreviousTxIndex  uint32
	Sequence         uint32
	NonWitnessUtxo   *transaction.Transaction
	WitnessUtxo      *transaction.TxOutput
	SigHashType      txscript.SigHashType
	RedeemScript     []byte
	WitnessScript    []byte
	Bip32Derivation  Keypaths
	FinalScriptSig   []byte
	FinalScriptWitness [][]byte
	PartialSigs      []PartialSig

	// PSET-only: explicit confidential value/asset, set by
	// EnrichmentEngine.FromDetails on every liquid input with an asset id
	// and read by EnrichmentEngine.ToDetails for non-wallet inputs (tags
	// 0x13/0x12/0x14 in spec.md §6).
	HasAmount      bool
	Amount         uint64
	ExplicitAsset  []byte
	ValueProof     []byte
	AssetProof     []byte

	// Taproot (BIP-371), carried over from the teacher's bip371.go. The
	// plain-PSBT codec reads all of these but writes back only the
	// internal key, merkle root and key-spend signature; the PSET codec
	// carries none of them, and SanityCheck does not examine them.
	TaprootInternalKey     []byte
	TaprootMerkleRoot      []byte
	TaprootLeafScript      []*TaprootTapLeafScript
	TaprootBip32Derivation []*TaprootBip32Derivation
	TaprootKeySpendSig     []byte
	TaprootScriptSpendSig  []*TaprootScriptSpendSig
}

// IsFinalized reports whether this input already carries a final witness
// or scriptSig, i.e. it is ready for extraction.
func (in *Input) IsFinalized() bool {
	return len(in.FinalScriptSig) > 0 || len(in.FinalScriptWitness) > 0
}

// BestUtxo returns the input's previous output, preferring the witness
// form, or nil if neither has been attached yet.
func (in *Input) BestUtxo() *transaction.TxOutput {
	if in.WitnessUtxo != nil {
		return in.WitnessUtxo
	}
	if in.NonWitnessUtxo != nil && int(in.PreviousTxIndex) < len(in.NonWitnessUtxo.Outputs) {
		return in.NonWitnessUtxo.Outputs[in.PreviousTxIndex]
	}
	return nil
}

// Sighash returns the input's sighash flag, defaulting to SIGHASH_ALL as
// spec.md §3 requires.
func (in *Input) Sighash() txscript.SigHashType {
	if in.SigHashType == 0 {
		return txscript.SigHashAll
	}
	return in.SigHashType
}

const defaultSequence = 0xffffffff

// SequenceOrDefault returns the input's nSequence, defaulting to
// 0xffffffff (final, no relative locktime) when unset, matching BIP-370's
// PSBT_IN_SEQUENCE "omitted implies final" rule.
func (in *Input) SequenceOrDefault() uint32 {
	if in.Sequence == 0 {
		return defaultSequence
	}
	return in.Sequence
}
