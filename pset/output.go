package pset

// BlindingStatus classifies a PSET output per spec.md §3: NONE (neither a
// value nor an asset commitment) or FULL (at least one of the two). The
// other confidential fields are not consulted.
type BlindingStatus int

const (
	BlindingStatusNone BlindingStatus = iota
	BlindingStatusFull
)

// Output is the per-output section of a normalised (version 2) Psbt.
type Output struct {
	Script []byte

	HasAmount bool
	Amount    uint64

	Bip32Derivation Keypaths
	RedeemScript    []byte
	WitnessScript   []byte

	// PSET-only confidential fields (tags 0x01-0x0a in spec.md §6).
	Asset                []byte
	ValueCommitment      []byte
	AssetCommitment      []byte
	ValueRangeproof      []byte
	AssetSurjectionProof []byte
	BlindingPubkey       []byte
	EcdhPubkey           []byte
	BlindValueProof      []byte
	BlindAssetProof      []byte
	BlinderIndex         uint32

	TaprootInternalKey     []byte
	TaprootTapTree         []byte
	TaprootBip32Derivation []*TaprootBip32Derivation
}

// NeedsBlinding reports whether this output was constructed with a
// blinding pubkey, i.e. it should carry confidential fields rather than
// being treated as the plaintext fee output.
func (o *Output) NeedsBlinding() bool {
	return len(o.BlindingPubkey) > 0
}

// IsFeeOutput reports whether this is the Elements explicit-fee output:
// PSET represents it as an output with an empty scriptPubKey.
func (o *Output) IsFeeOutput() bool {
	return len(o.Script) == 0
}

// BlindingStatus classifies the output per spec.md §3. It reports FULL as
// soon as either commitment is present and does not check the remaining
// confidential fields, so a partially-blinded output also reads as FULL.
// SanityCheck checks the status only against whether the script is empty
// (ErrInvalidBlindingStatus).
func (o *Output) BlindingStatus() BlindingStatus {
	if len(o.ValueCommitment) == 0 && len(o.AssetCommitment) == 0 {
		return BlindingStatusNone
	}
	return BlindingStatusFull
}
