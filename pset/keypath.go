package pset

// DerivationPathWithPubKey is the value GDK's wally_map_keypath_add stores:
// a pubkey mapped to its master key fingerprint and full derivation path.
type DerivationPathWithPubKey struct {
	PubKey               []byte
	MasterKeyFingerprint uint32
	Bip32Path            []uint32
}

// TaprootBip32Derivation mirrors btcsuite/btcd/btcutil/psbt's type, which
// go-elements re-exports as-is in its own PSET taproot handling (see
// psetv2/bip371.go in the teacher).
type TaprootBip32Derivation struct {
	XOnlyPubKey          []byte
	LeafHashes           [][]byte
	MasterKeyFingerprint uint32
	Bip32Path            []uint32
}

// TaprootTapLeafScript is a tapscript leaf plus control block attached to a
// PSBT/PSET input for script-path spends.
type TaprootTapLeafScript struct {
	ControlBlock []byte
	Script       []byte
	LeafVersion  byte
}

// TaprootScriptSpendSig is a single tapscript signature attached to an
// input alongside the leaf it signs for.
type TaprootScriptSpendSig struct {
	XOnlyPubKey []byte
	LeafHash    []byte
	Signature   []byte
	SigHash     byte
}

// PartialSig is a single (pubkey, ECDSA signature) pair attached to an
// input by the Updater/Signer roles.
type PartialSig struct {
	PubKey    []byte
	Signature []byte
}

func (p PartialSig) checkValid() bool {
	return len(p.PubKey) > 0 && len(p.Signature) > 0 && validatePubkey(p.PubKey)
}

// Keypaths is an ordered set of (pubkey -> derivation) entries attached to
// a PsbtInput or PsbtOutput. Order of insertion is preserved, matching the
// wire representation's map ordering.
type Keypaths []DerivationPathWithPubKey

func (k Keypaths) has(pubKey []byte) bool {
	for _, d := range k {
		if bytesEqual(d.PubKey, pubKey) {
			return true
		}
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
