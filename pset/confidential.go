package pset

import (
	"crypto/rand"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/vulpemventures/go-elements/confidential"
	secp256k1 "github.com/vulpemventures/go-secp256k1-zkp"
)

// This file is the boundary between this package and the `Crypto`
// collaborator spec.md §1 treats as an external primitive: it generates
// the range/surjection proofs EnrichmentEngine.FromDetails attaches to a
// confidential output, and unblinds a wallet-owned confidential output
// EnrichmentEngine.ToDetails needs to read its satoshi amount.
// The call shapes (confidential.AssetCommitment/ValueCommitment/
// RangeProof/SurjectionProof/UnblindOutput) mirror the teacher's own
// blinder implementation.

// randomBytes32 returns 32 cryptographically random bytes, used as the
// surjection proof seed and, through RandomBlinder, as a fresh blinding
// factor. Ephemeral ECDH keys come from btcec.NewPrivateKey instead.
func randomBytes32() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandomBlinder returns a fresh 32-byte asset/value blinding factor,
// exposed for FromDetails to generate one when details carries no
// pre-chosen blinder for an output it is about to confidentialize.
func RandomBlinder() ([]byte, error) {
	return randomBytes32()
}

// OutputBlindingArgs bundles what FromDetails already knows about a
// confidential output (its explicit asset/value and the blinding factors
// carried in the wallet's UTXO details) plus what it needs to generate
// fresh (the ephemeral key and blinding pubkey) to produce every
// confidential field spec.md §4.5.2 lists.
type OutputBlindingArgs struct {
	Asset          []byte // 32-byte, unprefixed
	Value          uint64
	AssetBlinder   []byte // 32 bytes
	ValueBlinder   []byte // 32 bytes
	BlindingPubkey []byte
	ScriptPubkey   []byte

	// InputAssets/InputAssetBlinders are the (asset, asset blinder) pairs
	// of every input carrying an asset id, the surjection proof's
	// anonymity set.
	InputAssets        [][]byte
	InputAssetBlinders [][]byte
}

// OutputCommitments is everything BlindOutput computes for a single
// confidential output.
type OutputCommitments struct {
	AssetCommitment []byte
	ValueCommitment []byte
	EcdhPubkey      []byte
	ValueRangeproof []byte
	SurjectionProof []byte
	BlindValueProof []byte
	BlindAssetProof []byte
}

// BlindOutput computes every confidential field for one output: the asset
// and value Pedersen commitments, an ephemeral ECDH pubkey, the value
// rangeproof and asset surjection proof binding those commitments to
// args.Value/args.Asset against the input anonymity set, and the two
// "explicit" proofs (blind value/asset proof) that let a verifier confirm
// the commitments without the blinding factors, the way a non-interactive
// blinder (one who does not see the recipient's own blinding key) would.
func BlindOutput(args OutputBlindingArgs) (*OutputCommitments, error) {
	assetCommitment, err := confidential.AssetCommitment(args.Asset, args.AssetBlinder)
	if err != nil {
		return nil, err
	}
	valueCommitment, err := confidential.ValueCommitment(args.Value, assetCommitment[:], args.ValueBlinder)
	if err != nil {
		return nil, err
	}

	ephemeralPrivKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	ecdhPubkey := ephemeralPrivKey.PubKey().SerializeCompressed()

	var vbf [32]byte
	copy(vbf[:], args.ValueBlinder)

	rangeProof, err := confidential.RangeProof(confidential.RangeProofInput{
		Value:               args.Value,
		BlindingPubkey:      args.BlindingPubkey,
		EphemeralPrivkey:    ephemeralPrivKey.Serialize(),
		Asset:               args.Asset,
		AssetBlindingFactor: args.AssetBlinder,
		ValueBlindFactor:    vbf,
		ValueCommit:         valueCommitment[:],
		ScriptPubkey:        args.ScriptPubkey,
		MinValue:            1,
		Exp:                 0,
		MinBits:             52,
	})
	if err != nil {
		return nil, err
	}

	seed, err := randomBytes32()
	if err != nil {
		return nil, err
	}
	surjectionProof, err := confidential.SurjectionProof(confidential.SurjectionProofInput{
		OutputAsset:               args.Asset,
		OutputAssetBlindingFactor: args.AssetBlinder,
		InputAssets:               args.InputAssets,
		InputAssetBlindingFactors: args.InputAssetBlinders,
		Seed:                      seed,
	})
	if err != nil {
		return nil, err
	}

	// The explicit value/asset proofs bind the same commitments to their
	// plaintext value/asset directly; go-elements exposes this through
	// the same rangeproof/surjection-proof primitives, run in "exact
	// value" mode (MinValue == MaxValue, a single-element anonymity set)
	// rather than the wide range used for the confidentiality proofs
	// above.
	blindValueProof, err := confidential.RangeProof(confidential.RangeProofInput{
		Value:               args.Value,
		BlindingPubkey:      args.BlindingPubkey,
		EphemeralPrivkey:    ephemeralPrivKey.Serialize(),
		Asset:               args.Asset,
		AssetBlindingFactor: args.AssetBlinder,
		ValueBlindFactor:    vbf,
		ValueCommit:         valueCommitment[:],
		ScriptPubkey:        args.ScriptPubkey,
		MinValue:            args.Value,
		Exp:                 -1,
		MinBits:             0,
	})
	if err != nil {
		return nil, err
	}
	blindAssetProof, err := confidential.SurjectionProof(confidential.SurjectionProofInput{
		OutputAsset:               args.Asset,
		OutputAssetBlindingFactor: args.AssetBlinder,
		InputAssets:               [][]byte{args.Asset},
		InputAssetBlindingFactors: [][]byte{args.AssetBlinder},
		Seed:                      seed,
	})
	if err != nil {
		return nil, err
	}

	return &OutputCommitments{
		AssetCommitment: assetCommitment[:],
		ValueCommitment: valueCommitment[:],
		EcdhPubkey:      ecdhPubkey,
		ValueRangeproof: rangeProof,
		SurjectionProof: surjectionProof,
		BlindValueProof: blindValueProof,
		BlindAssetProof: blindAssetProof,
	}, nil
}

// InputExplicitProofs computes the explicit value/asset proofs attached
// to a PSET input (tags 0x12/0x14; FromDetails attaches them to every
// liquid input with an asset id): a proof that the given
// explicit value/asset correspond to the prevout's value/asset
// commitment, generated the same way as BlindOutput's "blind" proofs but
// against the prevout's existing commitments rather than freshly
// generated ones.
func InputExplicitProofs(value uint64, asset, assetBlinder, valueBlinder, valueCommitment, scriptPubkey []byte) (valueProof, assetProof []byte, err error) {
	ephemeralPrivKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, err
	}

	var vbf [32]byte
	copy(vbf[:], valueBlinder)

	valueProof, err = confidential.RangeProof(confidential.RangeProofInput{
		Value:               value,
		BlindingPubkey:      ephemeralPrivKey.PubKey().SerializeCompressed(),
		EphemeralPrivkey:    ephemeralPrivKey.Serialize(),
		Asset:               asset,
		AssetBlindingFactor: assetBlinder,
		ValueBlindFactor:    vbf,
		ValueCommit:         valueCommitment,
		ScriptPubkey:        scriptPubkey,
		MinValue:            value,
		Exp:                 -1,
		MinBits:             0,
	})
	if err != nil {
		return nil, nil, err
	}

	seed, err := randomBytes32()
	if err != nil {
		return nil, nil, err
	}
	assetProof, err = confidential.SurjectionProof(confidential.SurjectionProofInput{
		OutputAsset:               asset,
		OutputAssetBlindingFactor: assetBlinder,
		InputAssets:               [][]byte{asset},
		InputAssetBlindingFactors: [][]byte{assetBlinder},
		Seed:                      seed,
	})
	return valueProof, assetProof, err
}

// UnblindWalletOutput recovers a confidential output's explicit value,
// asset and blinding factors using a known blinding private key, the way
// ToDetails unblinds a wallet-owned confidential output to compute its
// contribution to the fee.
func UnblindWalletOutput(out *Output, blindingPrivKey []byte) (*confidential.UnblindOutputResult, error) {
	ctx, _ := secp256k1.ContextCreate(secp256k1.ContextBoth)
	defer secp256k1.ContextDestroy(ctx)

	commitment, err := secp256k1.CommitmentParse(ctx, mustField(out.ValueCommitment, "out_value_commitment"))
	if err != nil {
		return nil, err
	}

	result, err := confidential.UnblindOutput(confidential.UnblindInput{
		EphemeralPubkey: mustField(out.EcdhPubkey, "out_ecdh_pubkey"),
		BlindingPrivkey: blindingPrivKey,
		Rangeproof:      mustField(out.ValueRangeproof, "out_value_rangeproof"),
		ValueCommit:     *commitment,
		Asset:           mustField(out.AssetCommitment, "out_asset_commitment"),
		ScriptPubkey:    out.Script,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
