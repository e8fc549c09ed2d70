package pset

import (
	"github.com/vulpemventures/go-elements/psetv2"
)

// fromElementsPset and toElementsPset bridge between our normalised Input/
// Output and go-elements' own psetv2.Input/psetv2.Output. PSET is natively
// version 2, so there is no up/downgrade step here; the field names below
// intentionally mirror go-elements' psetv2 package (see psetv2/updater.go
// in the teacher, which addresses PreviousTxid, PreviousTxIndex,
// RedeemScript, WitnessScript, Bip32Derivation, BlinderIndex and the
// Taproot fields by exactly these names).
func fromElementsPset(ptx *psetv2.Pset) (*Pset, error) {
	p := &Pset{
		IsLiquid:        true,
		OriginalVersion: 2,
		Global: Global{
			Version:     2,
			InputCount:  uint32(len(ptx.Inputs)),
			OutputCount: uint32(len(ptx.Outputs)),
		},
	}

	for _, src := range ptx.Inputs {
		in := Input{
			PreviousTxid:    src.PreviousTxid,
			PreviousTxIndex: src.PreviousTxIndex,
			Sequence:        src.Sequence,
			NonWitnessUtxo:  src.NonWitnessUtxo,
			WitnessUtxo:     src.WitnessUtxo,
			SigHashType:     src.SigHashType,
			RedeemScript:    src.RedeemScript,
			WitnessScript:   src.WitnessScript,
			HasAmount:       src.HasAmount,
			Amount:          src.Amount,
			ExplicitAsset:   src.ExplicitAsset,
			ValueProof:      src.ValueProof,
			AssetProof:      src.AssetProof,
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
		p.Inputs = append(p.Inputs, in)
	}

	for _, src := range ptx.Outputs {
		out := Output{
			Script:               src.Script,
			HasAmount:            src.HasAmount,
			Amount:               src.Amount,
			RedeemScript:         src.RedeemScript,
			WitnessScript:        src.WitnessScript,
			Asset:                src.Asset,
			ValueCommitment:      src.ValueCommitment,
			AssetCommitment:      src.AssetCommitment,
			ValueRangeproof:      src.ValueRangeproof,
			AssetSurjectionProof: src.AssetSurjectionProof,
			BlindingPubkey:       src.BlindingPubkey,
			EcdhPubkey:           src.EcdhPubkey,
			BlindValueProof:      src.BlindValueProof,
			BlindAssetProof:      src.BlindAssetProof,
			BlinderIndex:         src.BlinderIndex,
		}
		for _, d := range src.Bip32Derivation {
			out.Bip32Derivation = append(out.Bip32Derivation, DerivationPathWithPubKey{
				PubKey:               d.PubKey,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		p.Outputs = append(p.Outputs, out)
	}

	return p, p.SanityCheck()
}

func toElementsPset(p *Pset) (*psetv2.Pset, error) {
	ins := make([]psetv2.Input, len(p.Inputs))
	for i, in := range p.Inputs {
		dst := psetv2.Input{
			PreviousTxid:    in.PreviousTxid,
			PreviousTxIndex: in.PreviousTxIndex,
			Sequence:        in.Sequence,
			NonWitnessUtxo:  in.NonWitnessUtxo,
			WitnessUtxo:     in.WitnessUtxo,
			SigHashType:     in.SigHashType,
			RedeemScript:    in.RedeemScript,
			WitnessScript:   in.WitnessScript,
			HasAmount:       in.HasAmount,
			Amount:          in.Amount,
			ExplicitAsset:   in.ExplicitAsset,
			ValueProof:      in.ValueProof,
			AssetProof:      in.AssetProof,
		}
		for _, d := range in.Bip32Derivation {
			dst.Bip32Derivation = append(dst.Bip32Derivation, psetv2.DerivationPathWithPubKey{
				PubKey:               d.PubKey,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		for _, s := range in.PartialSigs {
			dst.PartialSigs = append(dst.PartialSigs, psetv2.PartialSig{PubKey: s.PubKey, Signature: s.Signature})
		}
		ins[i] = dst
	}

	outs := make([]psetv2.Output, len(p.Outputs))
	for i, out := range p.Outputs {
		dst := psetv2.Output{
			Script:               out.Script,
			HasAmount:            out.HasAmount,
			Amount:               out.Amount,
			RedeemScript:         out.RedeemScript,
			WitnessScript:        out.WitnessScript,
			Asset:                out.Asset,
			ValueCommitment:      out.ValueCommitment,
			AssetCommitment:      out.AssetCommitment,
			ValueRangeproof:      out.ValueRangeproof,
			AssetSurjectionProof: out.AssetSurjectionProof,
			BlindingPubkey:       out.BlindingPubkey,
			EcdhPubkey:           out.EcdhPubkey,
			BlindValueProof:      out.BlindValueProof,
			BlindAssetProof:      out.BlindAssetProof,
			BlinderIndex:         out.BlinderIndex,
		}
		for _, d := range out.Bip32Derivation {
			dst.Bip32Derivation = append(dst.Bip32Derivation, psetv2.DerivationPathWithPubKey{
				PubKey:               d.PubKey,
				MasterKeyFingerprint: d.MasterKeyFingerprint,
				Bip32Path:            d.Bip32Path,
			})
		}
		outs[i] = dst
	}

	return psetv2.NewPsetFromIO(ins, outs)
}
