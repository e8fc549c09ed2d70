// Package pset implements the PsbtCodec component: a bit-exact base64
// codec for BIP-174 PSBT and the Elements PSET v2 extension, normalised
// internally to a single structured representation so the rest of this
// module (signer, keypath, scriptutil, enrich) never has to special-case
// the wire version or the confidential/non-confidential split.
//
// The wire format itself is not reimplemented here: non-liquid containers
// are delegated to github.com/btcsuite/btcd/btcutil/psbt (BIP-174 v0, the
// only version that package implements) and liquid containers to
// github.com/vulpemventures/go-elements/psetv2 (PSET, which is natively
// version 2). Both are the "Crypto"/wire-codec external collaborators
// spec.md treats as a given primitive.
package pset

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/psbt"

	"github.com/vulpemventures/go-elements/psetv2"
	"github.com/vulpemventures/go-elements/transaction"
)

// Magic bytes + separator every BIP-174 container opens with: "psbt"+0xff
// for plain PSBT, "pset"+0xff for the Elements PSET extension. Parse reads
// these off the raw, still-undecoded bytes to catch a PSBT/PSET mismatch
// before handing the container to either wire codec.
var (
	psbtMagic = []byte{0x70, 0x73, 0x62, 0x74, 0xff}
	psetMagic = []byte{0x70, 0x73, 0x65, 0x74, 0xff}
)

// containerIsLiquid reports the Elements-ness a container's magic bytes
// declare. ok is false if raw is too short or starts with neither magic,
// in which case the underlying codec's own parse error is what should
// surface, not a mismatch.
func containerIsLiquid(raw []byte) (isLiquid bool, ok bool) {
	switch {
	case bytes.HasPrefix(raw, psetMagic):
		return true, true
	case bytes.HasPrefix(raw, psbtMagic):
		return false, true
	default:
		return false, false
	}
}

// Pset owns a version-2-normalised PSBT or PSET. IsLiquid and
// OriginalVersion are fixed at construction; Inputs/Outputs are mutable
// via Updater/EnrichmentEngine until the Pset is serialised or extracted.
type Pset struct {
	IsLiquid        bool
	OriginalVersion uint32

	Global  Global
	Inputs  []Input
	Outputs []Output
}

// New builds an empty, version-2 Pset ready to receive inputs/outputs via
// an Updater, mirroring psetv2.New's role in the teacher.
func New(isLiquid bool) *Pset {
	return &Pset{
		IsLiquid:        isLiquid,
		OriginalVersion: 2,
		Global:          Global{Version: 2},
	}
}

// Copy returns a deep-enough copy for the Updater's AddInputs/AddOutputs
// (see updater.go), which add entries to the copy, assign its contents
// back, and only then run SanityCheck.
func (p *Pset) Copy() *Pset {
	cp := &Pset{
		IsLiquid:        p.IsLiquid,
		OriginalVersion: p.OriginalVersion,
		Global:          p.Global,
		Inputs:          append([]Input(nil), p.Inputs...),
		Outputs:         append([]Output(nil), p.Outputs...),
	}
	return cp
}

// Parse decodes a base64 PSBT/PSET, verifies its Elements flag matches
// isLiquid, and normalises it to version 2 internally while remembering
// the version it was read at so ToBase64 can restore it.
func Parse(base64Str string, isLiquid bool) (*Pset, error) {
	if raw, err := base64.StdEncoding.DecodeString(base64Str); err == nil {
		if containerLiquid, ok := containerIsLiquid(raw); ok && containerLiquid != isLiquid {
			return nil, fmt.Errorf("pset: container is %s, not %s: %w",
				elementsLabel(containerLiquid), elementsLabel(isLiquid), ErrPsetMismatch)
		}
	}

	if isLiquid {
		ptx, err := psetv2.NewPsetFromBase64(base64Str)
		if err != nil {
			return nil, fmt.Errorf("pset: not a valid PSET: %w", err)
		}
		return fromElementsPset(ptx)
	}

	packet, err := psbt.NewFromRawBytes(strings.NewReader(base64Str), true)
	if err != nil {
		return nil, fmt.Errorf("pset: not a valid PSBT: %w", err)
	}
	return fromBtcPacket(packet)
}

func elementsLabel(isLiquid bool) string {
	if isLiquid {
		return "a PSET"
	}
	return "a plain PSBT"
}

// ToBase64 serialises the Pset back to base64. Liquid Psets are written as
// PSET version 2. Non-liquid Psets are always written as a BIP-174
// version 0 packet, whatever OriginalVersion holds; for them,
// includeRedundant controls whether an input's witness UTXO is written
// alongside its non-witness UTXO. Liquid Psets ignore includeRedundant.
func (p *Pset) ToBase64(includeRedundant bool) (string, error) {
	if p.IsLiquid {
		ptx, err := toElementsPset(p)
		if err != nil {
			return "", err
		}
		return ptx.ToBase64()
	}

	packet, err := toBtcPacket(p, includeRedundant)
	if err != nil {
		return "", err
	}
	return packet.B64Encode()
}

// Extract returns the underlying transaction, carrying any final
// witness/scriptSig already attached to its inputs.
func (p *Pset) Extract() (*transaction.Transaction, error) {
	tx := transaction.NewTx(2)
	for _, in := range p.Inputs {
		txIn := transaction.NewTxInput(in.PreviousTxid, in.PreviousTxIndex)
		txIn.Sequence = in.SequenceOrDefault()
		if in.IsFinalized() {
			txIn.Script = in.FinalScriptSig
			txIn.Witness = in.FinalScriptWitness
		}
		tx.Inputs = append(tx.Inputs, txIn)
	}
	for _, out := range p.Outputs {
		asset := out.Asset
		value := encodeExplicitValue(out.Amount)
		if p.IsLiquid && out.BlindingStatus() == BlindingStatusFull {
			asset = out.AssetCommitment
			value = out.ValueCommitment
		}
		tx.Outputs = append(tx.Outputs, transaction.NewTxOutput(asset, value, out.Script))
	}
	return tx, nil
}

// NumInputs and NumOutputs, plus the bounds-checked accessors below,
// implement spec.md's Fatal taxonomy: an out-of-range index is a
// programming error and panics rather than returning an error.
func (p *Pset) NumInputs() int  { return len(p.Inputs) }
func (p *Pset) NumOutputs() int { return len(p.Outputs) }

// GetInput returns a pointer to the i'th input. It panics if i is out of
// range.
func (p *Pset) GetInput(i int) *Input {
	if i < 0 || i >= len(p.Inputs) {
		panic(ErrInputIndexOutOfRange)
	}
	return &p.Inputs[i]
}

// GetOutput returns a pointer to the i'th output. It panics if i is out of
// range.
func (p *Pset) GetOutput(i int) *Output {
	if i < 0 || i >= len(p.Outputs) {
		panic(ErrOutputIndexOutOfRange)
	}
	return &p.Outputs[i]
}

// SetInputFinal attaches the final witness and/or scriptSig to input i,
// making it ready for extraction.
func (p *Pset) SetInputFinal(i int, witness [][]byte, scriptSig []byte) {
	in := p.GetInput(i)
	in.FinalScriptWitness = witness
	in.FinalScriptSig = scriptSig
}

// SanityCheck validates structural invariants the Updater relies on:
// Global.InputCount/OutputCount match the number of inputs and outputs,
// and, for liquid Psets only, every output's blinding status fits its
// script (NONE only on the empty-script fee output, FULL only on an output
// with a script). Inputs are not examined.
func (p *Pset) SanityCheck() error {
	if uint32(len(p.Inputs)) != p.Global.InputCount {
		return fmt.Errorf("%w: input count mismatch", ErrInvalidPsbtFormat)
	}
	if uint32(len(p.Outputs)) != p.Global.OutputCount {
		return fmt.Errorf("%w: output count mismatch", ErrInvalidPsbtFormat)
	}
	if p.IsLiquid {
		for i := range p.Outputs {
			out := &p.Outputs[i]
			switch out.BlindingStatus() {
			case BlindingStatusNone:
				if !out.IsFeeOutput() {
					return fmt.Errorf("%w: output %d is unblinded with a non-empty script", ErrInvalidBlindingStatus, i)
				}
			case BlindingStatusFull:
				if out.IsFeeOutput() {
					return fmt.Errorf("%w: output %d is blinded but has no script", ErrInvalidBlindingStatus, i)
				}
			}
		}
	}
	return nil
}

func (p *Pset) addInput(in Input) error {
	p.Inputs = append(p.Inputs, in)
	p.Global.InputCount = uint32(len(p.Inputs))
	return nil
}

func (p *Pset) addOutput(out Output) error {
	p.Outputs = append(p.Outputs, out)
	p.Global.OutputCount = uint32(len(p.Outputs))
	return nil
}

// DecodeExplicitValue decodes a 9-byte explicit value field (the encoding
// encodeExplicitValue writes), letting the enrichment engine read a
// non-wallet input's best-known UTXO amount without reaching into this
// package's codec internals.
func DecodeExplicitValue(v []byte) (uint64, error) {
	return decodeExplicitValue(v)
}

func encodeExplicitValue(amount uint64) []byte {
	v := make([]byte, 9)
	v[0] = 1
	for i := 0; i < 8; i++ {
		v[8-i] = byte(amount >> (8 * i))
	}
	return v
}
