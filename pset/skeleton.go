package pset

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/wire"

	"github.com/vulpemventures/go-elements/transaction"
)

// ParseRawTx decodes a hex-encoded raw transaction, using the Elements wire
// format when isLiquid is set and plain Bitcoin wire format otherwise, and
// returns it as a go-elements transaction.Transaction, the one transaction
// type the rest of this package (Input.NonWitnessUtxo, NewFromTx, Extract)
// works with.
func ParseRawTx(rawHex string, isLiquid bool) (*transaction.Transaction, error) {
	if isLiquid {
		return transaction.NewTxFromHex(rawHex)
	}

	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("pset: invalid transaction hex: %w", err)
	}
	msgTx := wire.NewMsgTx(0)
	if err := msgTx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("pset: invalid transaction: %w", err)
	}
	return btcTxToElementsTx(msgTx), nil
}

// NewFromTx builds a version-2 Pset skeleton directly from a raw
// transaction, the first step of the build pipeline (spec.md §4.5.2):
// from_details parses details.transaction and constructs an initial PSBT
// from it before attaching keypaths, scripts and proofs input by input.
//
// An output's explicit amount is seeded from the transaction's own value
// field when it holds an explicit 9-byte value (see encodeExplicitValue/
// decodeExplicitValue); an output carrying a value commitment gets no
// amount. For liquid, an explicit (0x01-prefixed) asset is copied into
// Output.Asset.
func NewFromTx(tx *transaction.Transaction, isLiquid bool) (*Pset, error) {
	p := &Pset{
		IsLiquid:        isLiquid,
		OriginalVersion: originalVersionFor(tx),
		Global: Global{
			Version:   2,
			TxVersion: uint32(tx.Version),
		},
	}

	for _, txIn := range tx.Inputs {
		p.Inputs = append(p.Inputs, Input{
			PreviousTxid:    append([]byte(nil), txIn.Hash...),
			PreviousTxIndex: txIn.Index,
			Sequence:        txIn.Sequence,
		})
	}
	p.Global.InputCount = uint32(len(p.Inputs))

	for _, txOut := range tx.Outputs {
		out := Output{Script: txOut.Script}
		if isLiquid && len(txOut.Asset) == 33 && txOut.Asset[0] == 0x01 {
			out.Asset = txOut.Asset[1:]
		}
		if amount, err := decodeExplicitValue(txOut.Value); err == nil {
			out.HasAmount = true
			out.Amount = amount
		}
		p.Outputs = append(p.Outputs, out)
	}
	p.Global.OutputCount = uint32(len(p.Outputs))

	return p, p.SanityCheck()
}

// originalVersionFor mirrors from_details' version choice: tx.version < 2
// means the caller is building against a pre-BIP-68 transaction and should
// be served a version-0 container back, matching spec.md §4.5.2's
// "tx.version < 2 ? 0 : 2".
func originalVersionFor(tx *transaction.Transaction) uint32 {
	if tx.Version < 2 {
		return 0
	}
	return 2
}

// mustField panics with ErrMissingPsetField if b is empty: used by
// UnblindWalletOutput while ToDetails unblinds a wallet output, per
// spec.md §7's Fatal taxonomy (a PSET missing a required field there is a
// programming error, not a recoverable one).
func mustField(b []byte, name string) []byte {
	if len(b) == 0 {
		panic(fmt.Errorf("%w: %s", ErrMissingPsetField, name))
	}
	return b
}
