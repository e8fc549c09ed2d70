package pset

import (
	"github.com/vulpemventures/go-elements/address"
	"github.com/vulpemventures/go-elements/elementsutil"
)

// InputArgs describes a new input to be added to a Pset by Updater.AddInputs.
type InputArgs struct {
	Txid     string
	TxIndex  uint32
	Sequence uint32
}

func (a InputArgs) validate() error {
	if len(a.Txid) != 64 {
		return ErrInvalidPsbtFormat
	}
	return nil
}

func (a InputArgs) toPartialInput() Input {
	txid, _ := elementsutil.TxIDToBytes(a.Txid)
	return Input{
		PreviousTxid:    txid,
		PreviousTxIndex: a.TxIndex,
		Sequence:        a.Sequence,
	}
}

// OutputArgs describes a new output to be added to a Pset by
// Updater.AddOutputs. Address may be empty to create the Elements fee
// output.
type OutputArgs struct {
	Asset  string
	Amount uint64
	Address string
}

func (a OutputArgs) validate() error {
	if a.Address == "" {
		return nil // fee output
	}
	_, err := address.DecodeType(a.Address)
	return err
}

func (a OutputArgs) toPartialOutput() Output {
	out := Output{HasAmount: true, Amount: a.Amount}
	if a.Asset != "" {
		out.Asset, _ = elementsutil.AssetHashToBytes(a.Asset)
	}
	if a.Address == "" {
		return out
	}
	isConfidential, _ := address.IsConfidential(a.Address)
	script, _ := address.ToOutputScript(a.Address)
	out.Script = script
	if isConfidential {
		blindingKey, _ := address.FromConfidential(a.Address)
		if blindingKey != nil {
			out.BlindingPubkey = blindingKey.BlindingKey
		}
	}
	return out
}
