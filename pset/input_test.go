package pset

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"

	"github.com/vulpemventures/go-elements/transaction"
)

func TestInputIsFinalized(t *testing.T) {
	var in Input
	assert.False(t, in.IsFinalized())

	in.FinalScriptSig = []byte{0x01}
	assert.True(t, in.IsFinalized())
}

func TestInputBestUtxoPrefersWitness(t *testing.T) {
	var in Input
	assert.Nil(t, in.BestUtxo())

	witness := &transaction.TxOutput{Value: []byte{0x01}}
	in.WitnessUtxo = witness
	assert.Equal(t, witness, in.BestUtxo())

	in.NonWitnessUtxo = &transaction.Transaction{
		Outputs: []*transaction.TxOutput{{Value: []byte{0x02}}},
	}
	assert.Equal(t, witness, in.BestUtxo())
}

func TestInputBestUtxoFallsBackToNonWitness(t *testing.T) {
	var in Input
	in.PreviousTxIndex = 1
	in.NonWitnessUtxo = &transaction.Transaction{
		Outputs: []*transaction.TxOutput{
			{Value: []byte{0x01}},
			{Value: []byte{0x02}},
		},
	}
	assert.Equal(t, in.NonWitnessUtxo.Outputs[1], in.BestUtxo())
}

func TestInputSighashDefaultsToSigHashAll(t *testing.T) {
	var in Input
	assert.Equal(t, txscript.SigHashAll, in.Sighash())

	in.SigHashType = txscript.SigHashSingle
	assert.Equal(t, txscript.SigHashSingle, in.Sighash())
}

func TestInputSequenceOrDefault(t *testing.T) {
	var in Input
	assert.Equal(t, uint32(0xffffffff), in.SequenceOrDefault())

	in.Sequence = 144
	assert.Equal(t, uint32(144), in.SequenceOrDefault())
}
