// Package scriptutil builds the redeem/witness scripts PSET inputs need,
// grounded on ga_psbt.cpp's add_input_scripts table: p2sh-wrapped segwit
// gets a P2WPKH witness program as its redeem script, csv and native p2wsh
// get their prevout script recorded as the witness script and a P2WSH
// witness program as the redeem script. Other address types (p2pkh,
// native p2wpkh) need neither.
package scriptutil

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"

	"github.com/AreaLayer/gdk/pset"
)

// AddressType mirrors address_type's values from the wallet's utxo JSON.
type AddressType string

const (
	AddressP2PKH      AddressType = "p2pkh"
	AddressP2WPKH     AddressType = "p2wpkh"
	AddressP2SHP2WPKH AddressType = "p2sh-p2wpkh"
	AddressCSV        AddressType = "csv"
	AddressP2WSH      AddressType = "p2wsh"
)

// Builder attaches redeem/witness scripts to PSET inputs for a utxo's
// address type.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// AddInputScripts is the Go analogue of add_input_scripts. pubkey is the
// key the p2sh-p2wpkh redeem script pays to (used only for p2sh-p2wpkh;
// FromDetails passes the utxo's last servicing key); prevoutScript is the
// witness/redeem script controlling the utxo (used for csv/p2wsh).
func (b *Builder) AddInputScripts(upd *pset.Updater, inIndex int, addrType AddressType, pubkey, prevoutScript []byte) error {
	switch addrType {
	case AddressP2SHP2WPKH:
		if len(pubkey) == 0 {
			return fmt.Errorf("scriptutil: p2sh-p2wpkh input %d missing pubkey", inIndex)
		}
		redeem := p2wpkhWitnessProgram(pubkey)
		return upd.AddInRedeemScript(redeem, inIndex)

	case AddressCSV, AddressP2WSH:
		if len(prevoutScript) == 0 {
			return fmt.Errorf("scriptutil: %s input %d missing prevout script", addrType, inIndex)
		}
		if err := upd.AddInWitnessScript(prevoutScript, inIndex); err != nil {
			return err
		}
		redeem := p2wshWitnessProgram(prevoutScript)
		return upd.AddInRedeemScript(redeem, inIndex)

	default:
		return nil
	}
}

// p2wpkhWitnessProgram returns OP_0 <hash160(pubkey)>, the redeem script a
// p2sh-p2wpkh input's P2SH scriptPubkey hashes.
func p2wpkhWitnessProgram(pubkey []byte) []byte {
	script, _ := txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).AddData(btcutil.Hash160(pubkey)).Script()
	return script
}

// p2wshWitnessProgram returns OP_0 <sha256(script)>, the redeem script a
// p2sh-p2wsh input's P2SH scriptPubkey hashes.
func p2wshWitnessProgram(script []byte) []byte {
	h := sha256.Sum256(script)
	prog, _ := txscript.NewScriptBuilder().AddOp(txscript.OP_0).AddData(h[:]).Script()
	return prog
}
