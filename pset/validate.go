package pset

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"
)

// validatePubkey checks that pubKey is *any* valid compressed or
// uncompressed secp256k1 public key serialization.
func validatePubkey(pubKey []byte) bool {
	_, err := btcec.ParsePubKey(pubKey)
	return err == nil
}

// validateXOnlyPubkey checks if pubKey is *any* valid pubKey serialization in
// a BIP-340 context (x-only serialization).
func validateXOnlyPubkey(pubKey []byte) bool {
	_, err := schnorr.ParsePubKey(pubKey)
	return err == nil
}

// validateSchnorrSignature checks that the passed byte slice is a valid
// Schnorr signature, _NOT_ including the sighash flag.
func validateSchnorrSignature(sig []byte) bool {
	_, err := schnorr.ParseSignature(sig)
	return err == nil
}

// validateControlBlock checks that the passed byte slice is a valid control
// block as it would appear in a BIP-341 witness stack as the last element.
func validateControlBlock(controlBlock []byte) bool {
	_, err := txscript.ParseControlBlock(controlBlock)
	return err == nil
}
