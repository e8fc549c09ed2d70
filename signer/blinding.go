package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
)

// slip77Label is the fixed HMAC key of the SLIP-21 root node from which
// the SLIP-0077 master blinding key is derived.
var slip77Label = []byte("Symmetric key seed")

// masterBlindingKeyFromSeed derives the 64-byte SLIP-77 master blinding key
// from a BIP-32 seed, mirroring signer.cpp's
// asset_blinding_key_from_seed(seed): the SLIP-21 root node, then its
// "SLIP-0077" child node.
func masterBlindingKeyFromSeed(seed []byte) [sha512.Size]byte {
	mac := hmac.New(sha512.New, slip77Label)
	mac.Write(seed)
	root := mac.Sum(nil)
	child := hmac.New(sha512.New, root[:32])
	child.Write(append([]byte{0x00}, "SLIP-0077"...))
	var out [sha512.Size]byte
	copy(out[:], child.Sum(nil))
	return out
}

// blindingKeyFromScript derives the per-script blinding private key from
// the master blinding key, mirroring
// asset_blinding_key_to_ec_private_key(master, script): HMAC-SHA256 keyed
// by the second half of the master key, over the script.
func blindingKeyFromScript(master [sha512.Size]byte, script []byte) [32]byte {
	mac := hmac.New(sha256.New, master[32:])
	mac.Write(script)
	var out [32]byte
	copy(out[:], mac.Sum(nil))
	return out
}
