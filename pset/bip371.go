package pset

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/wire"
)

// SerializeBIP32Derivation encodes a BIP-32 key origin (fingerprint + path)
// the same way every other derivation field in this package does: 4 bytes
// of master fingerprint followed by one little-endian uint32 per path
// element.
func SerializeBIP32Derivation(fingerprint uint32, path []uint32) []byte {
	var buf bytes.Buffer
	var fp [4]byte
	binaryLittleEndianPutUint32(fp[:], fingerprint)
	buf.Write(fp[:])
	for _, p := range path {
		var b [4]byte
		binaryLittleEndianPutUint32(b[:], p)
		buf.Write(b[:])
	}
	return buf.Bytes()
}

func readBip32Derivation(value []byte) (uint32, []uint32, error) {
	if len(value) < 4 || len(value)%4 != 0 {
		return 0, nil, fmt.Errorf("%w: malformed bip32 derivation", ErrInvalidPsbtFormat)
	}
	fingerprint := binaryLittleEndianUint32(value[:4])
	path := make([]uint32, (len(value)-4)/4)
	for i := range path {
		path[i] = binaryLittleEndianUint32(value[4+i*4 : 8+i*4])
	}
	return fingerprint, path, nil
}

func binaryLittleEndianPutUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func binaryLittleEndianUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// writeLenPrefixedBlocks writes a varint count followed by count
// fixed-size blocks, the wire shape every PSBT/PSET field that carries a
// list of same-sized byte blocks uses; in this package it encodes the
// leaf hashes of a taproot BIP-32 derivation.
func writeLenPrefixedBlocks(buf *bytes.Buffer, blocks [][]byte, blockSize int) error {
	if err := wire.WriteVarInt(buf, 0, uint64(len(blocks))); err != nil {
		return ErrInvalidPsbtFormat
	}
	for _, b := range blocks {
		if n, err := buf.Write(b); err != nil || n != blockSize {
			return ErrInvalidPsbtFormat
		}
	}
	return nil
}

// readLenPrefixedBlocks is writeLenPrefixedBlocks' read-side counterpart.
func readLenPrefixedBlocks(reader *bytes.Reader, blockSize int) ([][]byte, error) {
	count, err := wire.ReadVarInt(reader, 0)
	if err != nil {
		return nil, ErrInvalidPsbtFormat
	}
	blocks := make([][]byte, count)
	for i := range blocks {
		blocks[i] = make([]byte, blockSize)
		if n, err := reader.Read(blocks[i]); err != nil || n != blockSize {
			return nil, ErrInvalidPsbtFormat
		}
	}
	return blocks, nil
}

// serializeTaprootBip32Derivation serializes a TaprootBip32Derivation to its
// raw byte representation: <hashes len> <leaf hash>* <fingerprint> <path>*.
func serializeTaprootBip32Derivation(d *TaprootBip32Derivation) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeLenPrefixedBlocks(&buf, d.LeafHashes, 32); err != nil {
		return nil, err
	}
	buf.Write(SerializeBIP32Derivation(d.MasterKeyFingerprint, d.Bip32Path))
	return buf.Bytes(), nil
}

// readTaprootBip32Derivation deserializes a byte slice containing the
// Taproot BIP-32 derivation info: a list of leaf hashes followed by the
// ordinary BIP-32 derivation info.
func readTaprootBip32Derivation(xOnlyPubKey, value []byte) (*TaprootBip32Derivation, error) {
	if len(value) < 5 {
		return nil, ErrInvalidPsbtFormat
	}

	reader := bytes.NewReader(value)
	leafHashes, err := readLenPrefixedBlocks(reader, 32)
	if err != nil {
		return nil, err
	}

	var leftover bytes.Buffer
	if _, err := reader.WriteTo(&leftover); err != nil {
		return nil, err
	}

	fingerprint, path, err := readBip32Derivation(leftover.Bytes())
	if err != nil {
		return nil, err
	}

	return &TaprootBip32Derivation{
		XOnlyPubKey:          xOnlyPubKey,
		LeafHashes:           leafHashes,
		MasterKeyFingerprint: fingerprint,
		Bip32Path:            path,
	}, nil
}

// serializeTaprootLeafScript serializes a TaprootTapLeafScript to its raw
// byte representation: <script> <leaf version>.
func serializeTaprootLeafScript(l *TaprootTapLeafScript) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(l.Script); err != nil {
		return nil, ErrInvalidPsbtFormat
	}
	if err := buf.WriteByte(l.LeafVersion); err != nil {
		return nil, ErrInvalidPsbtFormat
	}
	return buf.Bytes(), nil
}

// serializeTaprootScriptSpendSig concatenates the x-only pubkey and leaf
// hash that key a TaprootScriptSpendSig.
func serializeTaprootScriptSpendSig(s *TaprootScriptSpendSig) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(s.XOnlyPubKey); err != nil {
		return nil, ErrInvalidPsbtFormat
	}
	if _, err := buf.Write(s.LeafHash); err != nil {
		return nil, ErrInvalidPsbtFormat
	}
	return buf.Bytes(), nil
}
