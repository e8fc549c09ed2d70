package signer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"
)

// passwordSalt mirrors signer::PASSWORD_SALT ("passsalt"), the fixed salt
// GDK uses to key-stretch a caller-supplied mnemonic password.
var passwordSalt = []byte("passsalt")

const pbkdf2Iterations = 2048

func deriveMnemonicKey(password string) []byte {
	return pbkdf2.Key([]byte(password), passwordSalt, pbkdf2Iterations, 32, sha3.New256)
}

// encryptMnemonic returns an AES-256-CTR encryption of mnemonic under a key
// stretched from password, prefixed with its random nonce, all hex-encoded.
// A fresh nonce is generated on every call so re-encrypting the same
// mnemonic under the same password never produces the same ciphertext
// twice.
func encryptMnemonic(mnemonic, password string) (string, error) {
	block, err := aes.NewCipher(deriveMnemonicKey(password))
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	out := make([]byte, len(mnemonic))
	cipher.NewCTR(block, nonce).XORKeyStream(out, []byte(mnemonic))

	return hex.EncodeToString(nonce) + hex.EncodeToString(out), nil
}

func decryptMnemonic(encrypted, password string) (string, error) {
	raw, err := hex.DecodeString(encrypted)
	if err != nil || len(raw) <= aes.BlockSize {
		return "", fmt.Errorf("%w: malformed encrypted mnemonic", ErrInvalidCredentials)
	}
	nonce, ciphertext := raw[:aes.BlockSize], raw[aes.BlockSize:]

	block, err := aes.NewCipher(deriveMnemonicKey(password))
	if err != nil {
		return "", err
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCTR(block, nonce).XORKeyStream(out, ciphertext)
	return string(out), nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
