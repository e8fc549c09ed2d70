package signer

import (
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// CredentialsKind discriminates the sum type spec.md's Design Notes call
// for in place of GDK's open-ended JSON credential object.
type CredentialsKind int

const (
	CredentialsNone CredentialsKind = iota
	CredentialsMnemonic
	CredentialsHexSeed
	CredentialsWatchOnly
	CredentialsDescriptor
	CredentialsSlip132
)

// Credentials is the parsed, validated result of ingesting a raw credentials
// request, built once by ParseCredentials rather than re-checked ad hoc at
// every call site (spec.md §9, "Credentials polymorphism").
type Credentials struct {
	Kind CredentialsKind

	// CredentialsMnemonic / CredentialsHexSeed
	Mnemonic        string
	Seed            []byte
	Bip39Passphrase string

	// CredentialsWatchOnly (classic username/password login)
	Username string
	Password string

	// CredentialsDescriptor
	CoreDescriptors []string

	// CredentialsSlip132
	Slip132ExtendedPubkeys []string
}

// Request is the raw, not-yet-validated credentials input, mirroring the
// JSON object signer::get_credentials_json parses in signer.cpp.
type Request struct {
	Username               string
	Password               string
	Mnemonic               string
	Bip39Passphrase        string
	CoreDescriptors        []string
	Slip132ExtendedPubkeys []string
}

// Empty reports whether the request carries no credential material at all,
// which is valid only when constructing a hardware or remote signer.
func (r Request) Empty() bool {
	return r.Username == "" && r.Mnemonic == "" &&
		len(r.CoreDescriptors) == 0 && len(r.Slip132ExtendedPubkeys) == 0
}

// ParseCredentials validates req and classifies it into exactly one
// Credentials kind, per signer.cpp's get_credentials_json.
func ParseCredentials(req Request) (Credentials, error) {
	if req.Empty() {
		return Credentials{Kind: CredentialsNone}, nil
	}

	if req.Username != "" {
		return Credentials{Kind: CredentialsWatchOnly, Username: req.Username, Password: req.Password}, nil
	}

	if req.Mnemonic != "" {
		mnemonic := req.Mnemonic
		if req.Password != "" {
			if req.Bip39Passphrase != "" {
				return Credentials{}, ErrPassphraseAndPassword
			}
			decrypted, err := decryptMnemonic(mnemonic, req.Password)
			if err != nil {
				return Credentials{}, err
			}
			mnemonic = decrypted
		}
		if strings.Contains(mnemonic, " ") {
			if err := bip39.ValidateMnemonic(mnemonic); err != nil {
				return Credentials{}, ErrInvalidCredentials
			}
			seed := bip39.NewSeed(mnemonic, req.Bip39Passphrase)
			return Credentials{
				Kind:            CredentialsMnemonic,
				Mnemonic:        mnemonic,
				Seed:            seed,
				Bip39Passphrase: req.Bip39Passphrase,
			}, nil
		}

		if len(mnemonic) == 129 && mnemonic[128] == 'X' {
			if req.Bip39Passphrase != "" {
				return Credentials{}, ErrPassphraseAndHexSeed
			}
			seed, err := decodeHex(mnemonic[:128])
			if err != nil {
				return Credentials{}, ErrInvalidCredentials
			}
			return Credentials{Kind: CredentialsHexSeed, Seed: seed}, nil
		}
	}

	if len(req.CoreDescriptors) > 0 {
		if len(req.Slip132ExtendedPubkeys) > 0 {
			return Credentials{}, ErrDescriptorsAndSlip132
		}
		return Credentials{Kind: CredentialsDescriptor, CoreDescriptors: req.CoreDescriptors}, nil
	}

	if len(req.Slip132ExtendedPubkeys) > 0 {
		return Credentials{Kind: CredentialsSlip132, Slip132ExtendedPubkeys: req.Slip132ExtendedPubkeys}, nil
	}

	return Credentials{}, ErrInvalidCredentials
}
