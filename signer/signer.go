// Package signer implements the HD Signer and KeyCache components
// (spec.md §4.2): construction from credentials or a hardware/watch-only
// descriptor, capability negotiation, cached public derivation, private
// signing, and SLIP-77 confidential blinding key derivation.
package signer

import (
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/AreaLayer/gdk/gdklog"
	"github.com/AreaLayer/gdk/netparams"
)

// Signer is constructed once per wallet session and is safe for concurrent
// use: a single non-reentrant mutex protects the master blinding key, and
// keyCache carries its own.
type Signer struct {
	isMainNet bool
	isLiquid  bool

	credentials Credentials
	device      Device

	masterKey *hdkeychain.ExtendedKey // nil for watch-only/hardware/remote
	cache     *keyCache

	mu                sync.Mutex
	masterBlindingKey *[sha512.Size]byte // nil until known
}

// New constructs a Signer, enforcing spec.md §4.2's construction contract:
// exactly one of a hardware device descriptor or a credentials request is
// required, and liquid requires the resolved device to support it.
func New(params netparams.Params, hwDevice *Device, req Request) (*Signer, error) {
	if hwDevice != nil && !req.Empty() {
		return nil, ErrHWWAndCredentials
	}

	creds, err := ParseCredentials(req)
	if err != nil {
		return nil, err
	}

	device, err := buildDevice(hwDevice, creds)
	if err != nil {
		return nil, err
	}

	if params.IsLiquid && device.SupportsLiquid == LiquidSupportNone {
		return nil, ErrLiquidUnsupported
	}

	gdklog.Debugf("signer: constructing signer device=%v liquid=%v", device.Type, params.IsLiquid)

	s := &Signer{
		isMainNet:   params.IsMainNet,
		isLiquid:    params.IsLiquid,
		credentials: creds,
		device:      device,
		cache:       newKeyCache(),
	}

	if len(creds.Seed) > 0 {
		netCfg := &chaincfg.MainNetParams
		if !params.IsMainNet {
			netCfg = &chaincfg.TestNet3Params
		}
		masterKey, err := hdkeychain.NewMaster(creds.Seed, netCfg)
		if err != nil {
			return nil, err
		}
		s.masterKey = masterKey

		if params.IsLiquid {
			key := masterBlindingKeyFromSeed(creds.Seed)
			s.masterBlindingKey = &key
		}
	}

	return s, nil
}

// IsCompatibleWith reports whether s and other were built from the same
// device descriptor and equal credentials, ignoring master_blinding_key
// (per signer::is_compatible_with).
func (s *Signer) IsCompatibleWith(other *Signer) bool {
	if s.device != other.device {
		return false
	}
	return credentialsEqualIgnoringBlindingKey(s.credentials, other.credentials)
}

func credentialsEqualIgnoringBlindingKey(a, b Credentials) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case CredentialsMnemonic:
		return a.Mnemonic == b.Mnemonic && a.Bip39Passphrase == b.Bip39Passphrase
	case CredentialsHexSeed:
		return string(a.Seed) == string(b.Seed)
	case CredentialsWatchOnly:
		return a.Username == b.Username && a.Password == b.Password
	case CredentialsDescriptor:
		return stringSliceEqual(a.CoreDescriptors, b.CoreDescriptors)
	case CredentialsSlip132:
		return stringSliceEqual(a.Slip132ExtendedPubkeys, b.Slip132ExtendedPubkeys)
	default:
		return true
	}
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetMnemonic returns the empty string for hardware/watch-only/remote
// signers; otherwise the mnemonic (re-encrypted with password if non-empty)
// or, for a raw hex-seed signer, the seed hex with a trailing 'X'.
func (s *Signer) GetMnemonic(password string) (string, error) {
	if s.IsHardware() || s.IsWatchOnly() || s.IsRemote() {
		return "", nil
	}
	if s.credentials.Kind == CredentialsMnemonic {
		if password == "" {
			return s.credentials.Mnemonic, nil
		}
		return encryptMnemonic(s.credentials.Mnemonic, password)
	}
	return hex.EncodeToString(s.credentials.Seed) + "X", nil
}

func (s *Signer) SupportsLowR() bool             { return !s.UseAeProtocol() && s.device.SupportsLowR }
func (s *Signer) SupportsArbitraryScripts() bool { return s.device.SupportsArbitraryScripts }
func (s *Signer) SupportsHostUnblinding() bool   { return s.device.SupportsHostUnblinding }
func (s *Signer) SupportsExternalBlinding() bool { return s.device.SupportsExternalBlinding }
func (s *Signer) LiquidSupport() LiquidSupport    { return s.device.SupportsLiquid }
func (s *Signer) AeProtocolSupport() AeProtocolSupport { return s.device.SupportsAeProtocol }
func (s *Signer) UseAeProtocol() bool            { return s.device.SupportsAeProtocol != AeProtocolNone }
func (s *Signer) IsRemote() bool                 { return s.device.Type == DeviceGreenBackend }
func (s *Signer) IsLiquid() bool                 { return s.isLiquid }
func (s *Signer) IsWatchOnly() bool              { return s.device.Type == DeviceWatchOnly }
func (s *Signer) IsHardware() bool               { return s.device.Type == DeviceHardware }
func (s *Signer) IsDescriptorWatchOnly() bool {
	return s.credentials.Kind == CredentialsDescriptor || s.credentials.Kind == CredentialsSlip132
}
func (s *Signer) Device() Device { return s.device }

// GetCredentials returns the signer's credentials, adding
// master_blinding_key (hex of the key's second half) when liquid and known.
func (s *Signer) GetCredentials() (Credentials, string) {
	if !s.isLiquid {
		return s.credentials, ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.masterBlindingKey == nil {
		return s.credentials, ""
	}
	return s.credentials, hex.EncodeToString(s.masterBlindingKey[32:])
}

// GetBip32Xpub returns the base58check-serialised extended public key at
// path, deriving and caching it (and any newly-discovered parent) as
// needed, per signer::get_bip32_xpub.
func (s *Signer) GetBip32Xpub(path []uint32) (string, error) {
	parentPath, parentXpub, suffix := s.cache.lookup(path)

	if len(parentPath) == 0 && parentXpub == "" && len(path) == 0 {
		return s.cacheMasterXpub()
	}

	var parentKey *hdkeychain.ExtendedKey
	var err error
	switch {
	case parentXpub != "":
		parentKey, err = hdkeychain.NewKeyFromString(parentXpub)
		if err != nil {
			return "", err
		}
	case len(path) == 0:
		return s.cacheMasterXpub()
	default:
		if s.masterKey == nil {
			panic(ErrNoMasterKey)
		}
		parentKey, err = derivePublic(s.masterKey, parentPath)
		if err != nil {
			return "", err
		}
		parentXpubStr, err := neuteredString(parentKey)
		if err != nil {
			return "", err
		}
		s.cache.insert(parentPath, parentXpubStr)
	}

	if len(suffix) == 0 {
		return neuteredString(parentKey)
	}

	childKey, err := derivePublic(parentKey, suffix)
	if err != nil {
		return "", err
	}
	xpub, err := neuteredString(childKey)
	if err != nil {
		return "", err
	}
	s.cache.insert(path, xpub)
	return xpub, nil
}

func (s *Signer) cacheMasterXpub() (string, error) {
	if s.masterKey == nil {
		panic(ErrNoMasterKey)
	}
	xpub, err := neuteredString(s.masterKey)
	if err != nil {
		return "", err
	}
	s.cache.insert(nil, xpub)
	return xpub, nil
}

// MasterFingerprint returns the master key fingerprint used to key every
// derivation path attached to a PSBT/PSET input or output. Panics if the
// signer has no master key, matching the Fatal assertion in
// signer::get_bip32_xpub({}) -> cache_ext_key when called on a watch-only
// or hardware signer.
func (s *Signer) MasterFingerprint() (uint32, error) {
	if s.masterKey == nil {
		panic(ErrNoMasterKey)
	}
	pub, err := s.masterKey.ECPubKey()
	if err != nil {
		return 0, err
	}
	h := btcutil.Hash160(pub.SerializeCompressed())
	return binary.LittleEndian.Uint32(h[:4]), nil
}

// HasBip32Xpub reports whether path (or any non-hardened prefix of it) can
// be served without further I/O: either the signer holds a master key, or
// the cache already has it.
func (s *Signer) HasBip32Xpub(path []uint32) bool {
	if s.masterKey != nil {
		return true
	}
	return s.cache.has(path)
}

func derivePublic(key *hdkeychain.ExtendedKey, path []uint32) (*hdkeychain.ExtendedKey, error) {
	cur := key
	for _, index := range path {
		next, err := cur.DeriveNonStandard(index)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur.IsPrivate() {
		return cur.Neuter()
	}
	return cur, nil
}

func neuteredString(key *hdkeychain.ExtendedKey) (string, error) {
	if key.IsPrivate() {
		neutered, err := key.Neuter()
		if err != nil {
			return "", err
		}
		return neutered.String(), nil
	}
	return key.String(), nil
}

// SignHash derives the private child key at path and produces a 64-byte
// compact ECDSA signature over hash. Panics if the signer has no master
// key.
func (s *Signer) SignHash(path []uint32, hash []byte) ([]byte, error) {
	priv, err := s.derivePrivate(path)
	if err != nil {
		return nil, err
	}
	// SignCompact yields a recovery byte followed by the 32-byte R and S.
	return ecdsa.SignCompact(priv, hash, true)[1:], nil
}

// SignRecHash is SignHash's recoverable-signature counterpart, used where
// the verifier needs to recover the public key from the signature alone.
func (s *Signer) SignRecHash(path []uint32, hash []byte) ([]byte, error) {
	priv, err := s.derivePrivate(path)
	if err != nil {
		return nil, err
	}
	return ecdsa.SignCompact(priv, hash, true), nil
}

func (s *Signer) derivePrivate(path []uint32) (*btcec.PrivateKey, error) {
	if s.masterKey == nil {
		panic(ErrNoMasterKey)
	}
	cur := s.masterKey
	for _, index := range path {
		next, err := cur.DeriveNonStandard(index)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur.ECPrivKey()
}

// HasMasterBlindingKey reports whether the master blinding key is known.
func (s *Signer) HasMasterBlindingKey() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masterBlindingKey != nil
}

// SetMasterBlindingKey installs a previously-exported master blinding key
// (full 64 bytes, or the legacy 32-byte half placed in the low bytes).
func (s *Signer) SetMasterBlindingKey(keyBytes []byte) {
	if len(keyBytes) == 0 {
		return
	}
	var key [sha512.Size]byte
	copy(key[sha512.Size-len(keyBytes):], keyBytes)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.masterBlindingKey = &key
}

// GetBlindingKeyFromScript derives the per-script blinding private key via
// SLIP-77. Panics if no master blinding key is known.
func (s *Signer) GetBlindingKeyFromScript(script []byte) [32]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.masterBlindingKey == nil {
		panic(ErrNoMasterBlindingKey)
	}
	return blindingKeyFromScript(*s.masterBlindingKey, script)
}

// GetBlindingPubkeyFromScript returns the compressed public key
// corresponding to GetBlindingKeyFromScript(script).
func (s *Signer) GetBlindingPubkeyFromScript(script []byte) []byte {
	priv := s.GetBlindingKeyFromScript(script)
	_, pub := btcec.PrivKeyFromBytes(priv[:])
	return pub.SerializeCompressed()
}
