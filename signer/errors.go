package signer

import "errors"

// Sentinel UserError values (spec.md §7): surfaced to the caller, never
// panicked. Fatal invariant violations (cache conflicts, missing master
// key during a signing operation that requires one) panic instead, via the
// errors below used as panic values.
var (
	ErrInvalidCredentials      = errors.New("signer: invalid credentials")
	ErrHardwareOrCredsRequired = errors.New("signer: hardware device or credentials required")
	ErrHWWAndCredentials       = errors.New("signer: hardware/remote signer and login credentials cannot be used together")
	ErrDescriptorsAndSlip132   = errors.New("signer: cannot use slip132_extended_pubkeys and core_descriptors")
	ErrPassphraseAndPassword   = errors.New("signer: cannot use bip39_passphrase and password")
	ErrPassphraseAndHexSeed    = errors.New("signer: cannot use bip39_passphrase and hex seed")
	ErrHardwareNameRequired    = errors.New("signer: hardware device JSON requires a non-empty name")
	ErrUnknownDeviceType       = errors.New("signer: unknown device type")
	ErrLiquidUnsupported       = errors.New("signer: the hardware wallet you are using does not support liquid")

	// ErrKeyCacheConflict is a Fatal condition: re-inserting a different
	// xpub under a path already cached is a programming error.
	ErrKeyCacheConflict = errors.New("signer: key cache conflict")

	// ErrNoMasterKey is a Fatal condition: signing or private derivation
	// was requested on a signer with no master key (watch-only/hardware).
	ErrNoMasterKey = errors.New("signer: no master key available")

	// ErrNoMasterBlindingKey is a Fatal condition: a liquid-only operation
	// was requested on a signer with no master blinding key.
	ErrNoMasterBlindingKey = errors.New("signer: no master blinding key available")
)
