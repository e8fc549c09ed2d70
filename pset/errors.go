package pset

import "errors"

// Sentinel errors returned by the Updater and the codec. The Updater
// returns ErrInputIndexOutOfRange/ErrOutputIndexOutOfRange for a bad index
// and ErrDuplicateKey for a conflicting entry; only Pset's own
// GetInput/GetOutput accessors panic on a bad index (see pset.go).
var (
	ErrInputIndexOutOfRange     = errors.New("pset: input index out of range")
	ErrOutputIndexOutOfRange    = errors.New("pset: output index out of range")
	ErrInvalidSignatureForInput = errors.New("pset: signature does not correspond to this input")
	ErrInvalidNonWitnessUtxo    = errors.New("pset: non-witness utxo does not match previous txid")
	ErrInvalidPsbtFormat        = errors.New("pset: malformed field")
	ErrDuplicateKey             = errors.New("pset: duplicate key")
	ErrInputFinalized           = errors.New("pset: input is already finalized")

	ErrInInvalidTapLeafControlBlock = errors.New("pset: invalid tap leaf control block")
	ErrInInvalidSchnorrSignature    = errors.New("pset: invalid schnorr signature")
	ErrInInputHasTapKeySig          = errors.New("pset: input already has a tap key signature")
	ErrInInvalidTapScriptSig        = errors.New("pset: invalid taproot script sig")
	ErrInInvalidTapInternalKey      = errors.New("pset: invalid taproot internal key")
	ErrOutHasTapTree                = errors.New("pset: output already has a tap tree")
	ErrOutHasTapInternalKey         = errors.New("pset: output already has a tap internal key")

	// ErrPsetMismatch is returned when Parse is asked to treat a container
	// as PSET (or plain PSBT) but the container's Elements flag disagrees.
	ErrPsetMismatch = errors.New("pset: PSBT/PSET mismatch")

	// ErrMissingPsetField is the Fatal condition raised (as a panic, via
	// mustField) when UnblindWalletOutput, called while ToDetails unblinds
	// a wallet output, finds a required PSET output field empty.
	ErrMissingPsetField = errors.New("pset: required PSET field missing")

	// ErrInvalidBlindingStatus is returned by SanityCheck when a liquid
	// output's blinding status does not fit its script: NONE with a
	// non-empty script, or FULL with an empty one.
	ErrInvalidBlindingStatus = errors.New("pset: unsupported output blinding status")
)

const schnorrSigMinLength = 64
