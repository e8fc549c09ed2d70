// Package wsession declares the Session adaptor interface the
// EnrichmentEngine and KeypathBuilder consume (spec.md §4.7). It holds no
// implementation: a wallet session (RPC client, database, cache) is wired
// in by the embedder, which is why none of the I/O or storage examples in
// the retrieved pack (network/RPC clients, bbolt-style stores) are
// reimplemented here — they'd be consumers of this interface, not part of
// it.
package wsession

import (
	"github.com/vulpemventures/go-elements/transaction"

	"github.com/AreaLayer/gdk/netparams"
)

// Utxo is a wallet-owned unspent output as carried in the details JSON
// (spec.md §6): enough to resolve its signing keys, its scripts, and its
// confidential blinders.
type Utxo struct {
	Txid       string
	Vout       uint32
	Subaccount uint32
	Pointer    uint32
	IsInternal bool

	AddressType   string
	PrevoutScript []byte

	AssetID string
	Satoshi uint64

	AssetBlinder  []byte
	AmountBlinder []byte

	SkipSigning bool
}

// ExtPubKey is one of the (up to three) keys servicing a wallet UTXO:
// Green co-signer, user, or recovery.
type ExtPubKey struct {
	PublicKey []byte
}

// PubkeySource resolves the full BIP-32 path for a given subaccount
// position, mirroring xpub_hdkeys::get_full_path.
type PubkeySource interface {
	GetFullPath(subaccount, pointer uint32, isInternal bool) []uint32
}

// OutputInfo is what Session.ScriptpubkeyData returns for a script the
// wallet recognises.
type OutputInfo struct {
	Subaccount  uint32
	Pointer     uint32
	IsInternal  bool
	AddressType string
}

// Session is the subset of a wallet session the enrichment engine needs.
// Fetching a previous transaction or resolving a scriptpubkey may block on
// real I/O; the engine does not retry on failure (spec.md §5).
type Session interface {
	// KeysFromUtxo returns up to three keys servicing utxo: Green
	// co-signer first for multisig, then user, then recovery when present.
	KeysFromUtxo(utxo Utxo) ([]ExtPubKey, error)
	// ScriptpubkeyData classifies script as wallet-owned, returning ok=false
	// if it is not recognised.
	ScriptpubkeyData(script []byte) (info OutputInfo, ok bool)
	// FetchRawTransaction retrieves a previous transaction by its reversed
	// (big-endian, display order) txid hex.
	FetchRawTransaction(txid string) (*transaction.Transaction, error)

	GreenPubkeys() PubkeySource
	UserPubkeys() PubkeySource

	NetParams() netparams.Params
}
