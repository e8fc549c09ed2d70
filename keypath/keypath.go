// Package keypath attaches BIP-32 derivation metadata to PSET inputs and
// outputs, grounded on ga_psbt.cpp's add_keypath/add_keypaths: the Green
// co-signer key goes in first (Electrum subaccounts have no Green key),
// then the user's key. A recovery key, present on
// 2of3 subaccounts, is not yet wired in — see the FIXME below, carried
// forward unchanged from the original.
package keypath

import (
	"fmt"

	"github.com/AreaLayer/gdk/pset"
	"github.com/AreaLayer/gdk/signer"
	"github.com/AreaLayer/gdk/wsession"
)

// Builder attaches keypaths using a session's key sources and a signer's
// master fingerprint.
type Builder struct {
	session wsession.Session
	signer  *signer.Signer
}

func NewBuilder(session wsession.Session, s *signer.Signer) *Builder {
	return &Builder{session: session, signer: s}
}

// AddInputKeypaths resolves utxo's servicing keys and records each as a
// (pubkey -> (fingerprint, full path)) entry on in, via upd.
func (b *Builder) AddInputKeypaths(upd *pset.Updater, inputIndex int, utxo wsession.Utxo) error {
	path, err := b.fullPath(utxo.Subaccount, utxo.Pointer, utxo.IsInternal)
	if err != nil {
		return err
	}
	fp, err := b.signer.MasterFingerprint()
	if err != nil {
		return fmt.Errorf("keypath: resolving master fingerprint: %w", err)
	}

	keys, err := b.session.KeysFromUtxo(utxo)
	if err != nil {
		return fmt.Errorf("keypath: resolving keys for %s:%d: %w", utxo.Txid, utxo.Vout, err)
	}
	return b.addKeypaths(upd, inputIndex, false, fp, path, keys)
}

// AddOutputKeypaths is AddInputKeypaths' change-output counterpart: it
// attaches keypaths to a wallet-owned (change) output so a hardware signer
// can verify it without an extra round trip.
func (b *Builder) AddOutputKeypaths(upd *pset.Updater, outputIndex int, info wsession.OutputInfo) error {
	path, err := b.fullPath(info.Subaccount, info.Pointer, info.IsInternal)
	if err != nil {
		return err
	}
	fp, err := b.signer.MasterFingerprint()
	if err != nil {
		return fmt.Errorf("keypath: resolving master fingerprint: %w", err)
	}

	keys, err := b.session.KeysFromUtxo(wsession.Utxo{
		Subaccount: info.Subaccount,
		Pointer:    info.Pointer,
		IsInternal: info.IsInternal,
	})
	if err != nil {
		return fmt.Errorf("keypath: resolving keys for output %d: %w", outputIndex, err)
	}
	return b.addKeypaths(upd, outputIndex, true, fp, path, keys)
}

func (b *Builder) fullPath(subaccount, pointer uint32, isInternal bool) ([]uint32, error) {
	if b.session.NetParams().IsElectrum {
		return b.session.UserPubkeys().GetFullPath(subaccount, pointer, isInternal), nil
	}
	return b.session.GreenPubkeys().GetFullPath(subaccount, pointer, isInternal), nil
}

// addKeypaths is the Go analogue of add_keypaths: keys come in
// KeysFromUtxo's order (for multisig, the Green co-signer key and then
// the user's key; an Electrum subaccount has no Green key, so its first
// key is the user's), and the first two get a keypath.
//
// FIXME: add the recovery pubkey once keys holds more than two entries
// (2of3 subaccounts).
func (b *Builder) addKeypaths(upd *pset.Updater, index int, isOutput bool, fp uint32, path []uint32, keys []wsession.ExtPubKey) error {
	for i, key := range keys {
		if i >= 2 {
			break
		}
		if isOutput {
			derivation := pset.DerivationPathWithPubKey{
				PubKey:               key.PublicKey,
				MasterKeyFingerprint: fp,
				Bip32Path:            path,
			}
			if err := upd.AddOutBip32Derivation(index, derivation); err != nil {
				return err
			}
			continue
		}
		if err := upd.AddInBip32Derivation(fp, path, key.PublicKey, index); err != nil {
			return err
		}
	}
	return nil
}
