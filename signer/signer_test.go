package signer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AreaLayer/gdk/netparams"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestSigner(t *testing.T, params netparams.Params) *Signer {
	t.Helper()
	s, err := New(params, nil, Request{Mnemonic: testMnemonic})
	require.NoError(t, err)
	return s
}

func TestNewFromMnemonicIsSoftwareDevice(t *testing.T) {
	s := newTestSigner(t, netparams.Testnet)
	assert.Equal(t, DeviceSoftware, s.Device().Type)
	assert.False(t, s.IsWatchOnly())
	assert.False(t, s.IsHardware())
	assert.False(t, s.IsRemote())
}

func TestNewRejectsHardwareDeviceAndCredentials(t *testing.T) {
	hw := &Device{Type: DeviceHardware, Name: "ledger"}
	_, err := New(netparams.Testnet, hw, Request{Mnemonic: testMnemonic})
	assert.ErrorIs(t, err, ErrHWWAndCredentials)
}

func TestNewRejectsLiquidWhenDeviceDoesNotSupportIt(t *testing.T) {
	hw := &Device{Type: DeviceHardware, Name: "ledger", SupportsLiquid: LiquidSupportNone}
	_, err := New(netparams.Liquid, hw, Request{})
	assert.ErrorIs(t, err, ErrLiquidUnsupported)
}

func TestMasterFingerprintIsDeterministic(t *testing.T) {
	s := newTestSigner(t, netparams.Testnet)
	fp1, err := s.MasterFingerprint()
	require.NoError(t, err)
	fp2, err := s.MasterFingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}

func TestGetBip32XpubCachesMasterAndChild(t *testing.T) {
	s := newTestSigner(t, netparams.Testnet)

	master, err := s.GetBip32Xpub(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, master)

	child, err := s.GetBip32Xpub([]uint32{0, 1})
	require.NoError(t, err)
	assert.NotEmpty(t, child)
	assert.NotEqual(t, master, child)

	assert.True(t, s.HasBip32Xpub([]uint32{0, 1}))
}

func TestIsCompatibleWithIgnoresMasterBlindingKey(t *testing.T) {
	a := newTestSigner(t, netparams.Liquid)
	b := newTestSigner(t, netparams.Liquid)
	b.SetMasterBlindingKey([]byte{0x01, 0x02, 0x03})

	assert.True(t, a.IsCompatibleWith(b))
}

func TestSignHashAndSignRecHashProduceSignatures(t *testing.T) {
	s := newTestSigner(t, netparams.Testnet)
	hash := make([]byte, 32)
	hash[0] = 0x01

	sig, err := s.SignHash([]uint32{0}, hash)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	recSig, err := s.SignRecHash([]uint32{0}, hash)
	require.NoError(t, err)
	assert.NotEmpty(t, recSig)
}

func TestMasterBlindingKeyDerivesDeterministicBlindingKey(t *testing.T) {
	s := newTestSigner(t, netparams.Liquid)
	require.True(t, s.HasMasterBlindingKey())

	script := []byte{0x00, 0x14, 0x01, 0x02, 0x03}
	k1 := s.GetBlindingKeyFromScript(script)
	k2 := s.GetBlindingKeyFromScript(script)
	assert.Equal(t, k1, k2)

	pub := s.GetBlindingPubkeyFromScript(script)
	assert.Len(t, pub, 33)
}

func TestGetBlindingKeyFromScriptPanicsWithoutMasterBlindingKey(t *testing.T) {
	s := newTestSigner(t, netparams.Testnet)
	assert.Panics(t, func() {
		s.GetBlindingKeyFromScript([]byte{0x00})
	})
}
