// Package netparams describes the network a Signer/Session is operating
// against, modelled on go-elements/network.Network and extended with the
// fields spec.md's Session.net_params() needs that the codec library has no
// use for itself (electrum backend flag, policy asset).
package netparams

import "github.com/vulpemventures/go-elements/network"

// Params is the small, serialisable configuration struct this module's
// Signer and Session adaptor are constructed against.
type Params struct {
	Network     *network.Network
	IsElectrum  bool
	IsMainNet   bool
	IsLiquid    bool
	PolicyAsset string
}

// Mainnet, Testnet and Liquid are the canonical non-regtest presets used by
// tests and by callers wiring up a Signer outside of a full session.
var (
	Mainnet = Params{Network: &network.Mainnet, IsMainNet: true}
	Testnet = Params{Network: &network.Testnet}
	Liquid  = Params{Network: &network.Liquid, IsMainNet: true, IsLiquid: true, PolicyAsset: network.Liquid.AssetID}
	Regtest = Params{Network: &network.Regtest, IsLiquid: true, PolicyAsset: network.Regtest.AssetID}
)
