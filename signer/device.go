package signer

// LiquidSupport is the device's level of confidential-transaction support,
// mirroring GDK's liquid_support_level enum.
type LiquidSupport int

const (
	LiquidSupportNone LiquidSupport = iota
	LiquidSupportLite
	LiquidSupportFull
)

// AeProtocolSupport is the device's anti-exfil protocol support level,
// mirroring GDK's ae_protocol_support_level enum.
type AeProtocolSupport int

const (
	AeProtocolNone AeProtocolSupport = iota
	AeProtocolSupported
)

// DeviceType names the four canonical signer variants.
type DeviceType string

const (
	DeviceGreenBackend DeviceType = "green-backend"
	DeviceWatchOnly    DeviceType = "watch-only"
	DeviceSoftware     DeviceType = "software"
	DeviceHardware     DeviceType = "hardware"
)

// Device is the capability descriptor negotiated at construction time
// (spec.md §4.2). It is a plain comparable struct so two signers can be
// compared for compatibility with ==.
type Device struct {
	Type DeviceType
	// Name identifies a hardware device; required when Type is
	// DeviceHardware, ignored otherwise.
	Name string

	SupportsLowR              bool
	SupportsArbitraryScripts  bool
	SupportsHostUnblinding    bool
	SupportsExternalBlinding  bool
	SupportsLiquid            LiquidSupport
	SupportsAeProtocol        AeProtocolSupport
}

// greenDevice, watchOnlyDevice and softwareDevice are the fixed canonical
// presets from signer.cpp's GREEN_DEVICE_JSON/WATCH_ONLY_DEVICE_JSON/
// SOFTWARE_DEVICE_JSON. green-backend's values may never be overridden;
// watch-only and software differ from it only in SupportsHostUnblinding.
func greenDevice() Device {
	return Device{
		Type:                     DeviceGreenBackend,
		SupportsLowR:             true,
		SupportsArbitraryScripts: true,
		SupportsHostUnblinding:   false,
		SupportsExternalBlinding: true,
		SupportsLiquid:           LiquidSupportLite,
		SupportsAeProtocol:       AeProtocolNone,
	}
}

func watchOnlyDevice() Device {
	d := greenDevice()
	d.Type = DeviceWatchOnly
	d.SupportsHostUnblinding = true
	return d
}

func softwareDevice() Device {
	d := greenDevice()
	d.Type = DeviceSoftware
	d.SupportsHostUnblinding = true
	return d
}

// buildDevice resolves the effective Device for a Signer construction call:
// hwDevice overrides everything except green-backend (which always resets
// to the fixed preset); otherwise a preset is chosen from the credentials
// kind, per signer.cpp's get_device_json.
func buildDevice(hwDevice *Device, creds Credentials) (Device, error) {
	if hwDevice != nil {
		d := *hwDevice
		if d.Type == "" {
			d.Type = DeviceHardware
		}
		switch d.Type {
		case DeviceGreenBackend:
			return greenDevice(), nil
		case DeviceHardware:
			if d.Name == "" {
				return Device{}, ErrHardwareNameRequired
			}
			return d, nil
		case DeviceSoftware, DeviceWatchOnly:
			return d, nil
		default:
			return Device{}, ErrUnknownDeviceType
		}
	}

	switch creds.Kind {
	case CredentialsWatchOnly, CredentialsDescriptor, CredentialsSlip132:
		return watchOnlyDevice(), nil
	case CredentialsMnemonic, CredentialsHexSeed:
		return softwareDevice(), nil
	default:
		return Device{}, ErrHardwareOrCredsRequired
	}
}
