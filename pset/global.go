package pset

// Global carries the PSBT/PSET global map, normalised to version 2
// internally regardless of the version the container was parsed at.
type Global struct {
	// Version is always 2 once a Pset has been constructed; the version
	// the container was read at (0 or 2) is tracked separately on Pset
	// so it can be restored on serialisation.
	Version uint32

	TxVersion        uint32
	FallbackLocktime uint32
	InputCount       uint32
	OutputCount      uint32

	// Elements-only: the scalar offset applied by PSET's surjection proof
	// scheme; unused by this wallet but preserved across round-trips.
	Scalars [][]byte
}
