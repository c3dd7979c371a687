package clock

const tscSupported = true

// readCounterFenced reads CNTVCT_EL0 between instruction barriers.
//
//go:noescape
func readCounterFenced() uint64

//go:noescape
func counterFrequency() uint64

func hardwareFrequency() (uint64, string, bool) {
	hz := counterFrequency()
	return hz, "CNTFRQ_EL0", hz != 0
}
