package clock

import "fmt"

const tscSupported = true

// readCounterFenced executes LFENCE; RDTSC; LFENCE.
//
//go:noescape
func readCounterFenced() uint64

//go:noescape
func cpuid(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

// hardwareFrequency reads the TSC frequency from CPUID leaf 0x15, falling back
// to the processor base frequency of leaf 0x16 when the crystal clock is not
// enumerated.
func hardwareFrequency() (uint64, string, bool) {
	maxLeaf, _, _, _ := cpuid(0, 0)
	if maxLeaf < 0x15 {
		return 0, "", false
	}

	denom, numer, crystal, _ := cpuid(0x15, 0)
	if denom != 0 && numer != 0 && crystal != 0 {
		hz := uint64(crystal) * uint64(numer) / uint64(denom)
		return hz, fmt.Sprintf("cpuid 0x15 (crystal %d Hz * %d/%d)", crystal, numer, denom), true
	}

	if maxLeaf >= 0x16 {
		base, _, _, _ := cpuid(0x16, 0)
		if base&0xffff != 0 {
			return uint64(base&0xffff) * 1e6, "cpuid 0x16 base frequency", true
		}
	}
	return 0, "", false
}
