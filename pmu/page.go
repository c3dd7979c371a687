package pmu

import "fmt"

// ControlPage mirrors the head of the kernel's perf_event_mmap_page. Only the
// fields the fast read uses are named.
type ControlPage struct {
	Version       uint32
	CompatVersion uint32
	Lock          uint32
	Index         uint32
	Offset        int64
	TimeEnabled   uint64
	TimeRunning   uint64
	Capabilities  uint64
	PmcWidth      uint16
	TimeShift     uint16
	TimeMult      uint32
	TimeOffset    uint64
	TimeZero      uint64
}

// Capability bits.
const (
	capabilityRDPMC        = 1 << 2
	capabilityUserTime     = 1 << 3
	capabilityUserTimeZero = 1 << 4
)

// CanReadDirect reports whether the kernel grants user space counter reads.
func (p *ControlPage) CanReadDirect() bool {
	return p.Capabilities&capabilityRDPMC != 0
}

// Caps describes the page for diagnostics.
func (p *ControlPage) Caps() string {
	bit := func(mask uint64) int {
		if p.Capabilities&mask != 0 {
			return 1
		}
		return 0
	}
	return fmt.Sprintf("R%d UT%d ZT%d index: %#x pmc_width=%#x offset=%#x time_enabled=%#x time_running=%#x",
		bit(capabilityRDPMC), bit(capabilityUserTime), bit(capabilityUserTimeZero),
		p.Index, p.PmcWidth, uint64(p.Offset), p.TimeEnabled, p.TimeRunning)
}
