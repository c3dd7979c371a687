package pmu

import (
	"fmt"
	"strings"
)

// Kernel perf event types.
const (
	TypeHardware   uint32 = 0
	TypeSoftware   uint32 = 1
	TypeTracepoint uint32 = 2
	TypeHWCache    uint32 = 3
	TypeRaw        uint32 = 4
	TypeBreakpoint uint32 = 5
)

// HardwareConfig is a resolved, kernel-encodable counter configuration.
type HardwareConfig struct {
	Type    uint32
	Config  uint64
	Config1 uint64
	Config2 uint64

	ExcludeUser   bool
	ExcludeKernel bool
	ExcludeHV     bool

	// PMU names the PMU the configuration targets, for display.
	PMU string

	// MultiPMU is set when the event must be opened on several PMU
	// instances at once (uncore boxes). Such events are not supported.
	MultiPMU bool

	// Decoded is the human readable form produced by the resolver.
	Decoded string
}

// String formats c in the pmu/config=0x..,config1=0x..,config2=0x../ form.
func (c HardwareConfig) String() string {
	pmu := c.PMU
	if pmu == "" {
		pmu = typeName(c.Type)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s/config=%#x,config1=%#x,config2=%#x/", pmu, c.Config, c.Config1, c.Config2)
	if m := c.modifiers(); m != "" {
		b.WriteByte(':')
		b.WriteString(m)
	}
	return b.String()
}

func (c HardwareConfig) modifiers() string {
	if !c.ExcludeUser && !c.ExcludeKernel && !c.ExcludeHV {
		return ""
	}
	var m string
	if !c.ExcludeUser {
		m += "u"
	}
	if !c.ExcludeKernel {
		m += "k"
	}
	if !c.ExcludeHV {
		m += "h"
	}
	return m
}

func typeName(t uint32) string {
	switch t {
	case TypeHardware:
		return "hardware"
	case TypeSoftware:
		return "software"
	case TypeTracepoint:
		return "tracepoint"
	case TypeHWCache:
		return "hw_cache"
	case TypeRaw:
		return "cpu"
	case TypeBreakpoint:
		return "breakpoint"
	}
	return "???"
}
