package pmu

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Compile-time layout checks against the kernel's definition. A mismatch
// makes the constant negative and fails the build.
const (
	_ = -(unsafe.Offsetof(unix.PerfEventMmapPage{}.Lock) ^ unsafe.Offsetof(ControlPage{}.Lock))
	_ = -(unsafe.Offsetof(unix.PerfEventMmapPage{}.Index) ^ unsafe.Offsetof(ControlPage{}.Index))
	_ = -(unsafe.Offsetof(unix.PerfEventMmapPage{}.Offset) ^ unsafe.Offsetof(ControlPage{}.Offset))
	_ = -(unsafe.Offsetof(unix.PerfEventMmapPage{}.Time_enabled) ^ unsafe.Offsetof(ControlPage{}.TimeEnabled))
	_ = -(unsafe.Offsetof(unix.PerfEventMmapPage{}.Time_running) ^ unsafe.Offsetof(ControlPage{}.TimeRunning))
	_ = -(unsafe.Offsetof(unix.PerfEventMmapPage{}.Capabilities) ^ unsafe.Offsetof(ControlPage{}.Capabilities))
	_ = -(unsafe.Offsetof(unix.PerfEventMmapPage{}.Pmc_width) ^ unsafe.Offsetof(ControlPage{}.PmcWidth))
)
