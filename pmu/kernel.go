package pmu

// Attr is what Kernel.Open needs to program one counter. Every counter is
// opened with the TOTAL_TIME_ENABLED and TOTAL_TIME_RUNNING read format.
type Attr struct {
	HardwareConfig

	// Pinned keeps the counter on the PMU and fails fast when it cannot be
	// scheduled.
	Pinned bool
}

// Scope values for Kernel.Open.
const (
	// AnyCPU follows the calling thread on whatever CPU it runs.
	AnyCPU = -1

	// CurrentProcess counts the calling thread.
	CurrentProcess = 0

	// AnyProcess counts everything on the given CPU.
	AnyProcess = -1
)

// Kernel is the OS surface used to program and read counters.
type Kernel interface {
	// Open programs a counter and returns its descriptor.
	Open(attr Attr, pid, cpu int) (int, error)

	// MapControlPage maps the counter's control page read-only.
	MapControlPage(fd int) (*ControlPage, error)

	// UnmapControlPage releases a page returned by MapControlPage.
	UnmapControlPage(page *ControlPage) error

	// Read reads raw bytes from the counter.
	Read(fd int, p []byte) (int, error)

	// Close releases the counter.
	Close(fd int) error

	// CurrentCPU returns the CPU the calling thread runs on.
	CurrentCPU() (int, error)
}
