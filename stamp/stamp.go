package stamp

import "github.com/wesleyorama2/perfstamp/pmu"

// Stamp is a snapshot of the clock and every counter slot.
type Stamp struct {
	// TSC is the clock instant taken after the counters were read, and
	// TSCBefore the one taken before.
	TSC       uint64
	TSCBefore uint64

	Counters Counts

	// Secondary holds the MSR values read for this stamp, the first
	// SecondaryRead of which are valid.
	Secondary     [MaxSecondary]uint64
	SecondaryRead int

	config *Config
}

// Config returns the config that took s, or nil for the zero Stamp.
func (s Stamp) Config() *Config { return s.config }

// Delta is the difference of two Stamps of one Config. The zero Delta is the
// empty delta: it carries no values and is the identity of Min and Max.
type Delta struct {
	config   *Config
	tsc      uint64
	counters Counts
}

// IsEmpty reports whether d is the empty delta.
func (d Delta) IsEmpty() bool { return d.config == nil }

// Config returns the config the delta was taken with.
func (d Delta) Config() *Config { return d.config }

// TSC returns the elapsed clock ticks. It panics on the empty delta.
func (d Delta) TSC() uint64 {
	if d.IsEmpty() {
		panic("stamp: TSC of an empty delta")
	}
	return d.tsc
}

// Nanos returns the elapsed time in nanoseconds.
func (d Delta) Nanos() uint64 {
	return d.config.clock.ToNanos(d.TSC())
}

// Counters returns the per-slot counter deltas.
func (d Delta) Counters() Counts { return d.counters }

// Counter returns the delta of event e. A registered event that could not be
// programmed reports Unavailable. An event never registered on the config
// fails with *pmu.NonExistentCounterError. pmu.NanosEvent reports Nanos.
func (d Delta) Counter(e pmu.Event) (uint64, error) {
	if d.IsEmpty() {
		panic("stamp: Counter of an empty delta")
	}
	if e.Equal(pmu.NanosEvent) {
		return d.Nanos(), nil
	}
	slot, err := d.config.events.Mapping(e)
	if err != nil {
		return 0, err
	}
	if slot < 0 {
		return Unavailable, nil
	}
	return d.counters[slot], nil
}

// Apply combines a and b element-wise with f. If either is empty the other
// is returned unchanged. It panics if a and b come from different configs.
func Apply(a, b Delta, f func(x, y uint64) uint64) Delta {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	if a.config != b.config {
		panic("stamp: combining deltas of different configs")
	}
	return Delta{
		config:   a.config,
		tsc:      f(a.tsc, b.tsc),
		counters: a.counters.Apply(b.counters, f),
	}
}

// Min returns the element-wise minimum of a and b.
func Min(a, b Delta) Delta {
	return Apply(a, b, func(x, y uint64) uint64 { return min(x, y) })
}

// Max returns the element-wise maximum of a and b.
func Max(a, b Delta) Delta {
	return Apply(a, b, func(x, y uint64) uint64 { return max(x, y) })
}
