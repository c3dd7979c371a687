package stamp

import "github.com/wesleyorama2/perfstamp/pmu"

// MaxCounters is the number of counter slots in a Stamp.
const MaxCounters = pmu.MaxCounters

// Unavailable is the count reported for an event that was registered but
// could not be programmed.
const Unavailable = ^uint64(0)

// Counts holds one value per counter slot.
type Counts [MaxCounters]uint64

// Sub returns c - o element-wise, wrapping on underflow.
func (c Counts) Sub(o Counts) Counts {
	var out Counts
	for i := range c {
		out[i] = c[i] - o[i]
	}
	return out
}

// Apply combines c and o element-wise with f.
func (c Counts) Apply(o Counts, f func(x, y uint64) uint64) Counts {
	var out Counts
	for i := range c {
		out[i] = f(c[i], o[i])
	}
	return out
}
