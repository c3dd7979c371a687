package clock

import "fmt"

// TSC is a Clock reading the processor timestamp counter directly.
type TSC struct {
	cal          Calibration
	nanosPerTick float64
}

// NewTSC creates a TSC clock, determining the counter frequency on first use
// in the process (see [Frequency]).
func NewTSC(opts CalibrationOptions) (*TSC, error) {
	if !tscSupported {
		return nil, ErrUnsupported
	}
	cal, err := Frequency(opts)
	if err != nil {
		return nil, err
	}
	return &TSC{
		cal:          cal,
		nanosPerTick: 1e9 / float64(cal.Hz),
	}, nil
}

// Name implements Clock.
func (t *TSC) Name() string { return string(KindTSC) }

// Now implements Clock. The read is bracketed by serializing fences.
func (t *TSC) Now() uint64 {
	return readCounterFenced()
}

// ToNanos implements Clock.
func (t *TSC) ToNanos(delta uint64) uint64 {
	return uint64(float64(delta) * t.nanosPerTick)
}

// Calibration returns the frequency this clock converts with.
func (t *TSC) Calibration() Calibration {
	return t.cal
}

// String describes the clock for diagnostics.
func (t *TSC) String() string {
	return fmt.Sprintf("tsc %.3f MHz (%s)", float64(t.cal.Hz)/1e6, t.cal.Source)
}
