package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/wesleyorama2/perfstamp/internal/diag"
)

// DefaultCalibrationWindow is the busy-wait duration used when the hardware
// does not report its counter frequency.
const DefaultCalibrationWindow = 100 * time.Millisecond

// CalibrationOptions controls how the counter frequency is determined.
type CalibrationOptions struct {
	// Force skips the hardware-reported frequency and always calibrates.
	Force bool

	// Window is the calibration busy-wait duration. Zero means
	// DefaultCalibrationWindow.
	Window time.Duration

	// Log receives a verbose line describing the chosen frequency.
	Log *diag.Logger
}

// Calibration is a determined counter frequency.
type Calibration struct {
	Hz     uint64
	Source string
}

func (c Calibration) String() string {
	return fmt.Sprintf("%.3f MHz (%s)", float64(c.Hz)/1e6, c.Source)
}

const sourceCalibrated = "calibrated against monotonic clock"

// One slot per value of CalibrationOptions.Force, so that a forced
// calibration is never answered with a hardware-reported value.
var calibrationCache struct {
	mu    sync.Mutex
	slots [2]*Calibration
}

// Frequency returns the timestamp counter frequency. The first successful
// result is cached for the lifetime of the process; concurrent first calls are
// serialized.
func Frequency(opts CalibrationOptions) (Calibration, error) {
	if !tscSupported {
		return Calibration{}, ErrUnsupported
	}

	slot := 0
	if opts.Force {
		slot = 1
	}

	calibrationCache.mu.Lock()
	defer calibrationCache.mu.Unlock()

	if c := calibrationCache.slots[slot]; c != nil {
		return *c, nil
	}

	cal, err := determine(opts, hardwareFrequency, readCounterFenced)
	if err != nil {
		return Calibration{}, err
	}
	opts.Log.Verbosef("tsc frequency: %s", cal)
	calibrationCache.slots[slot] = &cal
	return cal, nil
}

func determine(opts CalibrationOptions, hw func() (uint64, string, bool), ticks func() uint64) (Calibration, error) {
	if !opts.Force {
		if hz, source, ok := hw(); ok && hz != 0 {
			return Calibration{Hz: hz, Source: source}, nil
		}
	}

	window := opts.Window
	if window <= 0 {
		window = DefaultCalibrationWindow
	}
	hz, err := calibrate(window, ticks)
	if err != nil {
		return Calibration{}, err
	}
	return Calibration{Hz: hz, Source: sourceCalibrated}, nil
}

// calibrate busy-waits for window of monotonic time and divides the elapsed
// ticks by the elapsed seconds.
func calibrate(window time.Duration, ticks func() uint64) (uint64, error) {
	start := time.Now()
	t0 := ticks()
	for time.Since(start) < window {
	}
	t1 := ticks()
	elapsed := time.Since(start)

	if t1 <= t0 || elapsed <= 0 {
		return 0, ErrCalibrationFailed
	}
	hz := uint64(float64(t1-t0) / elapsed.Seconds())
	if hz == 0 {
		return 0, ErrCalibrationFailed
	}
	return hz, nil
}

func resetCalibrationCache() {
	calibrationCache.mu.Lock()
	calibrationCache.slots = [2]*Calibration{}
	calibrationCache.mu.Unlock()
}
