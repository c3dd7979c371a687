package clock

import (
	"errors"
	"fmt"
	"strings"
)

// Clock produces monotonic instants and converts instant differences to
// nanoseconds. Instants are opaque: only differences between two instants of
// the same Clock are meaningful.
type Clock interface {
	// Name identifies the backend in diagnostics ("portable", "tsc").
	Name() string

	// Now returns the current instant.
	Now() uint64

	// ToNanos converts the difference of two instants to nanoseconds.
	ToNanos(delta uint64) uint64
}

// Kind selects a Clock backend.
type Kind string

const (
	// KindPortable selects the runtime monotonic clock.
	KindPortable Kind = "portable"

	// KindTSC selects the processor timestamp counter.
	KindTSC Kind = "tsc"
)

var (
	// ErrUnsupported is returned when the timestamp counter cannot be read
	// directly on this architecture.
	ErrUnsupported = errors.New("clock: timestamp counter not supported on this architecture")

	// ErrCalibrationFailed is returned when neither the hardware nor the
	// calibration loop yields a usable counter frequency.
	ErrCalibrationFailed = errors.New("clock: unable to determine timestamp counter frequency")
)

// Supported reports whether the TSC backend is available.
func Supported() bool {
	return tscSupported
}

// Default returns the preferred backend for this architecture.
func Default() Kind {
	if tscSupported {
		return KindTSC
	}
	return KindPortable
}

// ParseKind parses a backend name. The empty string selects [Default].
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return Default(), nil
	case KindPortable:
		return KindPortable, nil
	case KindTSC, "rdtsc":
		return KindTSC, nil
	}
	return "", fmt.Errorf("unknown clock %q, must be one of: %s, %s", s, KindPortable, KindTSC)
}

// New creates a Clock of the given kind. opts only matter for [KindTSC].
func New(kind Kind, opts CalibrationOptions) (Clock, error) {
	switch kind {
	case KindPortable:
		return NewPortable(), nil
	case KindTSC:
		return NewTSC(opts)
	}
	return nil, fmt.Errorf("unknown clock kind %q", kind)
}
