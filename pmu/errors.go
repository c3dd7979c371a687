package pmu

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPrepared is returned when a slot is queried before Prepare
	// programmed it.
	ErrNotPrepared = errors.New("pmu: event manager not prepared")

	// ErrUnsupported is returned by the kernel interface on platforms
	// without perf_event_open.
	ErrUnsupported = errors.New("pmu: performance counters not supported on this platform")
)

// ResolveErrorKind classifies resolution failures.
type ResolveErrorKind int

const (
	ErrKindSyntax ResolveErrorKind = iota + 1
	ErrKindUnknownEvent
	ErrKindNoEventTable
	ErrKindUnknownPMU
)

func (k ResolveErrorKind) String() string {
	switch k {
	case ErrKindSyntax:
		return "syntax error"
	case ErrKindUnknownEvent:
		return "unknown event"
	case ErrKindNoEventTable:
		return "no event table"
	case ErrKindUnknownPMU:
		return "unknown pmu"
	}
	return fmt.Sprintf("error %d", int(k))
}

// ResolveError reports why a resolution string could not be mapped to a
// hardware configuration.
type ResolveError struct {
	Spec   string
	Kind   ResolveErrorKind
	Detail string
}

func (e *ResolveError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("resolve %q: %s", e.Spec, e.Kind)
	}
	return fmt.Sprintf("resolve %q: %s: %s", e.Spec, e.Kind, e.Detail)
}

func resolveErrorf(spec string, kind ResolveErrorKind, format string, args ...interface{}) *ResolveError {
	return &ResolveError{Spec: spec, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// NonExistentCounterError is returned when looking up an event that was
// never registered.
type NonExistentCounterError struct {
	Event Event
}

func (e *NonExistentCounterError) Error() string {
	return fmt.Sprintf("pmu: event %q was never registered", e.Event.Name)
}
