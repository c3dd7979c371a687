package pmu

import (
	"fmt"
	"strings"
)

// Event identifies a countable event by display name and resolution string.
// Equality and ordering consider the name only.
type Event struct {
	// Name is the display name, used as the lookup key.
	Name string

	// Spec is the string handed to the resolver. When empty the name is
	// resolved instead.
	Spec string
}

var (
	// NoEvent is the empty event. Registering it is a no-op.
	NoEvent = Event{}

	// NanosEvent is the elapsed-time pseudo-event. It is never programmed
	// as a hardware counter.
	NanosEvent = Event{Name: "nanos"}
)

// NewEvent returns an event resolved by its own name.
func NewEvent(name string) Event {
	return Event{Name: name}
}

// NewEventSpec returns an event displayed as name and resolved from spec.
func NewEventSpec(name, spec string) Event {
	return Event{Name: name, Spec: spec}
}

// EventString returns the string the resolver sees.
func (e Event) EventString() string {
	if e.Spec != "" {
		return e.Spec
	}
	return e.Name
}

// HasSpec reports whether the event carries an explicit resolution string.
func (e Event) HasSpec() bool {
	return e.Spec != ""
}

// IsPseudo reports whether e is NoEvent or NanosEvent.
func (e Event) IsPseudo() bool {
	return e.Name == NoEvent.Name || e.Name == NanosEvent.Name
}

func (e Event) Equal(o Event) bool { return e.Name == o.Name }

func (e Event) Less(o Event) bool { return e.Name < o.Name }

func (e Event) String() string {
	if e.Spec == "" || e.Spec == e.Name {
		return e.Name
	}
	return fmt.Sprintf("%s (%s)", e.Name, e.Spec)
}

// ParseEventList parses a comma separated list of events. Each item is either
// a bare name or spec, or name=spec. Commas and equal signs inside a
// pmu/.../ group belong to the spec:
//
//	instructions,uncR=uncore_imc/event=0x04,umask=0x03/,cpu/event=0x3c/
func ParseEventList(s string) ([]Event, error) {
	items, err := splitOutsideGroups(s)
	if err != nil {
		return nil, err
	}

	var out []Event
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		eq := strings.IndexByte(item, '=')
		slash := strings.IndexByte(item, '/')
		if eq < 0 || (slash >= 0 && slash < eq) {
			out = append(out, NewEvent(item))
			continue
		}
		name, spec := strings.TrimSpace(item[:eq]), strings.TrimSpace(item[eq+1:])
		if name == "" || spec == "" {
			return nil, fmt.Errorf("invalid event %q: expected name=spec", item)
		}
		out = append(out, NewEventSpec(name, spec))
	}
	return out, nil
}

func splitOutsideGroups(s string) ([]string, error) {
	var (
		items   []string
		inGroup bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '/':
			inGroup = !inGroup
		case ',':
			if !inGroup {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	if inGroup {
		return nil, fmt.Errorf("unterminated pmu group in %q", s)
	}
	return append(items, s[start:]), nil
}
