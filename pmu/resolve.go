package pmu

import (
	"errors"
	"strings"
)

// Resolver maps a resolution string to a hardware configuration.
type Resolver interface {
	Resolve(spec string) (HardwareConfig, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(spec string) (HardwareConfig, error)

func (f ResolverFunc) Resolve(spec string) (HardwareConfig, error) { return f(spec) }

// FirstOf tries each resolver in order and returns the first success. When
// every resolver fails, the most informative error is returned: the first
// one that is not a plain unknown-event miss, else the last.
type FirstOf []Resolver

func (rs FirstOf) Resolve(spec string) (HardwareConfig, error) {
	var last, informative error
	for _, r := range rs {
		if r == nil {
			continue
		}
		cfg, err := r.Resolve(spec)
		if err == nil {
			return cfg, nil
		}
		last = err
		var re *ResolveError
		if informative == nil && (!errors.As(err, &re) || re.Kind != ErrKindUnknownEvent) {
			informative = err
		}
	}
	switch {
	case informative != nil:
		return HardwareConfig{}, informative
	case last != nil:
		return HardwareConfig{}, last
	}
	return HardwareConfig{}, &ResolveError{Spec: spec, Kind: ErrKindNoEventTable}
}

// EventResolver resolves events the way the event manager needs: the event
// string is first tried as a literal encoding (pmu/terms/ or rNNNN) when it
// looks like one, and anything that fails there falls through to the
// symbolic lookup of the same string.
type EventResolver struct {
	Literal  Resolver
	Symbolic Resolver
}

// Resolve resolves e.
func (r EventResolver) Resolve(e Event) (HardwareConfig, error) {
	spec := e.EventString()
	var literalErr error
	if r.Literal != nil && looksLiteral(spec) {
		cfg, err := r.Literal.Resolve(spec)
		if err == nil {
			return cfg, nil
		}
		literalErr = err
	}
	if r.Symbolic == nil {
		if literalErr != nil {
			return HardwareConfig{}, literalErr
		}
		return HardwareConfig{}, &ResolveError{
			Spec:   spec,
			Kind:   ErrKindNoEventTable,
			Detail: "no symbolic event source configured",
		}
	}
	cfg, err := r.Symbolic.Resolve(spec)
	if err != nil && literalErr != nil {
		// a plain table miss says less than why the literal was rejected
		var re *ResolveError
		if errors.As(err, &re) && re.Kind == ErrKindUnknownEvent {
			return HardwareConfig{}, literalErr
		}
	}
	return cfg, err
}

// looksLiteral reports whether spec can be a literal encoding: a pmu/terms/
// group or a raw rNNNN code, with optional modifiers.
func looksLiteral(spec string) bool {
	spec = strings.TrimSpace(spec)
	if strings.Contains(spec, "/") {
		return true
	}
	body, _, err := splitModifiers(spec)
	return err == nil && isRawCode(body)
}

// splitModifiers separates a trailing :ukh modifier list from spec.
func splitModifiers(spec string) (string, string, error) {
	colon := strings.LastIndexByte(spec, ':')
	if colon < 0 || colon < strings.LastIndexByte(spec, '/') {
		return spec, "", nil
	}
	mods := spec[colon+1:]
	if mods == "" || strings.Trim(mods, "ukh") != "" {
		return "", "", resolveErrorf(spec, ErrKindSyntax, "invalid modifier %q", mods)
	}
	return spec[:colon], mods, nil
}

// applyModifiers sets the exclude bits the way perf does: naming any
// privilege level excludes the ones not named.
func applyModifiers(cfg *HardwareConfig, mods string) {
	if mods == "" {
		return
	}
	cfg.ExcludeUser = !strings.ContainsRune(mods, 'u')
	cfg.ExcludeKernel = !strings.ContainsRune(mods, 'k')
	cfg.ExcludeHV = !strings.ContainsRune(mods, 'h')
}
