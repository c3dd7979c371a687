package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wesleyorama2/perfstamp/clock"
	"github.com/wesleyorama2/perfstamp/pmu"
	"github.com/wesleyorama2/perfstamp/stamp"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Formats lists the accepted output formats.
var Formats = []string{"table", "csv", "json", "yaml"}

// Validate validates the run configuration. Call ApplyDefaults first.
//
// Returns nil if valid, or a *ValidationErrors containing all problems.
// Workload and perf column names are checked by the benchmark harness,
// which owns those tables.
func (c *RunConfig) Validate() error {
	errs := &ValidationErrors{}

	if _, err := clock.ParseKind(c.Clock); err != nil {
		errs.Add("clock", err.Error())
	}
	if c.Warmup < 0 {
		errs.Add("warmup", "must not be negative")
	}

	validateSizes(&c.Sizes, errs)

	if c.TrialSize <= 0 {
		errs.Add("trialSize", "must be positive")
	}
	if c.MinIters <= 0 {
		errs.Add("minIters", "must be positive")
	}
	if c.Trials.Warmup <= 0 {
		errs.Add("trials.warmup", "must be positive")
	}
	if c.Trials.Measured <= 0 {
		errs.Add("trials.measured", "must be positive")
	}

	for i, name := range c.Algos {
		if strings.TrimSpace(name) == "" {
			errs.Add(fmt.Sprintf("algos[%d]", i), "empty name")
		}
	}
	for i, name := range c.PerfCols {
		if strings.TrimSpace(name) == "" {
			errs.Add(fmt.Sprintf("perfCols[%d]", i), "empty name")
		}
	}
	for i, spec := range c.PerfExtra {
		if _, err := parseExtraEvent(spec); err != nil {
			errs.Add(fmt.Sprintf("perfExtra[%d]", i), err.Error())
		}
	}

	if len(c.MSRs) > stamp.MaxSecondary {
		errs.Add("msrs", fmt.Sprintf("at most %d MSRs are supported, got %d", stamp.MaxSecondary, len(c.MSRs)))
	}
	for i, s := range c.MSRs {
		if _, err := ParseMSR(s); err != nil {
			errs.Add(fmt.Sprintf("msrs[%d]", i), err.Error())
		}
	}

	if !isFormat(c.Output.Format) {
		errs.Add("output.format", fmt.Sprintf("invalid format '%s', must be one of: %s", c.Output.Format, strings.Join(Formats, ", ")))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateSizes(s *SizeConfig, errs *ValidationErrors) {
	if s.Fixed < 0 {
		errs.Add("sizes.size", "must not be negative")
	}
	if s.Fixed > 0 {
		return
	}
	if s.Min <= 0 {
		errs.Add("sizes.min", "must be positive")
	}
	if s.Max < s.Min {
		errs.Add("sizes.max", fmt.Sprintf("must be at least sizes.min (%d)", s.Min))
	}
	if s.Step <= 1 {
		errs.Add("sizes.step", "must be greater than 1")
	}
}

func isFormat(f string) bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// ExtraEvents parses PerfExtra into events.
func (c *RunConfig) ExtraEvents() ([]pmu.Event, error) {
	var out []pmu.Event
	for _, spec := range c.PerfExtra {
		e, err := parseExtraEvent(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func parseExtraEvent(spec string) (pmu.Event, error) {
	events, err := pmu.ParseEventList(spec)
	if err != nil {
		return pmu.NoEvent, err
	}
	if len(events) != 1 {
		return pmu.NoEvent, fmt.Errorf("expected one event in %q, got %d", spec, len(events))
	}
	return events[0], nil
}

// MSRIDs parses MSRs into register addresses.
func (c *RunConfig) MSRIDs() ([]uint32, error) {
	var out []uint32
	for _, s := range c.MSRs {
		id, err := ParseMSR(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// ParseMSR parses a register address in decimal or 0x-prefixed hex.
func ParseMSR(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid MSR address %q", s)
	}
	return uint32(v), nil
}
