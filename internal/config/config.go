// Package config provides run configuration parsing and validation for the
// fill-bandwidth benchmark.
package config

import (
	"time"
)

// RunConfig is the root configuration for a benchmark run.
//
// Example YAML:
//
//	name: "store elimination"
//	clock: tsc
//	warmup: 100ms
//	sizes:
//	  min: 100
//	  max: 100000000
//	  step: 1.333
//	algos: [fill0, fill1]
//	perfCols: [instructions, uncR]
//	perfExtra: ["l1d=L1D.REPLACEMENT"]
//	output:
//	  format: csv
type RunConfig struct {
	// Name of the run (for reporting)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Clock selects the timestamp backend: "tsc" or "portable"
	Clock string `json:"clock,omitempty" yaml:"clock,omitempty"`

	// ForceCalibrate skips the hardware-reported TSC frequency
	ForceCalibrate bool `json:"forceCalibrate,omitempty" yaml:"forceCalibrate,omitempty"`

	// Warmup is the busy-wait before each spec
	Warmup Duration `json:"warmup,omitempty" yaml:"warmup,omitempty"`

	// NoRDPMC disables the user-space counter read path
	NoRDPMC bool `json:"noRdpmc,omitempty" yaml:"noRdpmc,omitempty"`

	// EventTable is a perfmon JSON event file used for symbolic names
	EventTable string `json:"eventTable,omitempty" yaml:"eventTable,omitempty"`

	// NoPin disables pinning the measuring thread to a CPU
	NoPin bool `json:"noPin,omitempty" yaml:"noPin,omitempty"`

	// Sizes controls the buffer size sweep
	Sizes SizeConfig `json:"sizes,omitempty" yaml:"sizes,omitempty"`

	// TrialSize is the target number of bytes touched per trial
	TrialSize int64 `json:"trialSize,omitempty" yaml:"trialSize,omitempty"`

	// MinIters is the lower bound on inner iterations per trial
	MinIters int64 `json:"minIters,omitempty" yaml:"minIters,omitempty"`

	// Trials controls how many trials run per spec
	Trials TrialConfig `json:"trials,omitempty" yaml:"trials,omitempty"`

	// Algos restricts the workloads; empty means all
	Algos []string `json:"algos,omitempty" yaml:"algos,omitempty"`

	// PerfCols names predefined perf event columns
	PerfCols []string `json:"perfCols,omitempty" yaml:"perfCols,omitempty"`

	// PerfExtra are arbitrary events, each "name" or "name=spec"
	PerfExtra []string `json:"perfExtra,omitempty" yaml:"perfExtra,omitempty"`

	// MSRs are model specific register addresses, e.g. "0xe8"
	MSRs []string `json:"msrs,omitempty" yaml:"msrs,omitempty"`

	// Output controls report rendering
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`

	// Verbose enables diagnostic output
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// SizeConfig describes the geometric buffer size sweep, in bytes.
type SizeConfig struct {
	// Fixed overrides Min and Max when non-zero
	Fixed int64 `json:"size,omitempty" yaml:"size,omitempty"`

	Min  int64   `json:"min,omitempty" yaml:"min,omitempty"`
	Max  int64   `json:"max,omitempty" yaml:"max,omitempty"`
	Step float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// Bounds returns the effective minimum and maximum sizes.
func (s SizeConfig) Bounds() (int64, int64) {
	if s.Fixed > 0 {
		return s.Fixed, s.Fixed
	}
	return s.Min, s.Max
}

// TrialConfig sets the number of discarded and measured trials.
type TrialConfig struct {
	Warmup   int `json:"warmup,omitempty" yaml:"warmup,omitempty"`
	Measured int `json:"measured,omitempty" yaml:"measured,omitempty"`
}

// OutputConfig controls the report.
type OutputConfig struct {
	// Format is one of table, csv, json, yaml
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	NoColor bool   `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// Defaults applied by ApplyDefaults.
const (
	DefaultWarmup         = 100 * time.Millisecond
	DefaultTrialSize      = 100000
	DefaultMinIters       = 2
	DefaultMinSize        = 100
	DefaultMaxSize        = 100 * 1000 * 1000
	DefaultStep           = 4.0 / 3.0
	DefaultWarmupTrials   = 10
	DefaultMeasuredTrials = 17
	DefaultFormat         = "table"
)

// EventTableEnv names the environment variable holding the default event
// table path.
const EventTableEnv = "PERFSTAMP_EVENT_TABLE"

// Default returns a RunConfig with every default applied.
func Default() *RunConfig {
	c := &RunConfig{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields. Clock is left empty when unset so the
// clock package picks the best backend for the architecture.
func (c *RunConfig) ApplyDefaults() {
	if c.Warmup == 0 {
		c.Warmup = Duration(DefaultWarmup)
	}
	if c.TrialSize == 0 {
		c.TrialSize = DefaultTrialSize
	}
	if c.MinIters == 0 {
		c.MinIters = DefaultMinIters
	}
	if c.Sizes.Min == 0 {
		c.Sizes.Min = DefaultMinSize
	}
	if c.Sizes.Max == 0 {
		c.Sizes.Max = DefaultMaxSize
	}
	if c.Sizes.Step == 0 {
		c.Sizes.Step = DefaultStep
	}
	if c.Trials.Warmup == 0 {
		c.Trials.Warmup = DefaultWarmupTrials
	}
	if c.Trials.Measured == 0 {
		c.Trials.Measured = DefaultMeasuredTrials
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	if s == "" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
