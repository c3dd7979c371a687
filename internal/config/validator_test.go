package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "with field",
			err:      ValidationError{Field: "sizes.step", Message: "must be greater than 1"},
			expected: "validation error on field 'sizes.step': must be greater than 1",
		},
		{
			name:     "without field",
			err:      ValidationError{Message: "additionalProperties 'x' not allowed"},
			expected: "validation error: additionalProperties 'x' not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := &ValidationErrors{}
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("trialSize", "must be positive")
	assert.Equal(t, "validation error on field 'trialSize': must be positive", errs.Error())

	errs.Add("minIters", "must be positive")
	msg := errs.Error()
	assert.True(t, strings.HasPrefix(msg, "2 validation errors:\n"))
	assert.Contains(t, msg, "  2. validation error on field 'minIters'")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &RunConfig{TrialSize: 5, Sizes: SizeConfig{Step: 2}}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultWarmup, time.Duration(cfg.Warmup))
	assert.Equal(t, int64(5), cfg.TrialSize, "set values are kept")
	assert.Equal(t, int64(DefaultMinIters), cfg.MinIters)
	assert.Equal(t, int64(DefaultMinSize), cfg.Sizes.Min)
	assert.Equal(t, int64(DefaultMaxSize), cfg.Sizes.Max)
	assert.Equal(t, 2.0, cfg.Sizes.Step)
	assert.Equal(t, TrialConfig{Warmup: 10, Measured: 17}, cfg.Trials)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Empty(t, cfg.Clock, "the clock package picks the backend")

	require.NoError(t, cfg.Validate())
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *RunConfig)
		field  string
	}{
		{"unknown clock", func(c *RunConfig) { c.Clock = "hpet" }, "clock"},
		{"negative warmup", func(c *RunConfig) { c.Warmup = Duration(-time.Second) }, "warmup"},
		{"max below min", func(c *RunConfig) { c.Sizes.Min, c.Sizes.Max = 1000, 10 }, "sizes.max"},
		{"step not growing", func(c *RunConfig) { c.Sizes.Step = 1 }, "sizes.step"},
		{"negative trial size", func(c *RunConfig) { c.TrialSize = -1 }, "trialSize"},
		{"negative iters", func(c *RunConfig) { c.MinIters = -1 }, "minIters"},
		{"negative measured", func(c *RunConfig) { c.Trials.Measured = -1 }, "trials.measured"},
		{"empty algo", func(c *RunConfig) { c.Algos = []string{"fill0", " "} }, "algos[1]"},
		{"empty perf column", func(c *RunConfig) { c.PerfCols = []string{""} }, "perfCols[0]"},
		{"bad extra event", func(c *RunConfig) { c.PerfExtra = []string{"cpu/event=0x3c"} }, "perfExtra[0]"},
		{"two extra events in one entry", func(c *RunConfig) { c.PerfExtra = []string{"a,b"} }, "perfExtra[0]"},
		{"too many msrs", func(c *RunConfig) { c.MSRs = []string{"0xe7", "0xe8"} }, "msrs"},
		{"bad msr", func(c *RunConfig) { c.MSRs = []string{"aperf"} }, "msrs[0]"},
		{"bad format", func(c *RunConfig) { c.Output.Format = "html" }, "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs *ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs.Errors[0].Field)
		})
	}
}

func TestValidate_FixedSizeSkipsRange(t *testing.T) {
	cfg := Default()
	cfg.Sizes = SizeConfig{Fixed: 4096}
	assert.NoError(t, cfg.Validate())

	lo, hi := cfg.Sizes.Bounds()
	assert.Equal(t, int64(4096), lo)
	assert.Equal(t, int64(4096), hi)
}

func TestParseMSR(t *testing.T) {
	id, err := ParseMSR("0xE8")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xe8), id)

	id, err = ParseMSR(" 16 ")
	require.NoError(t, err)
	assert.Equal(t, uint32(16), id)

	_, err = ParseMSR("0x1ffffffff")
	assert.Error(t, err)
}
