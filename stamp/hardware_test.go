package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/perfstamp/pmu"
)

var sink uint64

//go:noinline
func spin(n int) {
	var x uint64
	for i := 0; i < n; i++ {
		x += uint64(i) ^ x>>3
	}
	sink = x
}

// measureInstructions counts instructions retired by spin(n) and spin(2n) on
// the host PMU, skipping when counters cannot be programmed here. It also
// returns the mode the counter was programmed in.
func measureInstructions(t *testing.T) (uint64, uint64, pmu.Mode) {
	t.Helper()
	cfg := NewConfig(ConfigOptions{})
	ev := pmu.NewEvent("instructions")
	require.True(t, cfg.AddEvent(ev))

	ok, err := cfg.Prepare()
	require.NoError(t, err)
	defer cfg.Close()
	if !ok[0] {
		t.Skip("instructions counter not available on this machine")
	}
	mode := cfg.Manager().Contexts()[0].Mode()

	run := func(n int) (Delta, uint64) {
		before := cfg.Stamp()
		spin(n)
		d := cfg.Delta(before, cfg.Stamp())
		v, err := d.Counter(ev)
		require.NoError(t, err)
		return d, v
	}

	const n = 1_000_000
	d1, small := run(n)
	d2, large := run(2 * n)

	assert.Greater(t, d1.TSC(), uint64(0))
	assert.Greater(t, d2.TSC(), uint64(0))
	assert.Greater(t, small, uint64(0))
	return small, large, mode
}

func TestHardware_InstructionsScaleWithWork(t *testing.T) {
	if testing.Short() {
		t.Skip("hardware test")
	}
	small, large, _ := measureInstructions(t)
	assert.GreaterOrEqual(t, large, small)
}

func TestHardware_SyscallFallbackIsSubstitutable(t *testing.T) {
	if testing.Short() {
		t.Skip("hardware test")
	}
	t.Setenv(pmu.NoRDPMCEnv, "1")
	small, large, mode := measureInstructions(t)
	assert.Equal(t, pmu.ModeSyscallRead, mode, "the fast path is disabled")
	assert.GreaterOrEqual(t, large, small)
}
