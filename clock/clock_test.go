package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"portable", KindPortable, false},
		{"TSC", KindTSC, false},
		{"rdtsc", KindTSC, false},
		{" tsc ", KindTSC, false},
		{"", Default(), false},
		{"hpet", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPortable_Monotonic(t *testing.T) {
	c := NewPortable()
	assert.Equal(t, "portable", c.Name())

	a := c.Now()
	time.Sleep(2 * time.Millisecond)
	b := c.Now()
	require.Greater(t, b, a)

	d := b - a
	assert.Equal(t, d, c.ToNanos(d))
	assert.GreaterOrEqual(t, c.ToNanos(d), uint64(2*time.Millisecond))
}

func TestNew_Portable(t *testing.T) {
	c, err := New(KindPortable, CalibrationOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Portable{}, c)

	_, err = New("bogus", CalibrationOptions{})
	assert.Error(t, err)
}

func TestDetermine_PrefersHardware(t *testing.T) {
	hw := func() (uint64, string, bool) { return 2_400_000_000, "test hw", true }
	ticks := func() uint64 { t.Fatal("calibration must not run"); return 0 }

	cal, err := determine(CalibrationOptions{}, hw, ticks)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_400_000_000), cal.Hz)
	assert.Equal(t, "test hw", cal.Source)
}

func TestDetermine_ForceCalibrates(t *testing.T) {
	hw := func() (uint64, string, bool) { return 2_400_000_000, "test hw", true }
	p := NewPortable()

	cal, err := determine(CalibrationOptions{Force: true, Window: 5 * time.Millisecond}, hw, p.Now)
	require.NoError(t, err)
	assert.Equal(t, sourceCalibrated, cal.Source)
	// Portable ticks are nanoseconds, so the calibrated rate is about 1 GHz.
	assert.InDelta(t, 1e9, float64(cal.Hz), 0.2e9)
}

func TestDetermine_HardwareUnavailable(t *testing.T) {
	hw := func() (uint64, string, bool) { return 0, "", false }
	p := NewPortable()

	cal, err := determine(CalibrationOptions{Window: time.Millisecond}, hw, p.Now)
	require.NoError(t, err)
	assert.Equal(t, sourceCalibrated, cal.Source)
	assert.NotZero(t, cal.Hz)
}

func TestCalibrate_StuckCounter(t *testing.T) {
	_, err := calibrate(time.Millisecond, func() uint64 { return 42 })
	assert.ErrorIs(t, err, ErrCalibrationFailed)
}

func TestFrequency_Cached(t *testing.T) {
	if !Supported() {
		_, err := Frequency(CalibrationOptions{})
		assert.ErrorIs(t, err, ErrUnsupported)
		return
	}
	resetCalibrationCache()
	defer resetCalibrationCache()

	opts := CalibrationOptions{Force: true, Window: 5 * time.Millisecond}
	a, err := Frequency(opts)
	require.NoError(t, err)
	b, err := Frequency(opts)
	require.NoError(t, err)
	assert.Equal(t, a, b, "second call must return the cached calibration")
}

func TestTSC(t *testing.T) {
	if !Supported() {
		_, err := NewTSC(CalibrationOptions{})
		assert.ErrorIs(t, err, ErrUnsupported)
		return
	}
	resetCalibrationCache()
	defer resetCalibrationCache()

	c, err := NewTSC(CalibrationOptions{Force: true, Window: 5 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, "tsc", c.Name())

	a := c.Now()
	time.Sleep(5 * time.Millisecond)
	b := c.Now()
	require.Greater(t, b, a)

	ns := c.ToNanos(b - a)
	assert.Greater(t, ns, uint64(2*time.Millisecond))
	assert.Less(t, ns, uint64(time.Second))
}
