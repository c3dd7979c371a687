package pmu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent(t *testing.T) {
	a := NewEvent("instructions")
	b := NewEventSpec("instructions", "cpu/event=0xc0/")

	assert.True(t, a.Equal(b), "equality is by name")
	assert.False(t, a.HasSpec())
	assert.True(t, b.HasSpec())
	assert.Equal(t, "instructions", a.EventString())
	assert.Equal(t, "cpu/event=0xc0/", b.EventString())
	assert.Equal(t, "instructions (cpu/event=0xc0/)", b.String())

	assert.True(t, NewEvent("a").Less(NewEvent("b")))
	assert.False(t, NewEvent("b").Less(NewEvent("a")))

	assert.True(t, NoEvent.IsPseudo())
	assert.True(t, NanosEvent.IsPseudo())
	assert.False(t, a.IsPseudo())
}

func TestParseEventList(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []Event
		wantErr bool
	}{
		{
			name: "plain names",
			in:   "instructions, cycles",
			want: []Event{NewEvent("instructions"), NewEvent("cycles")},
		},
		{
			name: "named spec with commas",
			in:   "uncR=uncore_imc/event=0x04,umask=0x03/,instructions",
			want: []Event{
				NewEventSpec("uncR", "uncore_imc/event=0x04,umask=0x03/"),
				NewEvent("instructions"),
			},
		},
		{
			name: "bare group",
			in:   "cpu/event=0x3c,umask=0x0/:u",
			want: []Event{NewEvent("cpu/event=0x3c,umask=0x0/:u")},
		},
		{
			name: "empty items skipped",
			in:   ",instructions,,",
			want: []Event{NewEvent("instructions")},
		},
		{name: "empty", in: "", want: nil},
		{name: "unterminated group", in: "cpu/event=0x3c", wantErr: true},
		{name: "missing name", in: "=instructions", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEventList(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHardwareConfig_String(t *testing.T) {
	c := HardwareConfig{Type: TypeRaw, Config: 0x1c2}
	assert.Equal(t, "cpu/config=0x1c2,config1=0x0,config2=0x0/", c.String())

	c = HardwareConfig{Type: 13, PMU: "uncore_imc_0", Config: 0x304, ExcludeKernel: true, ExcludeHV: true}
	assert.Equal(t, "uncore_imc_0/config=0x304,config1=0x0,config2=0x0/:u", c.String())
}
