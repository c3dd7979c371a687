package pmu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `[
  {"EventName": "INST_RETIRED.ANY_P", "EventCode": "0xC0", "UMask": "0x00"},
  {"EventName": "L2_LINES_OUT.SILENT", "EventCode": "0xF2", "UMask": "0x01"},
  {"EventName": "CYCLE_ACTIVITY.STALLS_TOTAL", "EventCode": "0xA3", "UMask": "0x04", "CounterMask": "4"},
  {"EventName": "OFFCORE_RESPONSE.DEMAND_DATA_RD.ANY", "EventCode": "0xB7, 0xBB", "UMask": "0x01", "MSRIndex": "0x1a6,0x1a7", "MSRValue": "0x10001"},
  {"EventName": "UNC_M_CAS_COUNT.RD", "EventCode": "0x04", "UMask": "0x03", "Unit": "iMC"},
  {"EventName": "UNC_CHA_TOR_INSERTS.IA", "EventCode": "0x35", "UMask": "0x21", "Unit": "CHA"},
  {"EventName": "UNC_NOPE", "EventCode": "0x01", "Unit": "NOPE"}
]`

func TestTableResolver(t *testing.T) {
	r, err := NewTableResolver([]byte(testTable), testSysFS())
	require.NoError(t, err)

	tests := []struct {
		name string
		want HardwareConfig
	}{
		{
			name: "INST_RETIRED.ANY_P",
			want: HardwareConfig{Type: TypeRaw, Config: 0xc0, PMU: "cpu", Decoded: "cpu/event=0xc0,umask=0x0/"},
		},
		{
			name: "l2_lines_out.silent",
			want: HardwareConfig{Type: TypeRaw, Config: 0x1f2, PMU: "cpu", Decoded: "cpu/event=0xf2,umask=0x1/"},
		},
		{
			name: "CYCLE_ACTIVITY.STALLS_TOTAL",
			want: HardwareConfig{Type: TypeRaw, Config: 0x4_00_04a3, PMU: "cpu", Decoded: "cpu/event=0xa3,umask=0x4,cmask=0x4/"},
		},
		{
			name: "OFFCORE_RESPONSE.DEMAND_DATA_RD.ANY",
			want: HardwareConfig{
				Type: TypeRaw, Config: 0x1b7, Config1: 0x10001, PMU: "cpu",
				Decoded: "cpu/event=0xb7,umask=0x1,offcore_rsp=0x10001/",
			},
		},
		{
			name: "UNC_CHA_TOR_INSERTS.IA",
			want: HardwareConfig{Type: 20, Config: 0x2135, PMU: "uncore_cha_0", Decoded: "uncore_cha_0/event=0x35,umask=0x21/"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableResolver_Uncore(t *testing.T) {
	r, err := NewTableResolver([]byte(testTable), testSysFS())
	require.NoError(t, err)

	got, err := r.Resolve("UNC_M_CAS_COUNT.RD")
	require.NoError(t, err)
	assert.True(t, got.MultiPMU, "two imc instances exist")
	assert.Equal(t, uint64(0x304), got.Config)

	_, err = r.Resolve("UNC_NOPE")
	var re *ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrKindUnknownPMU, re.Kind)

	_, err = r.Resolve("NOT_AN_EVENT")
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrKindUnknownEvent, re.Kind)
}

func TestTableResolver_Modifiers(t *testing.T) {
	r, err := NewTableResolver([]byte(testTable), nil)
	require.NoError(t, err)

	got, err := r.Resolve("INST_RETIRED.ANY_P:k")
	require.NoError(t, err)
	assert.True(t, got.ExcludeUser)
	assert.False(t, got.ExcludeKernel)
}

func TestTableResolver_EventsObject(t *testing.T) {
	doc := `{"Header": {"Version": "1.0"}, "Events": [{"EventName": "A", "EventCode": "0x10"}]}`
	r, err := NewTableResolver([]byte(doc), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, r.Names())
}

func TestTableResolver_Invalid(t *testing.T) {
	_, err := NewTableResolver([]byte(`{"Events": `), nil)
	assert.Error(t, err)

	_, err = NewTableResolver([]byte(`{"a": 1}`), nil)
	assert.Error(t, err)
}

func TestLoadTableResolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(testTable), 0o644))

	r, err := LoadTableResolver(path, nil)
	require.NoError(t, err)
	assert.Len(t, r.Names(), 7)

	_, err = LoadTableResolver(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}
