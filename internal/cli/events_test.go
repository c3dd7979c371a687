package cli

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/perfstamp/internal/output"
	"github.com/wesleyorama2/perfstamp/pmu"
)

func rowTexts(tbl *output.Table) [][]string {
	out := make([][]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		for _, c := range row {
			out[i] = append(out[i], c.Text)
		}
	}
	return out
}

func TestNamesTable(t *testing.T) {
	fsys := fstest.MapFS{
		"bus/event_source/devices/cpu/type":               {Data: []byte("4\n")},
		"bus/event_source/devices/cpu/events/cycles":      {Data: []byte("event=0x3c\n")},
		"bus/event_source/devices/cpu/events/cycles.unit": {Data: []byte("events\n")},
	}
	tbl := namesTable(pmu.NewLiteralResolver(fsys), nil)
	assert.Equal(t, []string{"Source", "Event"}, tbl.Headings())

	rows := rowTexts(tbl)
	assert.Contains(t, rows, []string{"sysfs", "cpu/cycles/"})
	assert.NotContains(t, rows, []string{"sysfs", "cpu/cycles.unit/"})
	for _, r := range rows {
		assert.NotEqual(t, "table", r[0])
	}
}

func TestResolveTable(t *testing.T) {
	r := pmu.EventResolver{Symbolic: pmu.ResolverFunc(func(s string) (pmu.HardwareConfig, error) {
		if s == "instructions" {
			return pmu.HardwareConfig{Type: pmu.TypeHardware, Config: 1, Decoded: "instructions"}, nil
		}
		return pmu.HardwareConfig{}, errors.New("unknown event " + s)
	})}

	tbl := resolveTable(r, []pmu.Event{pmu.NewEvent("instructions"), pmu.NewEvent("bogus")})
	require.Len(t, tbl.Rows, 2)

	ok := tbl.Rows[0]
	assert.Equal(t, "instructions", ok[0].Text)
	assert.Equal(t, pmu.HardwareConfig{Type: pmu.TypeHardware, Config: 1}.String(), ok[1].Text)
	assert.False(t, ok[1].Fail)
	assert.Equal(t, "instructions", ok[2].Text)

	bad := tbl.Rows[1]
	assert.Equal(t, "bogus", bad[0].Text)
	assert.True(t, bad[1].Fail)
	assert.Equal(t, "unknown event bogus", bad[1].Text)
}

func TestEventsCommand_BadFormat(t *testing.T) {
	_, err := executeRoot(t, "events", "--format", "xml")
	assert.EqualError(t, err, `unknown output format "xml"`)
}
