package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleTable() *Table {
	t := NewTable(
		Column{Heading: "Size", Justify: Right},
		Column{Heading: "Algo", Justify: Left},
		Column{Heading: "GB/s", Justify: Right},
		Column{Heading: "uncR", Justify: Right},
	)
	t.Name = "sample"
	t.AddInfo("min buffer size", "%d", 100)
	t.AddRow(IntCell(100), TextCell("fill0"), FloatCell("%.1f", 12.345), FloatCell("%.2f", 0.5))
	t.AddRow(IntCell(133), TextCell("memcpy"), FloatCell("%.1f", 9), FailCell())
	return t
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"junit", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.False(t, FormatTable.MachineReadable())
	assert.True(t, FormatCSV.MachineReadable())
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GetFormatter(FormatTable, true).Format(&buf, sampleTable()))

	want := "Size | Algo   | GB/s | uncR\n" +
		" 100 | fill0  | 12.3 | 0.50\n" +
		" 133 | memcpy |  9.0 | FAIL\n"
	assert.Equal(t, want, buf.String())
}

func TestTextFormatter_ColoredFail(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{Colors: SchemeFor(false)}
	require.NoError(t, f.Format(&buf, sampleTable()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "\x1b[")
	assert.NotContains(t, lines[1], "\x1b[", "only failed cells are colored in rows")
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GetFormatter(FormatCSV, false).Format(&buf, sampleTable()))

	want := "Size,Algo,GB/s,uncR\n" +
		"100,fill0,12.3,0.50\n" +
		"133,memcpy,9.0,FAIL\n"
	assert.Equal(t, want, buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GetFormatter(FormatJSON, false).Format(&buf, sampleTable()))

	var got ReportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "sample", got.Name)
	assert.Equal(t, []string{"Size", "Algo", "GB/s", "uncR"}, got.Columns)
	assert.Equal(t, []Info{{Key: "min buffer size", Value: "100"}}, got.Info)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []interface{}{100.0, "fill0", 12.345, 0.5}, got.Rows[0])
	assert.Equal(t, "FAIL", got.Rows[1][3])
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GetFormatter(FormatYAML, false).Format(&buf, sampleTable()))

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "sample", got["name"])
	rows, ok := got["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{100, "fill0", 12.345, 0.5}, rows[0])
}

func TestTable_AddRowMismatchPanics(t *testing.T) {
	tbl := NewTable(Column{Heading: "Size"})
	assert.Panics(t, func() { tbl.AddRow(IntCell(1), IntCell(2)) })
}

func TestWriteInfo(t *testing.T) {
	var buf bytes.Buffer
	info := []Info{{Key: "tsc_freq", Value: "3000.0 MHz"}, {Key: "step ratio", Value: "1.33"}}
	require.NoError(t, WriteInfo(&buf, info, nil))
	assert.Equal(t, "tsc_freq   : 3000.0 MHz\nstep ratio : 1.33\n", buf.String())
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, ColorEnabled(&buf, true))

	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "1")
	assert.True(t, ColorEnabled(&buf, false))

	t.Setenv("FORCE_COLOR", "")
	assert.False(t, ColorEnabled(&buf, false), "a buffer is not a terminal")
	assert.False(t, IsTerminal(&buf))
}
