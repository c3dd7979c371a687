package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatTable is the default human-readable aligned table
	FormatTable OutputFormat = "table"
	// FormatCSV outputs the results as comma separated values
	FormatCSV OutputFormat = "csv"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// MachineReadable reports whether the format owns stdout, so informational
// lines must go elsewhere.
func (f OutputFormat) MachineReadable() bool {
	return f != FormatTable
}

// Formatter renders a Table.
type Formatter interface {
	Format(w io.Writer, t *Table) error
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, noColor bool) Formatter {
	switch format {
	case FormatCSV:
		return &CSVFormatter{}
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{Separator: " | ", Colors: SchemeFor(noColor)}
	}
}

// TextFormatter renders an aligned table.
type TextFormatter struct {
	Separator string
	Colors    *ColorScheme
}

// Format writes the heading row followed by every result row.
func (f *TextFormatter) Format(w io.Writer, t *Table) error {
	colors := f.Colors
	if colors == nil {
		colors = NoColorScheme()
	}
	sep := f.Separator
	if sep == "" {
		sep = " | "
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = utf8.RuneCountInString(c.Heading)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell.Text))
		}
	}

	var sb strings.Builder
	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(colors.Heading.Sprint(pad(c.Heading, widths[i], c.Justify)))
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(sep)
			}
			text := pad(cell.Text, widths[i], t.Columns[i].Justify)
			if cell.Fail {
				text = colors.Fail.Sprint(text)
			}
			sb.WriteString(text)
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func pad(s string, width int, j Justify) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if j == Right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// CSVFormatter renders the table as CSV with a heading record.
type CSVFormatter struct{}

// Format writes the table as CSV.
func (f *CSVFormatter) Format(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headings()); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row {
			record[i] = cell.Text
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportData is the structured form of a Table used by JSON and YAML output.
type ReportData struct {
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Info    []Info          `json:"info,omitempty" yaml:"info,omitempty"`
	Columns []string        `json:"columns" yaml:"columns"`
	Rows    [][]interface{} `json:"rows" yaml:"rows"`
}

// NewReportData converts a Table.
func NewReportData(t *Table) *ReportData {
	rows := make([][]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cell.value()
		}
		rows = append(rows, values)
	}
	return &ReportData{
		Name:    t.Name,
		Info:    t.Info,
		Columns: t.Headings(),
		Rows:    rows,
	}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format writes the table as a JSON document.
func (f *JSONFormatter) Format(w io.Writer, t *Table) error {
	var out []byte
	var err error
	if f.Pretty {
		out, err = json.MarshalIndent(NewReportData(t), "", "  ")
	} else {
		out, err = json.Marshal(NewReportData(t))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

// Format writes the table as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, t *Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReportData(t)); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return enc.Close()
}

// WriteInfo writes run information as aligned "key : value" lines.
func WriteInfo(w io.Writer, info []Info, colors *ColorScheme) error {
	if colors == nil {
		colors = NoColorScheme()
	}
	width := 0
	for _, in := range info {
		width = max(width, utf8.RuneCountInString(in.Key))
	}
	for _, in := range info {
		_, err := fmt.Fprintf(w, "%s: %s\n",
			colors.InfoKey.Sprint(pad(in.Key, width+1, Left)),
			colors.InfoValue.Sprint(in.Value))
		if err != nil {
			return err
		}
	}
	return nil
}
