package output

import (
	"fmt"
	"strconv"
)

// Justify is the horizontal alignment of a column in text output.
type Justify int

const (
	Left Justify = iota
	Right
)

// Column describes one column of a Table.
type Column struct {
	Heading string
	Justify Justify
}

// Cell is one table value. Text is rendered by the table and CSV formats;
// Value is emitted by the structured formats and falls back to Text.
type Cell struct {
	Text  string
	Value interface{}
	Fail  bool
}

// FailText marks a value that could not be measured.
const FailText = "FAIL"

// TextCell creates a string cell.
func TextCell(s string) Cell {
	return Cell{Text: s, Value: s}
}

// IntCell creates an integer cell.
func IntCell(v int64) Cell {
	return Cell{Text: strconv.FormatInt(v, 10), Value: v}
}

// FloatCell creates a float cell rendered with a printf format.
func FloatCell(format string, v float64) Cell {
	return Cell{Text: fmt.Sprintf(format, v), Value: v}
}

// FailCell creates a cell for an unavailable measurement.
func FailCell() Cell {
	return Cell{Text: FailText, Fail: true}
}

func (c Cell) value() interface{} {
	if c.Value == nil {
		return c.Text
	}
	return c.Value
}

// Info is a labelled line of run information printed before the results.
type Info struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Table is a report: some run information and a grid of results.
type Table struct {
	Name    string
	Info    []Info
	Columns []Column
	Rows    [][]Cell
}

// NewTable creates an empty table with the given columns.
func NewTable(cols ...Column) *Table {
	return &Table{Columns: cols}
}

// AddInfo appends a line of run information.
func (t *Table) AddInfo(key, format string, args ...interface{}) {
	t.Info = append(t.Info, Info{Key: key, Value: fmt.Sprintf(format, args...)})
}

// AddRow appends a row. It panics if the cell count does not match the
// column count.
func (t *Table) AddRow(cells ...Cell) {
	if len(cells) != len(t.Columns) {
		panic(fmt.Sprintf("output: row has %d cells, table has %d columns", len(cells), len(t.Columns)))
	}
	t.Rows = append(t.Rows, cells)
}

// Headings returns the column headings in order.
func (t *Table) Headings() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Heading
	}
	return out
}
