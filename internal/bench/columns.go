package bench

import (
	"fmt"
	"strings"

	"github.com/wesleyorama2/perfstamp/internal/output"
	"github.com/wesleyorama2/perfstamp/pmu"
	"github.com/wesleyorama2/perfstamp/stamp"
)

// Column knows how to print one column of per-trial data. Columns that need
// counters register their events before the stamp config is prepared.
type Column interface {
	Heading() string
	Justify() output.Justify

	// Events lists the events this column reads.
	Events() []pmu.Event

	// MSRs lists the model specific registers this column reads.
	MSRs() []uint32

	Cell(r *Result, t *Trial) output.Cell
}

type basicColumn struct {
	heading string
	justify output.Justify
	cell    func(r *Result, t *Trial) output.Cell
}

func (c *basicColumn) Heading() string                      { return c.heading }
func (c *basicColumn) Justify() output.Justify              { return c.justify }
func (c *basicColumn) Events() []pmu.Event                  { return nil }
func (c *basicColumn) MSRs() []uint32                       { return nil }
func (c *basicColumn) Cell(r *Result, t *Trial) output.Cell { return c.cell(r, t) }

// BasicColumns are always reported.
func BasicColumns() []Column {
	return []Column{
		&basicColumn{"Size", output.Right, func(r *Result, _ *Trial) output.Cell {
			return output.IntCell(r.Spec.Bytes())
		}},
		&basicColumn{"Algo", output.Left, func(r *Result, _ *Trial) output.Cell {
			return output.TextCell(r.Spec.Workload.Name)
		}},
		&basicColumn{"Trial", output.Right, func(_ *Result, t *Trial) output.Cell {
			return output.IntCell(int64(t.Index))
		}},
		&basicColumn{"Stampms", output.Right, func(r *Result, t *Trial) output.Cell {
			return output.FloatCell("%0.2f", float64(t.Delta.Nanos())/(1000000.*float64(r.Spec.Iters)))
		}},
		&basicColumn{"GB/s", output.Right, func(r *Result, t *Trial) output.Cell {
			nanos := t.Delta.Nanos()
			if nanos == 0 {
				return output.FailCell()
			}
			bytes := float64(r.Spec.Iters) * r.Spec.Workload.work() * float64(r.Spec.Bytes())
			return output.FloatCell("%.1f", bytes/float64(nanos))
		}},
		&basicColumn{"Iters", output.Right, func(r *Result, _ *Trial) output.Cell {
			return output.IntCell(r.Spec.Iters)
		}},
	}
}

// EventColumn reports an event count normalized per cache line written.
type EventColumn struct {
	heading string
	event   pmu.Event
}

// NewEventColumn creates a column for event e.
func NewEventColumn(heading string, e pmu.Event) *EventColumn {
	return &EventColumn{heading: heading, event: e}
}

func (c *EventColumn) Heading() string         { return c.heading }
func (c *EventColumn) Justify() output.Justify { return output.Right }
func (c *EventColumn) Events() []pmu.Event     { return []pmu.Event{c.event} }
func (c *EventColumn) MSRs() []uint32          { return nil }

// Cell prints FAIL when the event could not be programmed.
func (c *EventColumn) Cell(r *Result, t *Trial) output.Cell {
	v, err := t.Delta.Counter(c.event)
	if err != nil || v == stamp.Unavailable {
		return output.FailCell()
	}
	lines := float64(r.Spec.Bytes()) * r.Spec.Workload.work() * float64(r.Spec.Iters) / CacheLineBytes
	if lines == 0 {
		return output.FailCell()
	}
	return output.FloatCell("%.2f", float64(v)/lines)
}

// MSRColumn reports the change of a model specific register per workload
// call.
type MSRColumn struct {
	id uint32
}

// NewMSRColumn creates a column for MSR id.
func NewMSRColumn(id uint32) *MSRColumn {
	return &MSRColumn{id: id}
}

func (c *MSRColumn) Heading() string         { return fmt.Sprintf("msr:%#x", c.id) }
func (c *MSRColumn) Justify() output.Justify { return output.Right }
func (c *MSRColumn) Events() []pmu.Event     { return nil }
func (c *MSRColumn) MSRs() []uint32          { return []uint32{c.id} }

func (c *MSRColumn) Cell(r *Result, t *Trial) output.Cell {
	cfg := t.After.Config()
	before, err1 := cfg.MSRValue(c.id, t.Before)
	after, err2 := cfg.MSRValue(c.id, t.After)
	if err1 != nil || err2 != nil {
		return output.FailCell()
	}
	return output.FloatCell("%.1f", float64(after-before)/float64(r.Spec.Iters))
}

// perfColumns are the predefined event columns selectable by heading.
var perfColumns = []struct {
	heading string
	event   string
}{
	{"Instructions", "instructions"},
	{"uncR", "unc_arb_trk_requests.drd_direct"},
	{"uncW", "unc_arb_trk_requests.writes"},
	{"imcR", "uncore_imc/data_reads/"},
	{"imcW", "uncore_imc/data_writes/"},
	{"l2-out-silent", "l2_lines_out.silent"},
	{"l2-out-non-silent", "l2_lines_out.non_silent"},
}

// PerfColumnNames lists the predefined perf column headings.
func PerfColumnNames() []string {
	names := make([]string, len(perfColumns))
	for i, p := range perfColumns {
		names[i] = p.heading
	}
	return names
}

// PerfColumnEvent returns the event behind a predefined perf column, or ""
// when there is no such column.
func PerfColumnEvent(heading string) string {
	for _, p := range perfColumns {
		if strings.EqualFold(p.heading, heading) {
			return p.event
		}
	}
	return ""
}

// PerfColumns returns the predefined columns with the given headings,
// matched case-insensitively.
func PerfColumns(names []string) ([]Column, error) {
	var cols []Column
	for _, name := range names {
		name = strings.TrimSpace(name)
		found := false
		for _, p := range perfColumns {
			if strings.EqualFold(p.heading, name) {
				cols = append(cols, NewEventColumn(p.heading, pmu.NewEvent(p.event)))
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("perf column %s not found", name)
		}
	}
	return cols, nil
}
