package bench

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/wesleyorama2/perfstamp/clock"
	"github.com/wesleyorama2/perfstamp/internal/config"
	"github.com/wesleyorama2/perfstamp/internal/diag"
	"github.com/wesleyorama2/perfstamp/internal/output"
	"github.com/wesleyorama2/perfstamp/pmu"
	"github.com/wesleyorama2/perfstamp/stamp"
)

// Options wires a Harness to its environment.
type Options struct {
	Clock clock.Clock

	// Events configures counter programming. Nil means
	// pmu.DefaultManagerConfig.
	Events *pmu.ManagerConfig

	// MSR reads model specific registers. Nil means the host reader.
	MSR stamp.MSRReader

	Stats StatsConfig
	Log   *diag.Logger
}

// Harness runs every spec of a run configuration.
type Harness struct {
	cfg    *config.RunConfig
	clock  clock.Clock
	stamps *stamp.Config
	cols   []Column
	specs  []Spec
	stats  StatsConfig
	log    *diag.Logger

	cpus   []int
	pinned bool
}

// New builds the column set and the spec list, and registers every event
// the columns need. The stamp config is prepared by Run.
func New(rc *config.RunConfig, opts Options) (*Harness, error) {
	if opts.Clock == nil {
		return nil, fmt.Errorf("bench: a clock is required")
	}

	algos, err := Lookup(rc.Algos)
	if err != nil {
		return nil, err
	}

	cols := BasicColumns()
	perf, err := PerfColumns(rc.PerfCols)
	if err != nil {
		return nil, err
	}
	cols = append(cols, perf...)

	extra, err := rc.ExtraEvents()
	if err != nil {
		return nil, err
	}
	for _, e := range extra {
		opts.Log.Verbosef("adding extra event: %s", e)
		cols = append(cols, NewEventColumn(e.Name, e))
	}

	msrs, err := rc.MSRIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range msrs {
		cols = append(cols, NewMSRColumn(id))
	}

	minBytes, maxBytes := rc.Sizes.Bounds()
	specs := BuildSpecs(ElementCounts(minBytes, maxBytes, rc.Sizes.Step), algos, rc.TrialSize, rc.MinIters)

	stats := opts.Stats
	if stats.HistogramMax == 0 {
		stats = DefaultStatsConfig()
	}

	sc := stamp.NewConfig(stamp.ConfigOptions{
		Clock:  opts.Clock,
		Events: opts.Events,
		MSR:    opts.MSR,
		Log:    opts.Log,
	})
	// each column gets a chance to add what it needs
	for _, c := range cols {
		for _, e := range c.Events() {
			sc.AddEvent(e)
		}
		for _, id := range c.MSRs() {
			sc.AddMSR(id)
		}
	}

	cpus, err := AllowedCPUs()
	if err != nil {
		return nil, err
	}

	return &Harness{
		cfg:    rc,
		clock:  opts.Clock,
		stamps: sc,
		cols:   cols,
		specs:  specs,
		stats:  stats,
		log:    opts.Log,
		cpus:   cpus,
	}, nil
}

// Specs returns the specs in run order.
func (h *Harness) Specs() []Spec { return h.specs }

// Columns returns the report columns.
func (h *Harness) Columns() []Column { return h.cols }

// Stamps returns the stamp config shared by every spec.
func (h *Harness) Stamps() *stamp.Config { return h.stamps }

// Info returns the run information lines printed before the results.
func (h *Harness) Info() []output.Info {
	t := &output.Table{}
	if tsc, ok := h.clock.(*clock.TSC); ok {
		cal := tsc.Calibration()
		t.AddInfo("tsc_freq", "%.1f MHz (%s)", float64(cal.Hz)/1e6, cal.Source)
	}
	t.AddInfo("clock", "%s", h.clock.Name())
	t.AddInfo("Running as root", "%s", yesNo(os.Geteuid() == 0))
	t.AddInfo("CPU pinning enabled", "%s", yesNo(!h.cfg.NoPin))
	t.AddInfo(fmt.Sprintf("available CPUs (%d)", len(h.cpus)), "%s", joinInts(h.cpus))
	t.AddInfo("logical CPUs", "%d", runtime.NumCPU())
	t.AddInfo("target size", "%d", h.cfg.TrialSize)
	minBytes, maxBytes := h.cfg.Sizes.Bounds()
	t.AddInfo("min buffer size", "%d", minBytes)
	t.AddInfo("max buffer size", "%d", maxBytes)
	t.AddInfo("step ratio", "%.2f", h.cfg.Sizes.Step)
	return t.Info
}

// Run pins the calling goroutine's thread when enabled, prepares the stamp
// config and runs every spec. Cancelling ctx stops between specs and
// returns the results so far with the context error.
func (h *Harness) Run(ctx context.Context) ([]Result, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !h.cfg.NoPin && len(h.cpus) > 0 {
		if err := PinToCPU(h.cpus[0]); err != nil {
			return nil, err
		}
		h.pinned = true
	}

	if _, err := h.stamps.Prepare(); err != nil {
		if h.pinned {
			err = multierr.Append(err, restoreAffinity(h.cpus))
			h.pinned = false
		}
		return nil, fmt.Errorf("failed to prepare counters: %w", err)
	}

	maxElems := 0
	for _, s := range h.specs {
		maxElems = max(maxElems, s.Elems)
	}
	buf := NewBuffer(maxElems)

	opts := RunOptions{
		Warmup:         time.Duration(h.cfg.Warmup),
		WarmupTrials:   h.cfg.Trials.Warmup,
		MeasuredTrials: h.cfg.Trials.Measured,
		Stats:          h.stats,
		Log:            h.log,
	}

	h.log.Printf("Running total %d benchmark specs\n", len(h.specs))
	results := make([]Result, 0, len(h.specs))
	for _, spec := range h.specs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, RunSpec(h.stamps, spec, buf, opts))
	}
	return results, nil
}

// Table renders one row per measured trial.
func (h *Harness) Table(results []Result) *output.Table {
	cols := make([]output.Column, len(h.cols))
	for i, c := range h.cols {
		cols[i] = output.Column{Heading: c.Heading(), Justify: c.Justify()}
	}
	t := output.NewTable(cols...)
	t.Name = h.cfg.Name
	t.Info = h.Info()

	cells := make([]output.Cell, len(h.cols))
	for i := range results {
		r := &results[i]
		for j := range r.Trials {
			for k, c := range h.cols {
				cells[k] = c.Cell(r, &r.Trials[j])
			}
			t.AddRow(append([]output.Cell(nil), cells...)...)
		}
	}
	return t
}

// SummaryTable renders one row per spec with the distribution of clock-timed
// nanoseconds per workload call.
func (h *Harness) SummaryTable(results []Result) *output.Table {
	t := output.NewTable(
		output.Column{Heading: "Size", Justify: output.Right},
		output.Column{Heading: "Algo", Justify: output.Left},
		output.Column{Heading: "Iters", Justify: output.Right},
		output.Column{Heading: "Nanos", Justify: output.Right},
		output.Column{Heading: "Min", Justify: output.Right},
		output.Column{Heading: "P90", Justify: output.Right},
		output.Column{Heading: "Max", Justify: output.Right},
	)
	t.Name = h.cfg.Name
	t.Info = h.Info()
	for _, r := range results {
		iters := float64(r.Spec.Iters)
		t.AddRow(
			output.IntCell(r.Spec.Bytes()),
			output.TextCell(r.Spec.Workload.Name),
			output.IntCell(r.Spec.Iters),
			output.FloatCell("%.1f", float64(r.Stats.Median)/iters),
			output.FloatCell("%.1f", float64(r.Stats.Min)/iters),
			output.FloatCell("%.1f", float64(r.Stats.P90)/iters),
			output.FloatCell("%.1f", float64(r.Stats.Max)/iters),
		)
	}
	return t
}

// Close releases the counters and restores the CPU affinity. It must run on
// the goroutine that called Run.
func (h *Harness) Close() error {
	var err error
	if h.pinned {
		err = restoreAffinity(h.cpus)
		h.pinned = false
	}
	return multierr.Append(err, h.stamps.Close())
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
