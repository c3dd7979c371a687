package bench

import (
	"time"
	"unsafe"

	"github.com/wesleyorama2/perfstamp/internal/diag"
	"github.com/wesleyorama2/perfstamp/stamp"
)

// Trial is one measured trial: the stamps that bound it and their delta.
type Trial struct {
	Index  int
	Before stamp.Stamp
	After  stamp.Stamp
	Delta  stamp.Delta
}

// Result holds the measured trials of one spec.
type Result struct {
	Spec   Spec
	Trials []Trial

	// Stats summarizes the clock-timed nanoseconds of each measured trial.
	Stats Stats

	// Warms is the number of busy-wait loops run before the first trial.
	Warms int64

	TimedIters int64
	TotalIters int64
}

// RunOptions controls the trial loop.
type RunOptions struct {
	// Warmup is the busy-wait before each spec.
	Warmup time.Duration

	// WarmupTrials are run but not reported. At least one is always run
	// so that the first measured trial has a preceding stamp.
	WarmupTrials int

	MeasuredTrials int

	Stats StatsConfig
	Log   *diag.Logger
}

// RunSpec runs spec against buf using stamps from cfg, which must be
// prepared. Each trial is bounded by the stamp taken after the previous
// trial and the stamp taken after itself.
func RunSpec(cfg *stamp.Config, spec Spec, buf []Elem, opts RunOptions) Result {
	warmupTrials := max(opts.WarmupTrials, 1)
	trials := warmupTrials + opts.MeasuredTrials
	clk := cfg.Clock()
	buf = buf[:spec.Elems]

	warms := warm(opts.Warmup)
	opts.Log.Verbosef("Running: id=%s, iters=%d, bufsz=%d, warms=%d",
		spec.Workload.Name, spec.Iters, spec.Elems, warms)

	fill(buf, spec.Workload.Initial)

	stamps := make([]stamp.Stamp, trials)
	timings := make([]uint64, trials)
	run := spec.Workload.Run
	for t := 0; t < trials; t++ {
		t0 := clk.Now()
		for i := int64(0); i < spec.Iters; i++ {
			run(buf)
		}
		t1 := clk.Now()
		stamps[t] = cfg.Stamp()
		timings[t] = clk.ToNanos(t1 - t0)
	}

	r := Result{
		Spec:       spec,
		Trials:     make([]Trial, 0, opts.MeasuredTrials),
		Stats:      NewStats(timings[warmupTrials:], opts.Stats),
		Warms:      warms,
		TimedIters: int64(opts.MeasuredTrials) * spec.Iters,
		TotalIters: int64(trials) * spec.Iters,
	}
	for t := warmupTrials; t < trials; t++ {
		r.Trials = append(r.Trials, Trial{
			Index:  t - warmupTrials,
			Before: stamps[t-1],
			After:  stamps[t],
			Delta:  cfg.Delta(stamps[t-1], stamps[t]),
		})
	}
	return r
}

// warm spins for d so the CPU leaves any low power state.
func warm(d time.Duration) int64 {
	var iters int64
	start := time.Now()
	for time.Since(start) < d {
		iters++
	}
	return iters
}

// NewBuffer returns a cache-line aligned buffer of n elements filled with -1.
func NewBuffer(n int) []Elem {
	const align = CacheLineBytes / ElemSize
	raw := make([]Elem, n+align)
	off := 0
	if rem := uintptr(unsafe.Pointer(&raw[0])) % CacheLineBytes; rem != 0 {
		off = int(CacheLineBytes-rem) / ElemSize
	}
	buf := raw[off : off+n : off+n]
	fill(buf, -1)
	return buf
}
