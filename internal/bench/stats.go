package bench

import (
	"github.com/HdrHistogram/hdrhistogram-go"
)

// StatsConfig contains configuration for trial statistics.
type StatsConfig struct {
	// HistogramMin is the minimum recordable value in nanoseconds (default: 1)
	HistogramMin int64

	// HistogramMax is the maximum recordable value in nanoseconds (default: 1 hour)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultStatsConfig returns the default configuration.
func DefaultStatsConfig() StatsConfig {
	return StatsConfig{
		HistogramMin:     1,
		HistogramMax:     3600 * 1000 * 1000 * 1000,
		HistogramSigFigs: 3,
	}
}

// Stats summarizes the elapsed nanoseconds of the measured trials of a spec.
type Stats struct {
	Count  int64   `json:"count" yaml:"count"`
	Min    int64   `json:"min" yaml:"min"`
	Median int64   `json:"median" yaml:"median"`
	P90    int64   `json:"p90" yaml:"p90"`
	Max    int64   `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
}

// NewStats records values in an HDR histogram and summarizes them. Values
// outside the histogram range are clamped.
func NewStats(values []uint64, cfg StatsConfig) Stats {
	hist := hdrhistogram.New(cfg.HistogramMin, cfg.HistogramMax, cfg.HistogramSigFigs)
	for _, v := range values {
		n := int64(min(v, uint64(cfg.HistogramMax)))
		n = max(n, cfg.HistogramMin)
		// Clamped values are always in range.
		_ = hist.RecordValue(n)
	}
	if hist.TotalCount() == 0 {
		return Stats{}
	}
	return Stats{
		Count:  hist.TotalCount(),
		Min:    hist.Min(),
		Median: hist.ValueAtQuantile(50),
		P90:    hist.ValueAtQuantile(90),
		Max:    hist.Max(),
		Mean:   hist.Mean(),
	}
}
