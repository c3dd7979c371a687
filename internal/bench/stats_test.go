package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStats(t *testing.T) {
	s := NewStats([]uint64{30, 10, 20}, DefaultStatsConfig())
	assert.Equal(t, Stats{Count: 3, Min: 10, Median: 20, P90: 30, Max: 30, Mean: 20}, s)
}

func TestNewStats_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, NewStats(nil, DefaultStatsConfig()))
}

func TestNewStats_Clamped(t *testing.T) {
	cfg := StatsConfig{HistogramMin: 1, HistogramMax: 1000, HistogramSigFigs: 3}
	s := NewStats([]uint64{0, 5}, cfg)
	assert.Equal(t, int64(2), s.Count)
	assert.Equal(t, int64(1), s.Min, "zero is clamped to the histogram minimum")
}
