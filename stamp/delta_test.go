package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax_EmptyIsIdentity(t *testing.T) {
	cfg := &Config{}
	d := Delta{config: cfg, tsc: 42, counters: Counts{1, 2, 3, 4, 5, 6, 7, 8}}

	assert.Equal(t, d, Min(Delta{}, d))
	assert.Equal(t, d, Min(d, Delta{}))
	assert.Equal(t, d, Max(Delta{}, d))
	assert.Equal(t, d, Max(d, Delta{}))
	assert.True(t, Min(Delta{}, Delta{}).IsEmpty())
}

func TestMinMax_ElementWise(t *testing.T) {
	cfg := &Config{}
	a := Delta{config: cfg, tsc: 10, counters: Counts{1, 20, 3}}
	b := Delta{config: cfg, tsc: 5, counters: Counts{10, 2, 3}}

	lo := Min(a, b)
	assert.Equal(t, uint64(5), lo.TSC())
	assert.Equal(t, Counts{1, 2, 3}, lo.Counters())

	hi := Max(a, b)
	assert.Equal(t, uint64(10), hi.TSC())
	assert.Equal(t, Counts{10, 20, 3}, hi.Counters())
}

func TestMinMax_FoldFromEmpty(t *testing.T) {
	cfg := &Config{}
	deltas := []Delta{
		{config: cfg, tsc: 30},
		{config: cfg, tsc: 10},
		{config: cfg, tsc: 20},
	}
	var lo, hi Delta
	for _, d := range deltas {
		lo, hi = Min(lo, d), Max(hi, d)
	}
	assert.Equal(t, uint64(10), lo.TSC())
	assert.Equal(t, uint64(30), hi.TSC())
}

func TestApply_DifferentConfigsPanics(t *testing.T) {
	a := Delta{config: &Config{}, tsc: 1}
	b := Delta{config: &Config{}, tsc: 2}
	assert.Panics(t, func() { Min(a, b) })
}

func TestDelta_EmptyPanics(t *testing.T) {
	var d Delta
	assert.True(t, d.IsEmpty())
	assert.Panics(t, func() { d.TSC() })
}

func TestCounts(t *testing.T) {
	a := Counts{5, 0}
	b := Counts{3, 1}
	d := a.Sub(b)
	assert.Equal(t, uint64(2), d[0])
	assert.Equal(t, ^uint64(0), d[1], "subtraction wraps")

	sum := a.Apply(b, func(x, y uint64) uint64 { return x + y })
	assert.Equal(t, Counts{8, 1}, sum)
}
