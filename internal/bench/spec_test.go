package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementCounts(t *testing.T) {
	tests := []struct {
		name     string
		min, max int64
		step     float64
		want     []int
	}{
		{"geometric", 100, 200, 4.0 / 3.0, []int{25, 33, 44}},
		{"fixed", 4096, 4096, 4.0 / 3.0, []int{1024}},
		{"always advances", 4, 8, 1.1, []int{1, 2}},
		{"empty range", 200, 100, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ElementCounts(tt.min, tt.max, tt.step))
		})
	}
}

func TestIterations(t *testing.T) {
	assert.Equal(t, int64(250), Iterations(400, 100000, 2))
	assert.Equal(t, int64(3), Iterations(40000, 100000, 2), "rounds up")
	assert.Equal(t, int64(2), Iterations(1000000, 100000, 2), "at least minIters")
	assert.Equal(t, int64(100000), Iterations(0, 100000, 2), "empty buffers count as one byte")
}

func TestBuildSpecs(t *testing.T) {
	algos, err := Lookup([]string{"fill0", "fill1"})
	assert.NoError(t, err)

	specs := BuildSpecs([]int{25, 1000}, algos, 1000, 2)
	assert.Len(t, specs, 4)
	assert.Equal(t, "fill0", specs[0].Workload.Name)
	assert.Equal(t, "fill1", specs[1].Workload.Name)
	assert.Equal(t, 25, specs[1].Elems)
	assert.Equal(t, int64(10), specs[0].Iters)
	assert.Equal(t, int64(4000), specs[2].Bytes())
	assert.Equal(t, int64(2), specs[3].Iters)
}
