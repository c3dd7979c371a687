package bench

// Spec is one workload at one buffer size.
type Spec struct {
	Workload Workload

	// Elems is the buffer length in elements.
	Elems int

	// Iters is the number of workload calls per trial.
	Iters int64
}

// Bytes returns the buffer size in bytes.
func (s Spec) Bytes() int64 {
	return int64(s.Elems) * ElemSize
}

// ElementCounts returns the geometric sweep of buffer lengths, in elements,
// from minBytes up to maxBytes. Each size is the previous one times step;
// the element count always advances even when rounding would repeat it.
func ElementCounts(minBytes, maxBytes int64, step float64) []int {
	var out []int
	last := -1
	for b := minBytes; b <= maxBytes; b = int64(float64(b) * step) {
		n := int(b / ElemSize)
		if n == last {
			n++
			b = int64(n) * ElemSize
			if b > maxBytes {
				break
			}
		}
		last = n
		out = append(out, n)
	}
	return out
}

// Iterations returns how many workload calls reach trialSize bytes, but at
// least minIters.
func Iterations(bytes, trialSize, minIters int64) int64 {
	bytes = max(bytes, 1)
	return max((trialSize+bytes-1)/bytes, minIters)
}

// BuildSpecs crosses every size with every workload, sizes outermost.
func BuildSpecs(elems []int, algos []Workload, trialSize, minIters int64) []Spec {
	specs := make([]Spec, 0, len(elems)*len(algos))
	for _, n := range elems {
		iters := Iterations(int64(n)*ElemSize, trialSize, minIters)
		for _, w := range algos {
			specs = append(specs, Spec{Workload: w, Elems: n, Iters: iters})
		}
	}
	return specs
}
