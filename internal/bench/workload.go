// Package bench runs the fill-bandwidth benchmark: a set of buffer
// workloads swept over geometric buffer sizes, each timed with stamps so
// every trial carries cycle and performance counter deltas.
package bench

import (
	"fmt"
	"strings"
)

// Elem is the buffer element type.
type Elem = int32

const (
	// ElemSize is the size of Elem in bytes.
	ElemSize = 4

	// CacheLineBytes is the assumed cache line size.
	CacheLineBytes = 64

	// dpChunk is the double pump inner chunk: 64 KiB of elements.
	dpChunk = 16 * 1024

	// altBlock is one round of alternating stores: two 32-byte stores of
	// the first value then two of the second.
	altBlock = 128 / ElemSize
)

// Workload is one benchmark kernel run against a buffer.
type Workload struct {
	Name        string
	Description string

	// Initial is written over the buffer before the first trial.
	Initial Elem

	// WorkFactor is how many times each byte is written per call.
	WorkFactor float64

	Run func(buf []Elem)
}

// sink keeps results of read-only workloads observable.
var sink int

var workloads = []Workload{
	{Name: "memset0", Description: "memory clear to zero bytes", Initial: 0, Run: func(b []Elem) { clear(b) }},
	{Name: "memset1", Description: "byte fill with 0x01", Initial: 1, Run: func(b []Elem) { fill(b, 0x01010101) }},
	{Name: "fill0", Description: "element fill with 0", Initial: 0, Run: func(b []Elem) { fill(b, 0) }},
	{Name: "fill1", Description: "element fill with 1", Initial: 1, Run: func(b []Elem) { fill(b, 1) }},
	{Name: "filln1", Description: "element fill with -1", Initial: -1, Run: func(b []Elem) { fill(b, -1) }},
	{Name: "alt0", Description: "alternating 32-byte block stores of 0 and 0", Initial: 0, Run: func(b []Elem) { fillAlt(b, 0, 0) }},
	{Name: "alt1", Description: "alternating 32-byte block stores of 1 and 1", Initial: 1, Run: func(b []Elem) { fillAlt(b, 1, 1) }},
	{Name: "alt01", Description: "alternating 32-byte block stores of 0 and 1", Initial: 0, Run: func(b []Elem) { fillAlt(b, 0, 1) }},
	{Name: "fill00", Description: "fill with 0 then 0 again", Initial: 0, WorkFactor: 2, Run: func(b []Elem) { fill(b, 0); fill(b, 0) }},
	{Name: "fill01", Description: "fill with 0 then 1", Initial: 0, WorkFactor: 2, Run: func(b []Elem) { fill(b, 0); fill(b, 1) }},
	{Name: "fill11", Description: "fill with 1 then 1 again", Initial: 1, WorkFactor: 2, Run: func(b []Elem) { fill(b, 1); fill(b, 1) }},
	{Name: "count0", Description: "count elements equal to 0 (read only)", Initial: 0, Run: func(b []Elem) { sink += count(b, 0) }},
	{Name: "count1", Description: "count elements equal to 1 (read only)", Initial: 1, Run: func(b []Elem) { sink += count(b, 1) }},
	{Name: "one_per0", Description: "store 0 to one element per cache line", Initial: 0, Run: func(b []Elem) { onePerLine(b, 0) }},
	{Name: "one_per1", Description: "store 1 to one element per cache line", Initial: 1, Run: func(b []Elem) { onePerLine(b, 1) }},
	{Name: "dp00", Description: "double pump 64 KiB chunks with 0 then 0", Initial: 0, Run: func(b []Elem) { doublePump(b, 0, 0) }},
	{Name: "dp10", Description: "double pump 64 KiB chunks with 1 then 0", Initial: 0, Run: func(b []Elem) { doublePump(b, 1, 0) }},
	{Name: "dp11", Description: "double pump 64 KiB chunks with 1 then 1", Initial: 0, Run: func(b []Elem) { doublePump(b, 1, 1) }},
	{Name: "memcpy", Description: "copy the second half of the buffer over the first", Initial: 0, Run: copyHalf},
}

// Workloads returns every workload in presentation order.
func Workloads() []Workload {
	out := make([]Workload, len(workloads))
	copy(out, workloads)
	return out
}

// Lookup returns the named workloads in the given order. No names selects
// every workload.
func Lookup(names []string) ([]Workload, error) {
	if len(names) == 0 {
		return Workloads(), nil
	}
	out := make([]Workload, 0, len(names))
	for _, name := range names {
		w, ok := find(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("algorithm %s not found", name)
		}
		out = append(out, w)
	}
	return out, nil
}

func find(name string) (Workload, bool) {
	for _, w := range workloads {
		if w.Name == name {
			return w, true
		}
	}
	return Workload{}, false
}

// work returns the work factor, which defaults to one.
func (w Workload) work() float64 {
	if w.WorkFactor == 0 {
		return 1
	}
	return w.WorkFactor
}

func fill(b []Elem, v Elem) {
	for i := range b {
		b[i] = v
	}
}

func fillAlt(b []Elem, v0, v1 Elem) {
	half := altBlock / 2
	for i := 0; i < len(b); i += altBlock {
		mid := min(i+half, len(b))
		end := min(i+altBlock, len(b))
		fill(b[i:mid], v0)
		fill(b[mid:end], v1)
	}
}

func count(b []Elem, v Elem) int {
	n := 0
	for _, x := range b {
		if x == v {
			n++
		}
	}
	return n
}

func onePerLine(b []Elem, v Elem) {
	for i := 0; i < len(b); i += CacheLineBytes / ElemSize {
		b[i] = v
	}
}

func doublePump(b []Elem, v0, v1 Elem) {
	for i := 0; i < len(b); i += dpChunk {
		chunk := b[i:min(i+dpChunk, len(b))]
		fill(chunk, v0)
		fill(chunk, v1)
	}
}

func copyHalf(b []Elem) {
	half := len(b) / 2
	copy(b[:half], b[half:2*half])
}
