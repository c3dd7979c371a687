//go:build !linux

package bench

import (
	"errors"
	"runtime"
)

var errNoAffinity = errors.New("CPU affinity is only supported on linux")

// AllowedCPUs returns every logical CPU, since affinity cannot be queried.
func AllowedCPUs() ([]int, error) {
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus, nil
}

// PinToCPU is unsupported off linux.
func PinToCPU(int) error { return errNoAffinity }

func restoreAffinity([]int) error { return nil }
