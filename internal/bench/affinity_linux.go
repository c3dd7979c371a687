package bench

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// maxCPUs is CPU_SETSIZE.
const maxCPUs = 1024

// AllowedCPUs returns the CPUs the calling thread may run on.
func AllowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("failed while getting cpu affinity: %w", err)
	}
	var cpus []int
	for cpu := 0; cpu < maxCPUs && len(cpus) < set.Count(); cpu++ {
		if set.IsSet(cpu) {
			cpus = append(cpus, cpu)
		}
	}
	return cpus, nil
}

// PinToCPU restricts the calling thread to cpu. The caller must hold its
// OS thread.
func PinToCPU(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("could not pin to CPU %d: %w", cpu, err)
	}
	return nil
}

func restoreAffinity(cpus []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, cpu := range cpus {
		set.Set(cpu)
	}
	return unix.SchedSetaffinity(0, &set)
}
