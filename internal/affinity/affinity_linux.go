//go:build linux

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CPUs lists the CPU ids in the process affinity mask.
func CPUs() []int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil
	}
	cpus := make([]int, 0, set.Count())
	for i := 0; i < len(set)*64 && len(cpus) < cap(cpus); i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus
}

func pinThread(cpu int) error {
	var set unix.CPUSet
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: pin thread %d to cpu %d: %w", unix.Gettid(), cpu, err)
	}
	return nil
}
