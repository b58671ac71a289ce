// Package affinity detects how much parallelism the host grants the process
// and optionally pins worker goroutines to individual CPUs.
package affinity

import (
	"errors"
	"runtime"
)

// ErrUnsupported is returned by Pin on platforms without affinity control.
var ErrUnsupported = errors.New("affinity: not supported on this platform")

// Parallelism returns the number of CPUs the process may run on, never
// less than 1.
func Parallelism() int {
	n := len(CPUs())
	if n < 1 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to the slot-th CPU of the process affinity mask (modulo its size).  The
// goroutine should not unlock the thread; when it exits the runtime discards
// the thread together with its affinity.
func Pin(slot int) error {
	cpus := CPUs()
	if len(cpus) == 0 {
		return ErrUnsupported
	}
	if slot < 0 {
		slot = -slot
	}
	runtime.LockOSThread()
	if err := pinThread(cpus[slot%len(cpus)]); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}
