//go:build !linux

package affinity

// CPUs returns nil; the affinity mask is not available on this platform.
func CPUs() []int {
	return nil
}

func pinThread(int) error {
	return ErrUnsupported
}
