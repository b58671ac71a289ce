//go:build unix

package usage

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Self returns the resource usage of the calling process.
func Self() (*Usage, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return nil, fmt.Errorf("usage: getrusage: %w", err)
	}
	return &Usage{
		UserCPU:   time.Duration(ru.Utime.Nano()),
		SystemCPU: time.Duration(ru.Stime.Nano()),
		MaxRSS:    int64(ru.Maxrss) * rssUnit,
	}, nil
}
