// Package usage reports process resource consumption after a run.
package usage

import (
	"fmt"
	"time"
)

// Usage holds the resources consumed by the current process.
type Usage struct {
	UserCPU   time.Duration `yaml:"userCPU" json:"userCPU"`
	SystemCPU time.Duration `yaml:"systemCPU" json:"systemCPU"`
	// MaxRSS is the peak resident set size in bytes.
	MaxRSS int64 `yaml:"maxRSS" json:"maxRSS"`
}

// String formats usage for the CLI summary line.
func (u *Usage) String() string {
	return fmt.Sprintf("user %v, sys %v, max rss %.1f MiB",
		u.UserCPU.Round(time.Millisecond), u.SystemCPU.Round(time.Millisecond), float64(u.MaxRSS)/(1<<20))
}
