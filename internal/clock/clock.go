package clock

import (
	"math"
	"time"

	"github.com/valyala/fastrand"
)

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// SleepFunc suspends the calling goroutine. Override in tests.
var SleepFunc = time.Sleep

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Since returns the time elapsed since t according to NowFunc.
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }

// Pause sleeps for interval plus up to a quarter of it in random jitter, so
// that idle pollers sharing the same interval drift apart instead of waking
// in lockstep.  The jitter is capped at math.MaxUint32 nanoseconds.
func Pause(interval time.Duration) {
	if interval <= 0 {
		return
	}
	quarter := interval / 4
	if quarter > math.MaxUint32 {
		quarter = math.MaxUint32
	}
	jitter := time.Duration(0)
	if quarter > 0 {
		jitter = time.Duration(fastrand.Uint32n(uint32(quarter)))
	}
	SleepFunc(interval + jitter)
}
