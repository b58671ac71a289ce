package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change.  Fields are signed so a
// correction can be applied with negative values.
type Delta struct {
	Enqueued  int64
	Processed int64
	Primes    int64
}

// IsZero reports whether the delta carries no change.
func (d Delta) IsZero() bool {
	return d.Enqueued == 0 && d.Processed == 0 && d.Primes == 0
}

// Progress keeps aggregated counters for one run.  It is safe for concurrent
// use.
type Progress struct {
	RunID     string
	StartedAt time.Time

	Enqueued  int64
	Processed int64
	Primes    int64
	// Rate is the most recent processed-per-second estimate.
	Rate float64

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker for the supplied run.
func New(runID string, onChange func(Progress)) *Progress {
	return &Progress{RunID: runID, StartedAt: time.Now(), onChange: onChange}
}

// Update applies the supplied delta.  The onChange callback, if any, gets a
// copy of the tracker outside the critical section.
func (p *Progress) Update(d Delta) {
	p.apply(d, nil)
}

func (p *Progress) apply(d Delta, rate *float64) {
	if p == nil {
		return
	}
	p.Lock()
	p.Enqueued += d.Enqueued
	p.Processed += d.Processed
	p.Primes += d.Primes
	if rate != nil {
		p.Rate = *rate
	}
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// copy must be called with the lock held.
func (p *Progress) copy() Progress {
	return Progress{
		RunID:     p.RunID,
		StartedAt: p.StartedAt,
		Enqueued:  p.Enqueued,
		Processed: p.Processed,
		Primes:    p.Primes,
		Rate:      p.Rate,
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// OnChange registers a callback invoked after every Update.  Passing nil
// disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithTracker embeds the tracker in a derived context.
func WithTracker(ctx context.Context, p *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, trackerKey, p)
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(trackerKey).(*Progress)
	return p, ok
}

// GetSnapshot combines FromContext and Snapshot.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if p, ok := FromContext(ctx); ok {
		return p.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx applies the delta to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if p, ok := FromContext(ctx); ok {
		p.Update(d)
	}
}
