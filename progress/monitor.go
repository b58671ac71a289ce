package progress

import (
	"context"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/sirupsen/logrus"
	"github.com/viant/primecount/internal/clock"
)

// DefaultWindow is the number of samples the moving rate is computed over.
const DefaultWindow = 8

// Counters returns cumulative totals of a running pipeline.
type Counters func() Delta

type sample struct {
	at        time.Time
	processed int64
}

// Monitor periodically samples Counters, folds the change into a Progress
// tracker and logs a moving processed-per-second rate.
type Monitor struct {
	tracker  *Progress
	counters Counters
	interval time.Duration
	window   int
	logger   logrus.FieldLogger

	samples *queue.Queue
	last    Delta

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMonitor creates a monitor.  A non positive window falls back to
// DefaultWindow; a nil logger disables logging.
func NewMonitor(tracker *Progress, counters Counters, interval time.Duration, window int, logger logrus.FieldLogger) *Monitor {
	if window <= 1 {
		window = DefaultWindow
	}
	return &Monitor{
		tracker:  tracker,
		counters: counters,
		interval: interval,
		window:   window,
		logger:   logger,
		samples:  queue.New(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sampling goroutine.  It returns immediately when the
// interval is not positive.
func (m *Monitor) Start(ctx context.Context) {
	if m.interval <= 0 {
		close(m.done)
		return
	}
	go m.run(ctx)
}

// Stop takes a final sample and waits for the sampling goroutine to exit.
func (m *Monitor) Stop() Progress {
	m.once.Do(func() { close(m.stop) })
	<-m.done
	m.Sample(clock.Now())
	return m.tracker.Snapshot()
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case now := <-ticker.C:
			p := m.Sample(now)
			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{
					"run":       p.RunID,
					"enqueued":  p.Enqueued,
					"processed": p.Processed,
					"primes":    p.Primes,
					"rate":      int64(p.Rate),
				}).Info("progress")
			}
		}
	}
}

// Sample reads the counters once, applies the change since the previous
// sample and returns the updated snapshot.  Sample is not safe for
// concurrent use; Start and Stop serialise it.
func (m *Monitor) Sample(now time.Time) Progress {
	current := m.counters()
	d := Delta{
		Enqueued:  current.Enqueued - m.last.Enqueued,
		Processed: current.Processed - m.last.Processed,
		Primes:    current.Primes - m.last.Primes,
	}
	m.last = current

	m.samples.Add(sample{at: now, processed: current.Processed})
	for m.samples.Length() > m.window {
		m.samples.Remove()
	}
	rate := m.Rate()
	m.tracker.apply(d, &rate)
	return m.tracker.Snapshot()
}

// Rate returns processed values per second across the sample window.
func (m *Monitor) Rate() float64 {
	if m.samples.Length() < 2 {
		return 0
	}
	first := m.samples.Peek().(sample)
	last := m.samples.Get(m.samples.Length() - 1).(sample)
	elapsed := last.at.Sub(first.at).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(last.processed-first.processed) / elapsed
}
