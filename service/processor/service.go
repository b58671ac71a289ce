package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/primecount/internal/affinity"
	"github.com/viant/primecount/internal/clock"
	"github.com/viant/primecount/internal/logging"
	"github.com/viant/primecount/predicate"
	"github.com/viant/primecount/tracing"
	"golang.org/x/sync/errgroup"
)

// ErrWorkerStart is returned when a worker could not be brought up.
var ErrWorkerStart = errors.New("failed to start worker")

// cancelCheckEvery is how many items a busy worker classifies between
// context checks.
const cancelCheckEvery = 1024

// StartHook runs on the worker goroutine before it reports ready.
type StartHook func(worker int) error

// Config represents worker pool configuration.
type Config struct {
	// WorkerCount is the number of workers; non positive means detected
	// parallelism.
	WorkerCount int

	// IdleSleep is the pause between polls of an empty queue.
	IdleSleep time.Duration

	// Pin locks each worker to its own OS thread bound to one CPU.
	Pin bool
}

// DefaultConfig returns the default worker pool configuration.
func DefaultConfig() Config {
	return Config{
		WorkerCount: affinity.Parallelism(),
		IdleSleep:   10 * time.Microsecond,
	}
}

// Service runs a pool of workers over a shared State.
type Service struct {
	config    Config
	predicate predicate.Func
	logger    logrus.FieldLogger
	startHook StartHook

	mux      sync.Mutex
	group    *errgroup.Group
	span     *tracing.Span
	done     <-chan struct{}
	waitOnce sync.Once
	waitErr  error
}

// New creates a worker pool.
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, opt := range options {
		opt(s)
	}
	if s.config.WorkerCount <= 0 {
		s.config.WorkerCount = affinity.Parallelism()
	}
	if s.config.IdleSleep < 0 {
		return nil, fmt.Errorf("invalid idle sleep: %v", s.config.IdleSleep)
	}
	if s.predicate == nil {
		s.predicate = predicate.IsPrime
	}
	s.logger = logging.OrDiscard(s.logger)
	return s, nil
}

// Workers returns the configured worker count.
func (s *Service) Workers() int {
	return s.config.WorkerCount
}

// Start launches the workers and returns once every one of them is ready.
// If any worker fails to start, the state is marked done, the workers that
// did start are joined and an error wrapping ErrWorkerStart is returned.
func (s *Service) Start(ctx context.Context, state *State) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.group != nil {
		return errors.New("worker pool already started")
	}
	ctx, span := tracing.StartSpan(ctx, "processor.workers", tracing.KindConsumer)
	span.SetInt("workers", int64(s.config.WorkerCount))

	group, groupCtx := errgroup.WithContext(ctx)
	ready := make(chan error, s.config.WorkerCount)
	for i := 0; i < s.config.WorkerCount; i++ {
		id := i
		group.Go(func() error {
			if err := s.prepare(id); err != nil {
				ready <- err
				return err
			}
			ready <- nil
			return s.work(groupCtx, id, state)
		})
	}

	var startErr error
	for i := 0; i < s.config.WorkerCount; i++ {
		if err := <-ready; err != nil && startErr == nil {
			startErr = err
		}
	}
	if startErr != nil {
		state.MarkDone()
		_ = group.Wait()
		err := fmt.Errorf("%w: %w", ErrWorkerStart, startErr)
		tracing.EndSpan(span, err)
		return err
	}
	s.group = group
	s.span = span
	s.done = groupCtx.Done()
	s.logger.WithField("workers", s.config.WorkerCount).Debug("workers started")
	return nil
}

func (s *Service) prepare(id int) error {
	if s.config.Pin {
		if err := affinity.Pin(id); err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}
	}
	if s.startHook != nil {
		if err := s.startHook(id); err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}
	}
	return nil
}

// Done returns a channel closed once the workers stop serving the queue:
// a worker failed, the start context was cancelled or Wait returned.  A
// producer feeding the pool must stop when it is closed, since nobody is
// left to drain the queue.  It is nil before a successful Start.
func (s *Service) Done() <-chan struct{} {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.done
}

// Wait joins all workers and returns the first worker error.
func (s *Service) Wait() error {
	s.mux.Lock()
	group, span := s.group, s.span
	s.mux.Unlock()
	if group == nil {
		return nil
	}
	s.waitOnce.Do(func() {
		s.waitErr = group.Wait()
		tracing.EndSpan(span, s.waitErr)
	})
	return s.waitErr
}

// work is the worker loop.  An empty dequeue ends the worker only when the
// state is drained; otherwise it pauses and polls again.
func (s *Service) work(ctx context.Context, id int, state *State) (err error) {
	logger := s.logger.WithField("worker", id)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: predicate panic: %v", id, r)
			logger.Error(err)
		}
	}()
	queue := state.queue
	var processed, matched int64
	for {
		value, ok := queue.Dequeue()
		if ok {
			if s.predicate(value) {
				state.total.Add(1)
				matched++
			}
			state.processed.Add(1)
			processed++
			if processed%cancelCheckEvery == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		if state.drained() {
			logger.WithFields(logrus.Fields{
				"processed": processed,
				"primes":    matched,
			}).Debug("worker drained")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		clock.Pause(s.config.IdleSleep)
	}
}
