package processor

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/primecount/predicate"
)

// Option configures a Service.
type Option func(*Service)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}

// WithPredicate sets the classification function, predicate.IsPrime by
// default.
func WithPredicate(fn predicate.Func) Option {
	return func(s *Service) {
		s.predicate = fn
	}
}

// WithIdleSleep sets how long an idle worker waits before polling again.
func WithIdleSleep(d time.Duration) Option {
	return func(s *Service) {
		s.config.IdleSleep = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithStartHook registers a function each worker runs before it reports
// ready.  A hook error aborts the start with ErrWorkerStart.
func WithStartHook(hook StartHook) Option {
	return func(s *Service) {
		s.startHook = hook
	}
}

// WithPinning pins every worker to a CPU of the process affinity mask.
func WithPinning(enabled bool) Option {
	return func(s *Service) {
		s.config.Pin = enabled
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
