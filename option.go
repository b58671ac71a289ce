package primecount

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/primecount/predicate"
	"github.com/viant/primecount/progress"
	"github.com/viant/primecount/service/messaging"
	"github.com/viant/primecount/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a Service.
type Option func(s *Service)

// WithConfig replaces the whole configuration.  Options applied after it
// still override individual fields.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			cfg := *config
			s.config = &cfg
		}
	}
}

// WithWorkers sets the number of workers.
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}

// WithMaxQueueSize sets the producer backpressure threshold.
func WithMaxQueueSize(size int64) Option {
	return func(s *Service) {
		s.config.MaxQueueSize = size
	}
}

// WithArenaCapacity sets the maximum number of items per run.
func WithArenaCapacity(capacity int) Option {
	return func(s *Service) {
		s.config.ArenaCapacity = capacity
	}
}

// WithIdleSleep sets the backpressure and idle poll interval.
func WithIdleSleep(d time.Duration) Option {
	return func(s *Service) {
		s.config.IdleSleep = d
	}
}

// WithQueueKind selects the queue implementation.
func WithQueueKind(kind messaging.Kind) Option {
	return func(s *Service) {
		s.config.Queue = kind
	}
}

// WithPinning binds every worker to a CPU.
func WithPinning(enabled bool) Option {
	return func(s *Service) {
		s.config.PinWorkers = enabled
	}
}

// WithPredicate replaces predicate.IsPrime.
func WithPredicate(fn predicate.Func) Option {
	return func(s *Service) {
		s.predicate = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFs sets the file system used for inputs and report uploads.
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithFsOptions sets storage options passed to every download, e.g. an
// *embed.FS for embed:// URLs.
func WithFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.fsOptions = options
	}
}

// WithProgress enables progress sampling every interval; onChange, when
// set, receives every update.
func WithProgress(interval time.Duration, onChange func(progress.Progress)) Option {
	return func(s *Service) {
		s.config.ProgressInterval = interval
		s.onProgress = onChange
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter.  If
// outputFile is empty spans go to stdout.  The first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.initErrs = append(s.initErrs, err)
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom
// exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.initErrs = append(s.initErrs, err)
		}
	}
}
