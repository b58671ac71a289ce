package primecount

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/primecount/service/allocator"
	"github.com/viant/primecount/service/messaging"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of a run configuration.
type Config struct {
	// WorkerCount is the number of workers; 0 means detected parallelism.
	WorkerCount int `json:"workerCount" yaml:"worker_count"`
	// MaxQueueSize is the queue size at which the producer waits.
	MaxQueueSize int64 `json:"maxQueueSize" yaml:"max_queue_size"`
	// ArenaCapacity is the maximum number of items a run can enqueue.
	ArenaCapacity int `json:"arenaCapacity" yaml:"arena_capacity"`
	// IdleSleep is the backpressure and idle poll interval.
	IdleSleep time.Duration `json:"idleSleep" yaml:"idle_sleep_duration"`
	// Queue selects the queue implementation.
	Queue messaging.Kind `json:"queue" yaml:"queue"`
	// PinWorkers binds every worker to a CPU.
	PinWorkers bool `json:"pinWorkers" yaml:"pin_workers"`
	// ProgressInterval enables periodic progress logging when positive.
	ProgressInterval time.Duration `json:"progressInterval" yaml:"progress_interval"`
}

// DefaultConfig returns a Config populated with the default values.
func DefaultConfig() *Config {
	return &Config{
		MaxQueueSize:  256,
		ArenaCapacity: 10_000_000,
		IdleSleep:     10 * time.Microsecond,
		Queue:         messaging.KindLockFree,
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.WorkerCount < 0 {
		errs = append(errs, fmt.Errorf("worker_count must be >= 0, got %d", c.WorkerCount))
	}
	if c.MaxQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("max_queue_size must be > 0, got %d", c.MaxQueueSize))
	}
	if c.ArenaCapacity <= 0 || c.ArenaCapacity > allocator.MaxCapacity {
		errs = append(errs, fmt.Errorf("arena_capacity must be in [1, %d], got %d", allocator.MaxCapacity, c.ArenaCapacity))
	}
	if c.IdleSleep < 0 {
		errs = append(errs, fmt.Errorf("idle_sleep_duration must be >= 0, got %v", c.IdleSleep))
	}
	switch c.Queue {
	case messaging.KindLockFree, messaging.KindChannel:
	default:
		errs = append(errs, fmt.Errorf("unsupported queue: %q", c.Queue))
	}
	if c.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("progress_interval must be >= 0, got %v", c.ProgressInterval))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML config from URL over the defaults.  Keys missing
// from the document keep their default value.
func LoadConfig(ctx context.Context, fs afs.Service, URL string, options ...storage.Option) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	cfg := DefaultConfig()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return cfg, nil
}
