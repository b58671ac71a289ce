// Package producer feeds a Source into the shared queue, holding back while
// the queue is above its soft size limit.
package producer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/primecount/internal/clock"
	"github.com/viant/primecount/internal/logging"
	"github.com/viant/primecount/service/input"
	"github.com/viant/primecount/service/messaging"
	"github.com/viant/primecount/tracing"
)

// Config represents producer configuration.
type Config struct {
	// MaxQueueSize is the queue size at which the producer stops and waits.
	MaxQueueSize int64
	// IdleSleep is the pause between size checks while waiting.
	IdleSleep time.Duration
}

// DefaultConfig returns the default producer configuration.
func DefaultConfig() Config {
	return Config{MaxQueueSize: 256, IdleSleep: 10 * time.Microsecond}
}

// Stats represents producer counters.
type Stats struct {
	Published int64 `yaml:"published" json:"published"`
	// Waits counts backpressure pauses.
	Waits int64 `yaml:"waits" json:"waits"`
	// PeakSize is the largest queue size observed right after an enqueue.
	PeakSize int64 `yaml:"peakSize" json:"peakSize"`
}

// Service publishes integers into a queue.
type Service struct {
	queue  messaging.Queue[int]
	config Config
	logger logrus.FieldLogger

	published atomic.Int64
	waits     atomic.Int64
	peak      atomic.Int64
}

// New creates a producer for queue.
func New(queue messaging.Queue[int], config Config, logger logrus.FieldLogger) (*Service, error) {
	if queue == nil {
		return nil, errors.New("queue is required")
	}
	if config.MaxQueueSize <= 0 {
		return nil, fmt.Errorf("invalid max queue size: %v", config.MaxQueueSize)
	}
	return &Service{queue: queue, config: config, logger: logging.OrDiscard(logger)}, nil
}

// Publish reads src to exhaustion, enqueueing every value.  It returns the
// number of values published and stops at the first read, enqueue or
// context error.
func (s *Service) Publish(ctx context.Context, src input.Source) (published int64, err error) {
	ctx, span := tracing.StartSpan(ctx, "producer.publish", tracing.KindProducer)
	defer func() {
		span.SetInt("published", published)
		tracing.EndSpan(span, err)
	}()
	for {
		value, nextErr := src.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return published, fmt.Errorf("failed to read input: %w", nextErr)
		}
		if err = s.publish(ctx, value); err != nil {
			return published, err
		}
		published++
	}
	s.logger.WithFields(logrus.Fields{
		"enqueued": published,
		"waits":    s.waits.Load(),
	}).Debug("producer finished")
	return published, nil
}

func (s *Service) publish(ctx context.Context, value int) error {
	for {
		if err := s.throttle(ctx); err != nil {
			return err
		}
		err := s.queue.Enqueue(value)
		if err == nil {
			s.published.Add(1)
			s.observe(s.queue.Size())
			return nil
		}
		if !errors.Is(err, messaging.ErrQueueFull) {
			return fmt.Errorf("failed to enqueue %d: %w", value, err)
		}
		if err := s.wait(ctx); err != nil {
			return err
		}
	}
}

// throttle blocks while the queue is at or above MaxQueueSize.
func (s *Service) throttle(ctx context.Context) error {
	for s.queue.Size() >= s.config.MaxQueueSize {
		if err := s.wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.waits.Add(1)
	clock.Pause(s.config.IdleSleep)
	return nil
}

func (s *Service) observe(size int64) {
	for {
		peak := s.peak.Load()
		if size <= peak || s.peak.CompareAndSwap(peak, size) {
			return
		}
	}
}

// Stats returns the producer counters.
func (s *Service) Stats() Stats {
	return Stats{
		Published: s.published.Load(),
		Waits:     s.waits.Load(),
		PeakSize:  s.peak.Load(),
	}
}
