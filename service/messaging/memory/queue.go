package memory

import (
	"sync/atomic"

	"github.com/viant/primecount/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	// QueueBuffer is the channel capacity.
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		QueueBuffer: 1024,
	}
}

// Queue implements messaging.Queue on top of a buffered channel.  It is the
// baseline the lock-free queue is compared against; unlike the lock-free
// queue it is bounded by its buffer rather than by an arena.
type Queue[T any] struct {
	messages chan T
	enqueued atomic.Int64
	dequeued atomic.Int64
	rejected atomic.Int64
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan T, config.QueueBuffer),
	}
}

// Enqueue adds a new item to the queue without blocking; it returns
// messaging.ErrQueueFull when the buffer is full.
func (q *Queue[T]) Enqueue(value T) error {
	select {
	case q.messages <- value:
		q.enqueued.Add(1)
		return nil
	default:
		q.rejected.Add(1)
		return messaging.ErrQueueFull
	}
}

// Dequeue retrieves a single item from the queue without blocking.
func (q *Queue[T]) Dequeue() (T, bool) {
	select {
	case value := <-q.messages:
		q.dequeued.Add(1)
		return value, true
	default:
		var zero T
		return zero, false
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int64 {
	return int64(len(q.messages))
}

// Capacity returns the buffer size.
func (q *Queue[T]) Capacity() int {
	return cap(q.messages)
}

// Stats returns operation counters; EnqueueRetries counts rejected
// enqueues.
func (q *Queue[T]) Stats() messaging.Stats {
	return messaging.Stats{
		Enqueued:       q.enqueued.Load(),
		Dequeued:       q.dequeued.Load(),
		EnqueueRetries: q.rejected.Load(),
	}
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
