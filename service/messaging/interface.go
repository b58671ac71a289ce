package messaging

import "errors"

// ErrQueueFull is returned by bounded implementations that cannot accept
// another item right now.  Callers treat it as backpressure and retry.
var ErrQueueFull = errors.New("queue is full")

// Kind names a queue implementation.
type Kind string

const (
	// KindLockFree is the arena backed Michael–Scott queue.
	KindLockFree Kind = "lockfree"
	// KindChannel is the buffered channel queue.
	KindChannel Kind = "channel"
)

// Queue represents a non-blocking FIFO shared by producers and consumers.
type Queue[T any] interface {
	// Enqueue appends a value.  It never blocks.
	Enqueue(value T) error

	// Dequeue removes the oldest value; ok is false when the queue is empty.
	// An empty queue is a normal flow-control state, not an error.
	Dequeue() (value T, ok bool)

	// Size returns the advisory number of queued items.  It may briefly
	// disagree with the structural state while operations are in flight
	// and converges once they are quiescent.
	Size() int64
}

// Stats represents queue operation counters.
type Stats struct {
	Enqueued int64 `yaml:"enqueued" json:"enqueued"`
	Dequeued int64 `yaml:"dequeued" json:"dequeued"`
	// EnqueueRetries counts failed link attempts caused by contention.
	EnqueueRetries int64 `yaml:"enqueueRetries" json:"enqueueRetries"`
	// DequeueRetries counts failed head advances caused by contention.
	DequeueRetries int64 `yaml:"dequeueRetries" json:"dequeueRetries"`
	// TailLag counts how often an operation found the tail behind and
	// helped advance it.
	TailLag int64 `yaml:"tailLag" json:"tailLag"`
}
