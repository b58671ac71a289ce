package processor

import (
	"sync/atomic"

	"github.com/viant/primecount/service/messaging"
)

// State is shared by the producer and every worker of a single run.
type State struct {
	queue     messaging.Queue[int]
	total     atomic.Int64
	processed atomic.Int64
	done      atomic.Bool
}

// NewState creates the shared state for queue.
func NewState(queue messaging.Queue[int]) *State {
	return &State{queue: queue}
}

// Queue returns the shared queue.
func (s *State) Queue() messaging.Queue[int] { return s.queue }

// MarkDone signals that no further items will be enqueued.  Once set it
// stays set.
func (s *State) MarkDone() { s.done.Store(true) }

// Done reports whether MarkDone was called.
func (s *State) Done() bool { return s.done.Load() }

// Total returns the number of items the predicate accepted so far.
func (s *State) Total() int64 { return s.total.Load() }

// Processed returns the number of items dequeued and classified so far.
func (s *State) Processed() int64 { return s.processed.Load() }

// drained reports whether workers may exit: the producer is done and the
// queue holds nothing.
func (s *State) drained() bool {
	return s.done.Load() && s.queue.Size() <= 0
}
