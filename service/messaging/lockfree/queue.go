package lockfree

import (
	"math"
	"runtime"
	"sync/atomic"

	"github.com/viant/primecount/service/allocator"
	"github.com/viant/primecount/service/messaging"
	"golang.org/x/sys/cpu"
)

// sentinel addresses the queue owned dummy node; it lies outside the range
// of arena handles.
const sentinel = allocator.Handle(math.MaxUint32)

const goschedEvery = 64 // yield to the scheduler every N failed CAS rounds

// Queue is an unbounded (arena bounded) multi-producer multi-consumer FIFO.
type Queue[T any] struct {
	_    cpu.CacheLinePad
	head atomic.Uint32 // consumed node; the first live value is head.next
	_    cpu.CacheLinePad
	tail atomic.Uint32 // newest known node, may lag the real end
	_    cpu.CacheLinePad
	size atomic.Int64 // advisory item count
	_    cpu.CacheLinePad

	enqueueRetries atomic.Int64
	dequeueRetries atomic.Int64
	tailLag        atomic.Int64

	// dummy is the initial sentinel.  It belongs to the queue, not to the
	// arena, and is released together with the queue.
	dummy allocator.Node[T]
	arena *allocator.Arena[T]
}

// New creates an empty queue allocating its nodes from arena.
func New[T any](arena *allocator.Arena[T]) *Queue[T] {
	q := &Queue[T]{arena: arena}
	q.head.Store(uint32(sentinel))
	q.tail.Store(uint32(sentinel))
	return q
}

func (q *Queue[T]) node(h allocator.Handle) *allocator.Node[T] {
	if h == sentinel {
		return &q.dummy
	}
	return q.arena.Node(h)
}

// Enqueue allocates a node for value and links it at the end of the chain.
// The only possible error is allocator.ErrArenaExhausted.
func (q *Queue[T]) Enqueue(value T) error {
	h, err := q.arena.Allocate(value)
	if err != nil {
		return err
	}
	var spins uint32
	for {
		tail := allocator.Handle(q.tail.Load())
		last := q.node(tail)
		next := last.Next()
		if tail == allocator.Handle(q.tail.Load()) {
			if next == allocator.Nil {
				if last.CompareAndSwapNext(allocator.Nil, h) {
					// best effort; a failure means someone already helped
					q.tail.CompareAndSwap(uint32(tail), uint32(h))
					q.size.Add(1)
					return nil
				}
			} else {
				q.tailLag.Add(1)
				q.tail.CompareAndSwap(uint32(tail), uint32(next))
			}
		}
		q.enqueueRetries.Add(1)
		spins++
		if spins%goschedEvery == 0 {
			runtime.Gosched()
		}
	}
}

// Dequeue unlinks the oldest value.  It returns (zero, false) when the queue
// is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	var zero T
	var spins uint32
	for {
		head := allocator.Handle(q.head.Load())
		tail := allocator.Handle(q.tail.Load())
		next := q.node(head).Next()
		if head == allocator.Handle(q.head.Load()) {
			if head == tail {
				if next == allocator.Nil {
					return zero, false
				}
				q.tailLag.Add(1)
				q.tail.CompareAndSwap(uint32(tail), uint32(next))
			} else if next != allocator.Nil {
				// read before the CAS: once head moves the node is owned
				// by whoever advanced it
				value := q.node(next).Value()
				if q.head.CompareAndSwap(uint32(head), uint32(next)) {
					q.size.Add(-1)
					return value, true
				}
			}
		}
		q.dequeueRetries.Add(1)
		spins++
		if spins%goschedEvery == 0 {
			runtime.Gosched()
		}
	}
}

// Size returns the advisory number of queued items.
func (q *Queue[T]) Size() int64 {
	return q.size.Load()
}

// Empty reports whether the chain holds no unconsumed node.
func (q *Queue[T]) Empty() bool {
	return q.node(allocator.Handle(q.head.Load())).Next() == allocator.Nil
}

// Arena returns the backing arena.
func (q *Queue[T]) Arena() *allocator.Arena[T] {
	return q.arena
}

// Stats returns operation counters.  Enqueued counts nodes handed out by
// the arena, so it is exact once in-flight enqueues have returned.
func (q *Queue[T]) Stats() messaging.Stats {
	enqueued := int64(q.arena.Allocated())
	return messaging.Stats{
		Enqueued:       enqueued,
		Dequeued:       enqueued - q.size.Load(),
		EnqueueRetries: q.enqueueRetries.Load(),
		DequeueRetries: q.dequeueRetries.Load(),
		TailLag:        q.tailLag.Load(),
	}
}

var _ messaging.Queue[int] = (*Queue[int])(nil)
