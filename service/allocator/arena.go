package allocator

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MaxCapacity is the largest supported arena.  Handles above it are never
// produced by Allocate and are left to callers for out-of-arena nodes (e.g. a
// queue sentinel).
const MaxCapacity = math.MaxInt32

// ErrArenaExhausted is returned once every slot has been handed out.
var ErrArenaExhausted = errors.New("node arena exhausted")

// Stats is a point-in-time view of arena usage.
type Stats struct {
	Capacity  int `yaml:"capacity" json:"capacity"`
	Allocated int `yaml:"allocated" json:"allocated"`
	// Failed counts Allocate calls rejected after exhaustion.
	Failed int64 `yaml:"failed" json:"failed"`
}

// Arena is a thread-safe, single-use bump allocator of queue nodes.
type Arena[T any] struct {
	_      cpu.CacheLinePad
	next   atomic.Int64 // next free slot; only ever increases
	_      cpu.CacheLinePad
	failed atomic.Int64
	nodes  []Node[T]
}

// New creates an arena with room for capacity nodes.
func New[T any](capacity int) (*Arena[T], error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("invalid arena capacity %d: expected 1..%d", capacity, MaxCapacity)
	}
	return &Arena[T]{nodes: make([]Node[T], capacity)}, nil
}

// Allocate claims the next free slot, stores value in it and returns its
// handle.  The node link is reset to Nil before the handle is returned, so
// the caller may publish it straight away.
func (a *Arena[T]) Allocate(value T) (Handle, error) {
	idx := a.next.Add(1) - 1
	if idx >= int64(len(a.nodes)) {
		a.failed.Add(1)
		return Nil, fmt.Errorf("%w: capacity %d", ErrArenaExhausted, len(a.nodes))
	}
	n := &a.nodes[idx]
	n.value = value
	n.next.Store(uint32(Nil))
	return Handle(idx + 1), nil
}

// Node resolves a handle returned by Allocate.
func (a *Arena[T]) Node(h Handle) *Node[T] {
	return &a.nodes[h-1]
}

// Capacity returns the number of slots.
func (a *Arena[T]) Capacity() int {
	return len(a.nodes)
}

// Allocated returns the number of slots handed out so far.
func (a *Arena[T]) Allocated() int {
	return int(min(a.next.Load(), int64(len(a.nodes))))
}

// Remaining returns the number of slots still available.
func (a *Arena[T]) Remaining() int {
	return len(a.nodes) - a.Allocated()
}

// Stats returns current usage counters.
func (a *Arena[T]) Stats() Stats {
	return Stats{
		Capacity:  len(a.nodes),
		Allocated: a.Allocated(),
		Failed:    a.failed.Load(),
	}
}
