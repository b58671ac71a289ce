package allocator

import "sync/atomic"

// Handle identifies a node by its 1-based arena slot.  The zero Handle means
// "no node" and terminates a chain.
type Handle uint32

// Nil is the empty link.
const Nil Handle = 0

// Node is a single queue cell: an immutable value plus an atomic link to the
// next cell.  Once published the link is only mutated with CompareAndSwapNext.
type Node[T any] struct {
	value T
	next  atomic.Uint32
}

// Value returns the node payload.
func (n *Node[T]) Value() T {
	return n.value
}

// Next returns the successor link.
func (n *Node[T]) Next() Handle {
	return Handle(n.next.Load())
}

// CompareAndSwapNext links next when the current successor equals old.
func (n *Node[T]) CompareAndSwapNext(old, next Handle) bool {
	return n.next.CompareAndSwap(uint32(old), uint32(next))
}
