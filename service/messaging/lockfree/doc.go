// Package lockfree implements the Michael–Scott non-blocking FIFO queue on
// top of the allocator arena.  Links between nodes are arena handles rather
// than pointers, and nodes are never recycled, so the classic ABA and
// use-after-free hazards of the algorithm cannot occur.
//
// Any number of goroutines may call Enqueue and Dequeue concurrently.  No
// operation ever blocks; contention is resolved with compare-and-swap
// retries, yielding the processor every few failed rounds.
package lockfree
