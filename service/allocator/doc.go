// Package allocator owns the node arena backing the lock-free execution
// queue.  The arena is a fixed-capacity bump allocator: every Allocate call
// claims a unique slot with a single atomic increment and initialises it.
// There is no release path – slots are never recycled within a run, which is
// what keeps index based links free of ABA hazards.  Capacity must be
// provisioned for the largest number of items a single run will enqueue;
// running out is fatal for that run (see ErrArenaExhausted).
package allocator
