// Package messaging defines the queue contract shared by the producer and
// the worker pool.  Implementations live in sub-packages: lockfree (arena
// backed Michael–Scott queue) and memory (buffered channel).
package messaging
