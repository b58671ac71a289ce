// Package processor hosts the worker pool.  Every worker dequeues integers
// from the shared queue, classifies them with a predicate and accumulates
// the number of matches in the shared State.  Workers drain the queue and
// exit once the producer has marked the state done and no items remain.
package processor
