// Package progress tracks the counters of a single prime counting run
// (values enqueued, processed and classified prime) and optionally samples
// them on an interval to log throughput.
package progress
