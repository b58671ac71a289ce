// Package input turns byte streams of whitespace separated decimal integers
// into a Source the producer can drain.  Streams are read in chunks so that
// inputs larger than memory can be counted.
package input
