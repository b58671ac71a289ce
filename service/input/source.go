package input

import (
	"io"
)

// Source yields integers one at a time.  Next returns io.EOF once the input
// is exhausted; any other error is fatal to the run.
type Source interface {
	Next() (int, error)
}

// Slice is an in-memory Source.
type Slice struct {
	values []int
	pos    int
}

// Values returns a Source over the supplied values.
func Values(values ...int) *Slice {
	return &Slice{values: values}
}

// Next returns the next value.
func (s *Slice) Next() (int, error) {
	if s.pos >= len(s.values) {
		return 0, io.EOF
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

// Len returns the number of values not read yet.
func (s *Slice) Len() int {
	return len(s.values) - s.pos
}
