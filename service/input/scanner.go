package input

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// DefaultChunkSize is the read size used by NewScanner.
	DefaultChunkSize = 64 * 1024
	// MaxTokenSize bounds a single token; longer runs of non whitespace are
	// rejected rather than buffered.
	MaxTokenSize = 1024
)

// Scanner is a streaming Source over an io.Reader.  A token split across two
// reads is carried over to the next chunk.
type Scanner struct {
	reader io.Reader
	chunk  []byte
	carry  []byte
	values []int
	pos    int
	offset int64
	eof    bool
	err    error
}

// NewScanner creates a Scanner reading DefaultChunkSize bytes at a time.
func NewScanner(reader io.Reader) *Scanner {
	return NewScannerSize(reader, DefaultChunkSize)
}

// NewScannerSize creates a Scanner with a custom chunk size.
func NewScannerSize(reader io.Reader, chunkSize int) *Scanner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Scanner{reader: reader, chunk: make([]byte, chunkSize)}
}

// Next returns the next integer, io.EOF at the end of the stream, or the
// first read or syntax error.  Values preceding an invalid token are
// returned before its error.
func (s *Scanner) Next() (int, error) {
	for s.pos >= len(s.values) {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

// Offset returns the number of bytes parsed so far.
func (s *Scanner) Offset() int64 {
	return s.offset
}

func (s *Scanner) fill() {
	s.values = s.values[:0]
	s.pos = 0
	if s.eof {
		s.err = io.EOF
		return
	}
	n, err := s.reader.Read(s.chunk)
	data := append(s.carry, s.chunk[:n]...)
	switch {
	case err == io.EOF:
		s.eof = true
	case err != nil:
		s.err = fmt.Errorf("failed to read input: %w", err)
		return
	}

	window, rest := data, data[len(data):]
	if !s.eof {
		i := bytes.LastIndexAny(data, " \t\n\r\v\f")
		if i < 0 {
			if len(data) > MaxTokenSize {
				s.err = &SyntaxError{Offset: s.offset, Token: string(data[:MaxTokenSize]) + "..."}
				return
			}
			s.carry = data
			return
		}
		window, rest = data[:i+1], data[i+1:]
	}
	s.values, s.err = parse(window, s.offset, s.values)
	s.offset += int64(len(window))
	s.carry = append(data[:0], rest...)
}
