package input

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/viant/parsly"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("invalid integer")

// SyntaxError reports a token that is not a decimal integer fitting int.
type SyntaxError struct {
	Offset int64
	Token  string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v %q at offset %d: %v", ErrSyntax, e.Token, e.Offset, e.Err)
	}
	return fmt.Sprintf("%v %q at offset %d", ErrSyntax, e.Token, e.Offset)
}

func (e *SyntaxError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSyntax}
	}
	return []error{ErrSyntax, e.Err}
}

// Parse returns every integer in data.
func Parse(data []byte) ([]int, error) {
	return parse(data, 0, nil)
}

// parse appends integers found in data to out; base is the absolute offset
// of data in the stream.
func parse(data []byte, base int64, out []int) ([]int, error) {
	cursor := parsly.NewCursor("", data, 0)
	for {
		cursor.MatchOne(whitespaceToken)
		if cursor.Pos >= cursor.InputSize {
			return out, nil
		}
		start := cursor.Pos
		matched := cursor.MatchOne(integerToken)
		if matched.Code != integerCode {
			return out, &SyntaxError{Offset: base + int64(start), Token: string(data[start:tokenEnd(data, start)])}
		}
		text := matched.Text(cursor)
		value, err := strconv.ParseInt(text, 10, strconv.IntSize)
		if err != nil {
			return out, &SyntaxError{Offset: base + int64(start), Token: text, Err: errors.Unwrap(err)}
		}
		out = append(out, int(value))
	}
}
