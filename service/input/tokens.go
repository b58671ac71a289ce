package input

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes start at 1 to stay clear of parsly.EOF.
const (
	whitespaceCode = iota + 1
	integerCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	integerToken    = parsly.NewToken(integerCode, "Integer", &integerMatcher{})
)

// integerMatcher matches an optionally signed run of decimal digits that is
// followed by whitespace or the end of input.
type integerMatcher struct{}

func (m *integerMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	i := pos
	if input[i] == '-' || input[i] == '+' {
		i++
	}
	digits := 0
	for ; i < size && isDigit(input[i]); i++ {
		digits++
	}
	if digits == 0 {
		return 0
	}
	if i < size && !isSpace(input[i]) {
		return 0
	}
	return i - pos
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// tokenEnd returns the end of the non whitespace run starting at pos.
func tokenEnd(data []byte, pos int) int {
	for pos < len(data) && !isSpace(data[pos]) {
		pos++
	}
	return pos
}
