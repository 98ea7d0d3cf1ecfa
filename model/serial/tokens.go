package serial

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	prefixCode = iota
	separatorCode
	batchCode
	sequenceCode
	checksumCode
	literalCode
)

var (
	prefixToken    = parsly.NewToken(prefixCode, "Prefix", &alphanumericMatcher{})
	separatorToken = parsly.NewToken(separatorCode, "-", matcher.NewByte(separator))
	batchToken     = parsly.NewToken(batchCode, "Batch", &batchMatcher{suffix: SequenceDigits + 1})
	sequenceToken  = parsly.NewToken(sequenceCode, "Sequence", &digitsMatcher{count: SequenceDigits})
	checksumToken  = parsly.NewToken(checksumCode, "Checksum", &digitsMatcher{count: 1})
)

func newLiteralToken(text string) *parsly.Token {
	return parsly.NewToken(literalCode, text, &literalMatcher{value: []byte(text)})
}

// alphanumericMatcher matches a run of ASCII letters and digits.
type alphanumericMatcher struct{}

func (m *alphanumericMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if !isLetter(cursor.Input[i]) && !isDigit(cursor.Input[i]) {
			break
		}
		matched++
	}
	return matched
}

// batchMatcher matches alphanumerics up to the fixed-width numeric suffix.
type batchMatcher struct {
	suffix int
}

func (m *batchMatcher) Match(cursor *parsly.Cursor) int {
	end := cursor.InputSize - m.suffix
	if end <= cursor.Pos {
		return 0
	}
	for i := cursor.Pos; i < end; i++ {
		if !isLetter(cursor.Input[i]) && !isDigit(cursor.Input[i]) {
			return 0
		}
	}
	return end - cursor.Pos
}

// digitsMatcher matches exactly count decimal digits.
type digitsMatcher struct {
	count int
}

func (m *digitsMatcher) Match(cursor *parsly.Cursor) int {
	if cursor.Pos+m.count > cursor.InputSize {
		return 0
	}
	for i := cursor.Pos; i < cursor.Pos+m.count; i++ {
		if !isDigit(cursor.Input[i]) {
			return 0
		}
	}
	return m.count
}

// literalMatcher matches an exact byte sequence.
type literalMatcher struct {
	value []byte
}

func (m *literalMatcher) Match(cursor *parsly.Cursor) int {
	if cursor.Pos+len(m.value) > cursor.InputSize {
		return 0
	}
	for i, b := range m.value {
		if cursor.Input[cursor.Pos+i] != b {
			return 0
		}
	}
	return len(m.value)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
