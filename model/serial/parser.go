package serial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// Parse parses a complete identifier: prefix[-]batch[5 digits][1 digit].
// The checksum digit is parsed but not validated; use Serial.Valid.
func Parse(id string) (*Serial, error) {
	cursor := parsly.NewCursor("", []byte(strings.TrimSpace(id)), 0)
	ret := &Serial{}

	matched := cursor.MatchOne(prefixToken)
	if matched.Code != prefixToken.Code {
		return nil, cursor.NewError(prefixToken)
	}
	ret.Prefix = matched.Text(cursor)

	matched = cursor.MatchOne(separatorToken)
	if matched.Code != separatorToken.Code {
		return nil, cursor.NewError(separatorToken)
	}

	matched = cursor.MatchOne(batchToken)
	if matched.Code != batchToken.Code {
		return nil, cursor.NewError(batchToken)
	}
	ret.Batch = matched.Text(cursor)

	matched = cursor.MatchOne(sequenceToken)
	if matched.Code != sequenceToken.Code {
		return nil, cursor.NewError(sequenceToken)
	}
	ret.Sequence, _ = strconv.Atoi(matched.Text(cursor))

	matched = cursor.MatchOne(checksumToken)
	if matched.Code != checksumToken.Code {
		return nil, cursor.NewError(checksumToken)
	}
	ret.Checksum, _ = strconv.Atoi(matched.Text(cursor))

	if cursor.Pos < cursor.InputSize {
		return nil, fmt.Errorf("unexpected trailing text %q in %q", cursor.Input[cursor.Pos:], id)
	}
	return ret, nil
}

// Find looks for the first "prefix-batch" occurrence in text that is followed
// by a sequence and a checksum digit, and returns that sequence. Trailing
// text is ignored and the checksum is not validated.
func Find(text, prefix, batch string) (int, bool) {
	literal := prefix + string(separator) + batch
	literalToken := newLiteralToken(literal)
	input := []byte(text)
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], literal)
		if idx < 0 {
			return 0, false
		}
		cursor := parsly.NewCursor("", input, 0)
		cursor.Pos = offset + idx
		if sequence, ok := matchSequence(cursor, literalToken); ok {
			return sequence, true
		}
		offset += idx + 1
	}
	return 0, false
}

func matchSequence(cursor *parsly.Cursor, literalToken *parsly.Token) (int, bool) {
	if matched := cursor.MatchOne(literalToken); matched.Code != literalToken.Code {
		return 0, false
	}
	matched := cursor.MatchOne(sequenceToken)
	if matched.Code != sequenceToken.Code {
		return 0, false
	}
	sequence, err := strconv.Atoi(matched.Text(cursor))
	if err != nil {
		return 0, false
	}
	if matched = cursor.MatchOne(checksumToken); matched.Code != checksumToken.Code {
		return 0, false
	}
	return sequence, true
}
