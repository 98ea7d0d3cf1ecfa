// Package serial defines banknote serial identifiers of the form
// PREFIX-BATCH<5 digit sequence><checksum digit>, e.g. SLS-AA100012.
package serial

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SequenceDigits is the fixed width of the sequence part.
	SequenceDigits = 5
	// MaxSequence is the largest sequence that fits SequenceDigits.
	MaxSequence = 99999
	// DefaultPrefix is the series prefix used when none is configured.
	DefaultPrefix = "SLS"
	separator     = '-'
)

var (
	// ErrInvalidBatch is returned for empty or non alphanumeric batch codes.
	ErrInvalidBatch = errors.New("serial: invalid batch code")
	// ErrSequenceRange is returned when a sequence does not fit SequenceDigits.
	ErrSequenceRange = errors.New("serial: sequence out of range")
)

// Serial represents a parsed or newly formed identifier.
type Serial struct {
	Prefix   string `json:"prefix"`
	Batch    string `json:"batch"`
	Sequence int    `json:"sequence"`
	Checksum int    `json:"checksum"`
}

// New forms a serial for the supplied sequence, deriving its checksum.
func New(prefix, batch string, sequence int) (*Serial, error) {
	if sequence < 0 || sequence > MaxSequence {
		return nil, fmt.Errorf("%w: %d", ErrSequenceRange, sequence)
	}
	if !isAlphanumeric(batch) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBatch, batch)
	}
	return &Serial{
		Prefix:   prefix,
		Batch:    batch,
		Sequence: sequence,
		Checksum: Checksum(sequence),
	}, nil
}

// String returns the identifier text.
func (s *Serial) String() string {
	return fmt.Sprintf("%s%c%s%0*d%d", s.Prefix, separator, s.Batch, SequenceDigits, s.Sequence, s.Checksum)
}

// Valid reports whether the checksum digit matches the sequence.
func (s *Serial) Valid() bool {
	return s != nil && s.Checksum == Checksum(s.Sequence)
}

// Checksum returns the last digit of the decimal digit sum of sequence,
// e.g. 10001 -> 2, 10019 -> 1.
func Checksum(sequence int) int {
	if sequence < 0 {
		sequence = -sequence
	}
	sum := 0
	for ; sequence > 0; sequence /= 10 {
		sum += sequence % 10
	}
	return sum % 10
}

// NormalizeBatch upper-cases and trims a batch code and checks it only
// contains ASCII letters and digits.
func NormalizeBatch(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !isAlphanumeric(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBatch, code)
	}
	return code, nil
}

func isAlphanumeric(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if !isLetter(text[i]) && !isDigit(text[i]) {
			return false
		}
	}
	return true
}
