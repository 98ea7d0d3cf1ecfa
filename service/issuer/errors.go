package issuer

import (
	"errors"

	"github.com/viant/mint/service/ledger"
)

var (
	// ErrLedgerNotFound is returned when issuing against a missing ledger.
	ErrLedgerNotFound = ledger.ErrNotFound

	// ErrSequenceExhausted is returned when a batch has no room for the
	// requested quantity.
	ErrSequenceExhausted = errors.New("issuer: sequence exhausted")

	// ErrInvalidQuantity is returned for a non positive quantity.
	ErrInvalidQuantity = errors.New("issuer: quantity must be positive")
)
