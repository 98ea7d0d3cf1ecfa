package ledger

import "errors"

var (
	// ErrNotFound is returned when the ledger location does not exist.
	ErrNotFound = errors.New("ledger: not found")

	// ErrExists is returned when creating a ledger over an existing one.
	ErrExists = errors.New("ledger: already exists")

	// ErrInvalid is returned when the ledger content cannot be decoded.
	ErrInvalid = errors.New("ledger: invalid document")
)
