package types

import (
	"errors"
	"fmt"
)

var (
	// ErrMethodNotFound is returned for unknown method names.
	ErrMethodNotFound = errors.New("method not found")
	// ErrInvalidArgument is returned when input or output has unexpected type.
	ErrInvalidArgument = errors.New("invalid argument")
)

func NewMethodNotFoundError(name string) error {
	return fmt.Errorf("%w: %v", ErrMethodNotFound, name)
}

func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("%w: input %T", ErrInvalidArgument, in)
}

func NewInvalidOutputError(out interface{}) error {
	return fmt.Errorf("%w: output %T", ErrInvalidArgument, out)
}
