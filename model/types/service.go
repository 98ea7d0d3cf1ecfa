// Package types defines the contract shared by mint action services: a named
// service exposes typed methods that can be looked up and invoked by name.
package types

import (
	"context"
	"reflect"
	"strings"
)

// Service is a service interface
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}

// Signatures is a list of method signatures
type Signatures []Signature

// Lookup returns a signature by case-insensitive name
func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		sig := &s[i]
		if strings.EqualFold(sig.Name, name) {
			return sig
		}
	}
	return nil
}

// Signature method signature
type Signature struct {
	Name        string
	Description string
	Input       reflect.Type
	Output      reflect.Type
}

// NewInput allocates an input value for the signature
func (s *Signature) NewInput() interface{} {
	return reflect.New(s.Input.Elem()).Interface()
}

// NewOutput allocates an output value for the signature
func (s *Signature) NewOutput() interface{} {
	return reflect.New(s.Output.Elem()).Interface()
}

// Executable is a function that can be executed
type Executable func(ctx context.Context, input, output interface{}) error
