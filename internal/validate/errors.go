// Package validate checks use-case arguments before any side effect happens.
// Every failure is one of the typed errors below and matches ErrValidation.
package validate

import (
	"errors"
	"fmt"
)

// ErrValidation is matched (errors.Is) by every error this package returns.
var ErrValidation = errors.New("validation error")

// RequirementError reports a required argument that was not supplied.
type RequirementError struct{ Name string }

func (e *RequirementError) Error() string { return fmt.Sprintf("%s is not optional", e.Name) }
func (e *RequirementError) Unwrap() error { return ErrValidation }

// ValueError reports a string argument that is blank after trimming.
type ValueError struct{ Name string }

func (e *ValueError) Error() string { return fmt.Sprintf("%s is empty", e.Name) }
func (e *ValueError) Unwrap() error { return ErrValidation }

// LengthError reports a string argument longer than Max bytes.
type LengthError struct {
	Name string
	Max  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s is longer than %d bytes", e.Name, e.Max)
}
func (e *LengthError) Unwrap() error { return ErrValidation }

// FormatError reports a value that does not look like an e-mail address.
type FormatError struct{ Value string }

func (e *FormatError) Error() string { return fmt.Sprintf("%s is not an e-mail", e.Value) }
func (e *FormatError) Unwrap() error { return ErrValidation }

// TypeError reports an argument of the wrong kind.
type TypeError struct {
	Name  string
	Value any
	Want  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s %v is not a %s", e.Name, e.Value, e.Want)
}
func (e *TypeError) Unwrap() error { return ErrValidation }
