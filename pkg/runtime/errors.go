package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrUndefinedVariable     = errors.New("undefined variable")
	ErrUninitializedVariable = errors.New("uninitialized variable")
	ErrAmbiguousMethod       = errors.New("ambiguous method")
)

// VariableError reports a failed name or slot access.
type VariableError struct {
	Name string
	Err  error
}

func (e *VariableError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUninitializedVariable):
		return fmt.Sprintf("Uninitialized variable '%s'.", e.Name)
	case errors.Is(e.Err, ErrUndefinedVariable):
		return fmt.Sprintf("Undefined variable '%s'.", e.Name)
	default:
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
}

func (e *VariableError) Unwrap() error { return e.Err }

// AmbiguousMethodError is returned by FindMethod when the superclass chain and
// a mixin both supply a method of the same name.
type AmbiguousMethodError struct {
	Class  string
	Method string
	Mixin  string
}

func (e *AmbiguousMethodError) Error() string {
	return fmt.Sprintf("Ambiguous method '%s' on %s: mixin %s conflicts with an inherited definition.", e.Method, e.Class, e.Mixin)
}

func (e *AmbiguousMethodError) Unwrap() error { return ErrAmbiguousMethod }
