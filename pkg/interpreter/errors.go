package interpreter

import (
	"errors"
	"fmt"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
)

var (
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrNotCallable       = errors.New("not callable")
	ErrArity             = errors.New("wrong number of arguments")
	ErrUndefinedProperty = errors.New("undefined property")
	ErrNotAClass         = errors.New("not a class")
	ErrIndex             = errors.New("invalid index")
)

// RuntimeError aborts the current top-level statement. Token locates the
// failure; Err is the underlying cause for errors.Is checks.
type RuntimeError struct {
	Token   ast.Token
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func newRuntimeError(token ast.Token, cause error, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: token, Message: fmt.Sprintf(format, args...), Err: cause}
}

// asRuntimeError anchors err at token unless it already carries a location.
func asRuntimeError(token ast.Token, err error) error {
	if err == nil {
		return nil
	}
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return err
	}
	return &RuntimeError{Token: token, Message: err.Error(), Err: err}
}
