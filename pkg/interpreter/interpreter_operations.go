package interpreter

import (
	"github.com/pviafore/CraftingInterpreters/pkg/ast"
	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

func binaryOperation(op ast.Token, left, right runtime.Value) (runtime.Value, error) {
	switch op.Type {
	case ast.TokenEqualEqual:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case ast.TokenBangEqual:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case ast.TokenPlus:
		return addValues(op, left, right)
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, newRuntimeError(op, ErrTypeMismatch, "Operands must be numbers.")
	}
	switch op.Type {
	case ast.TokenMinus:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case ast.TokenStar:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case ast.TokenSlash:
		if r.Val == 0 {
			return nil, newRuntimeError(op, ErrDivisionByZero, "Division by zero detected")
		}
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case ast.TokenGreater:
		return runtime.BoolValue{Val: l.Val > r.Val}, nil
	case ast.TokenGreaterEqual:
		return runtime.BoolValue{Val: l.Val >= r.Val}, nil
	case ast.TokenLess:
		return runtime.BoolValue{Val: l.Val < r.Val}, nil
	case ast.TokenLessEqual:
		return runtime.BoolValue{Val: l.Val <= r.Val}, nil
	default:
		return nil, newRuntimeError(op, nil, "Unsupported binary operator %s", op.Lexeme)
	}
}

// addValues adds numbers, concatenates when either side is a string and
// joins two lists into a new one.
func addValues(op ast.Token, left, right runtime.Value) (runtime.Value, error) {
	if l, ok := left.(runtime.NumberValue); ok {
		if r, ok := right.(runtime.NumberValue); ok {
			return runtime.NumberValue{Val: l.Val + r.Val}, nil
		}
	}
	_, lstr := left.(runtime.StringValue)
	_, rstr := right.(runtime.StringValue)
	if lstr || rstr {
		return runtime.StringValue{Val: stringify(left) + stringify(right)}, nil
	}
	if l, ok := left.(*runtime.ListValue); ok {
		if r, ok := right.(*runtime.ListValue); ok {
			elements := make([]runtime.Value, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, r.Elements...)
			return &runtime.ListValue{Elements: elements}, nil
		}
	}
	return nil, newRuntimeError(op, ErrTypeMismatch, "Operands must be two numbers or two strings")
}

func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case nil:
		return false
	case runtime.NilValue:
		return false
	case runtime.BoolValue:
		return v.Val
	default:
		return true
	}
}

// valuesEqual compares scalars by value and everything else by identity.
// Natives hold a func, so they compare by name and receiver.
func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.NilValue:
		_, ok := right.(runtime.NilValue)
		return ok
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case runtime.NumberValue:
		r, ok := right.(runtime.NumberValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	case runtime.BoundMethodValue:
		r, ok := right.(runtime.BoundMethodValue)
		return ok && l.Method == r.Method && valuesEqual(l.Receiver, r.Receiver)
	case runtime.NativeFunctionValue:
		r, ok := right.(runtime.NativeFunctionValue)
		return ok && l.Name == r.Name && l.Arity == r.Arity
	case runtime.NativeBoundMethodValue:
		r, ok := right.(runtime.NativeBoundMethodValue)
		return ok && l.Method.Name == r.Method.Name && valuesEqual(l.Receiver, r.Receiver)
	default:
		return left == right
	}
}
