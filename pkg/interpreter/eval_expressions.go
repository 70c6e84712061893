package interpreter

import (
	"fmt"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

func (i *Interpreter) evaluate(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return literalValue(n.Value)
	case *ast.Grouping:
		return i.evaluate(n.Expression, env)
	case *ast.Unary:
		return i.evaluateUnary(n, env)
	case *ast.Binary:
		return i.evaluateBinary(n, env)
	case *ast.Logical:
		return i.evaluateLogical(n, env)
	case *ast.Ternary:
		cond, err := i.evaluate(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return i.evaluate(n.Then, env)
		}
		return i.evaluate(n.Else, env)
	case *ast.Variable:
		return i.lookupVariable(n, n.Name, env)
	case *ast.Assign:
		return i.evaluateAssign(n, env)
	case *ast.Call:
		return i.evaluateCall(n, env)
	case *ast.FunctionExpr:
		return &runtime.FunctionValue{
			Declaration: n,
			Params:      n.Params,
			Body:        n.Body,
			Closure:     env,
		}, nil
	case *ast.Get:
		return i.evaluateGet(n, env)
	case *ast.Set:
		return i.evaluateSet(n, env)
	case *ast.This:
		return i.lookupVariable(n, n.Keyword, env)
	case *ast.Super:
		return i.evaluateSuper(n, env)
	case *ast.Inner:
		return i.evaluateInner(n, env)
	case *ast.ListLiteral:
		elements := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluate(el, env)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return &runtime.ListValue{Elements: elements}, nil
	case *ast.Index:
		return i.evaluateIndex(n, env)
	case *ast.IndexSet:
		return i.evaluateIndexSet(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

func literalValue(value any) (runtime.Value, error) {
	switch v := value.(type) {
	case nil:
		return runtime.NilValue{}, nil
	case bool:
		return runtime.BoolValue{Val: v}, nil
	case float64:
		return runtime.NumberValue{Val: v}, nil
	case string:
		return runtime.StringValue{Val: v}, nil
	default:
		return nil, fmt.Errorf("unsupported literal %T", value)
	}
}

// lookupVariable reads a resolved local by address, otherwise a global by name.
func (i *Interpreter) lookupVariable(ref ast.Reference, name ast.Token, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if addr, ok := i.locals[ref.RefID()]; ok {
		val, err = env.GetAt(addr.Hops, addr.Slot)
	} else {
		val, err = i.global.Get(name.Lexeme)
	}
	if err != nil {
		return nil, asRuntimeError(name, err)
	}
	return val, nil
}

func (i *Interpreter) evaluateAssign(assign *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluate(assign.Value, env)
	if err != nil {
		return nil, err
	}
	if addr, ok := i.locals[assign.RefID()]; ok {
		err = env.AssignAt(addr.Hops, addr.Slot, val)
	} else {
		err = i.global.Assign(assign.Name.Lexeme, val)
	}
	if err != nil {
		return nil, asRuntimeError(assign.Name, err)
	}
	return val, nil
}

func (i *Interpreter) evaluateUnary(expr *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Type {
	case ast.TokenMinus:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, newRuntimeError(expr.Operator, ErrTypeMismatch, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case ast.TokenBang:
		return runtime.BoolValue{Val: !isTruthy(right)}, nil
	default:
		return nil, newRuntimeError(expr.Operator, nil, "Unsupported unary operator %s", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinary(expr *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Type == ast.TokenComma {
		return right, nil
	}
	return binaryOperation(expr.Operator, left, right)
}

func (i *Interpreter) evaluateLogical(expr *ast.Logical, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Type == ast.TokenOr {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}
	return i.evaluate(expr.Right, env)
}

func (i *Interpreter) evaluateCall(call *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluate(call.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, err := i.evaluate(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.callValue(callee, args, call.Paren)
}

// callValue applies any callable value to already-evaluated arguments.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, at ast.Token) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		if err := checkArity(at, fn.Arity(), len(args)); err != nil {
			return nil, err
		}
		return i.invokeFunction(fn, fn.Closure, args)
	case runtime.BoundMethodValue:
		if err := checkArity(at, fn.Method.Arity(), len(args)); err != nil {
			return nil, err
		}
		return i.invokeMethod(fn.Method, fn.Receiver, args)
	case runtime.NativeFunctionValue:
		if err := checkArity(at, fn.Arity, len(args)); err != nil {
			return nil, err
		}
		val, err := fn.Impl(&runtime.NativeCallContext{}, args)
		return val, asRuntimeError(at, err)
	case runtime.NativeBoundMethodValue:
		if err := checkArity(at, fn.Method.Arity, len(args)); err != nil {
			return nil, err
		}
		val, err := fn.Method.Impl(&runtime.NativeCallContext{Receiver: fn.Receiver}, args)
		return val, asRuntimeError(at, err)
	case *runtime.ClassValue:
		return i.instantiate(fn, args, at)
	default:
		return nil, newRuntimeError(at, ErrNotCallable, "Can only call functions and classes.")
	}
}

func checkArity(at ast.Token, want, got int) error {
	if want != got {
		return newRuntimeError(at, ErrArity, "Expected %d arguments but got %d.", want, got)
	}
	return nil
}

// invokeFunction runs fn's body in a fresh frame under closure holding the
// parameters in declaration order.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, closure *runtime.Environment, args []runtime.Value) (runtime.Value, error) {
	env := runtime.NewEnvironment(closure)
	for idx, param := range fn.Params {
		env.Define(param.Lexeme, args[idx])
	}
	result, err := i.executeBlock(fn.Body, env)
	if err != nil {
		return nil, err
	}
	if result.kind == completionReturn {
		return result.value, nil
	}
	return runtime.NilValue{}, nil
}
