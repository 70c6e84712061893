package interpreter

import (
	"fmt"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

// methodFrame is attached to the frame that binds this for one method call.
type methodFrame struct {
	method *runtime.FunctionValue
}

// invokeMethod calls method with this bound to receiver. The class frame
// holds this at slot 0 and, for subclasses, super at slot 1. Initializers
// always produce the receiver.
func (i *Interpreter) invokeMethod(method *runtime.FunctionValue, receiver runtime.Value, args []runtime.Value) (runtime.Value, error) {
	frame := runtime.NewEnvironment(method.Closure)
	frame.Define("this", receiver)
	if method.Owner != nil && method.Owner.Superclass != nil {
		frame.Define("super", method.Owner.Superclass)
	}
	frame.SetRuntimeData(&methodFrame{method: method})

	result, err := i.invokeFunction(method, frame, args)
	if err != nil {
		return nil, err
	}
	if method.IsInitializer {
		return receiver, nil
	}
	return result, nil
}

func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value, at ast.Token) (runtime.Value, error) {
	if err := checkArity(at, class.Arity(), len(args)); err != nil {
		return nil, err
	}
	instance := runtime.NewInstance(class)
	if init := class.Initializer(); init != nil {
		if _, err := i.invokeMethod(init, instance, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// bindMember produces the value of a method accessed through receiver.
// Property methods run immediately and yield their result.
func (i *Interpreter) bindMember(method *runtime.FunctionValue, receiver runtime.Value) (runtime.Value, error) {
	if method.IsProperty {
		return i.invokeMethod(method, receiver, nil)
	}
	return runtime.BoundMethodValue{Receiver: receiver, Method: method}, nil
}

func (i *Interpreter) evaluateGet(expr *ast.Get, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(expr.Object, env)
	if err != nil {
		return nil, err
	}
	name := expr.Name.Lexeme
	switch obj := object.(type) {
	case *runtime.InstanceValue:
		method, err := obj.Class.FindMethod(name)
		if err != nil {
			return nil, asRuntimeError(expr.Name, err)
		}
		if method != nil && !method.IsStatic {
			return i.bindMember(method, obj)
		}
		if val, ok := obj.Get(name); ok {
			return val, nil
		}
		return nil, newRuntimeError(expr.Name, ErrUndefinedProperty, "Undefined property '%s'.", name)
	case *runtime.ClassValue:
		method, err := obj.FindMethod(name)
		if err != nil {
			return nil, asRuntimeError(expr.Name, err)
		}
		if method == nil || !method.IsStatic {
			return nil, newRuntimeError(expr.Name, ErrUndefinedProperty, "Only static methods are allowed after a class name")
		}
		return i.bindMember(method, obj)
	case *runtime.ListValue:
		native, ok := listMethod(name)
		if !ok {
			return nil, newRuntimeError(expr.Name, ErrUndefinedProperty, "Undefined property '%s'.", name)
		}
		return runtime.NativeBoundMethodValue{Receiver: obj, Method: native}, nil
	default:
		return nil, newRuntimeError(expr.Name, ErrTypeMismatch, "Only instances have properties.")
	}
}

func (i *Interpreter) evaluateSet(expr *ast.Set, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(expr.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(expr.Name, ErrTypeMismatch, "Only instances have fields.")
	}
	val, err := i.evaluate(expr.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(expr.Name.Lexeme, val)
	return val, nil
}

// evaluateSuper looks the method up on the superclass captured in the class
// frame and binds it to the this of that same frame.
func (i *Interpreter) evaluateSuper(expr *ast.Super, env *runtime.Environment) (runtime.Value, error) {
	addr, ok := i.locals[expr.RefID()]
	if !ok {
		return nil, newRuntimeError(expr.Keyword, nil, "Unresolved 'super'.")
	}
	superVal, err := env.GetAt(addr.Hops, addr.Slot)
	if err != nil {
		return nil, asRuntimeError(expr.Keyword, err)
	}
	receiver, err := env.GetAt(addr.Hops, 0)
	if err != nil {
		return nil, asRuntimeError(expr.Keyword, err)
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, newRuntimeError(expr.Keyword, ErrNotAClass, "Superclass must be a class.")
	}
	method, err := superclass.FindMethod(expr.Method.Lexeme)
	if err != nil {
		return nil, asRuntimeError(expr.Method, err)
	}
	if method == nil || method.IsStatic {
		return nil, newRuntimeError(expr.Method, ErrUndefinedProperty, "Undefined property '%s'.", expr.Method.Lexeme)
	}
	return i.bindMember(method, receiver)
}

// evaluateInner finds the override of the running method in the class just
// below the method's owner on the path to the receiver's class. Without one
// it yields a callable of the same arity that returns nil.
func (i *Interpreter) evaluateInner(expr *ast.Inner, env *runtime.Environment) (runtime.Value, error) {
	addr, ok := i.locals[expr.RefID()]
	if !ok {
		return nil, newRuntimeError(expr.Keyword, nil, "Unresolved 'inner'.")
	}
	frame := env.Ancestor(addr.Hops)
	if frame == nil {
		return nil, newRuntimeError(expr.Keyword, nil, "Unresolved 'inner'.")
	}
	current, ok := frame.RuntimeData().(*methodFrame)
	if !ok {
		return nil, newRuntimeError(expr.Keyword, nil, "'inner' used outside of a method call.")
	}
	receiver, err := frame.GetAt(0, addr.Slot)
	if err != nil {
		return nil, asRuntimeError(expr.Keyword, err)
	}

	method := current.method
	if instance, ok := receiver.(*runtime.InstanceValue); ok && method.Owner != nil && instance.Class.IsSubclassOf(method.Owner) {
		lineage := instance.Class.Lineage(method.Owner)
		for idx := len(lineage) - 1; idx >= 0; idx-- {
			if override, ok := lineage[idx].Methods[method.Name]; ok && !override.IsStatic {
				return runtime.BoundMethodValue{Receiver: receiver, Method: override}, nil
			}
		}
	}
	return runtime.NativeFunctionValue{
		Name:  fmt.Sprintf("inner %s", method.Name),
		Arity: method.Arity(),
		Impl: func(*runtime.NativeCallContext, []runtime.Value) (runtime.Value, error) {
			return runtime.NilValue{}, nil
		},
	}, nil
}

func (i *Interpreter) evaluateIndex(expr *ast.Index, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(expr.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluate(expr.Index, env)
	if err != nil {
		return nil, err
	}
	list, pos, err := listPosition(expr.Bracket, object, index)
	if err != nil {
		return nil, err
	}
	return list.Elements[pos], nil
}

func (i *Interpreter) evaluateIndexSet(expr *ast.IndexSet, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(expr.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluate(expr.Index, env)
	if err != nil {
		return nil, err
	}
	val, err := i.evaluate(expr.Value, env)
	if err != nil {
		return nil, err
	}
	list, pos, err := listPosition(expr.Bracket, object, index)
	if err != nil {
		return nil, err
	}
	list.Elements[pos] = val
	return val, nil
}

func listPosition(at ast.Token, object, index runtime.Value) (*runtime.ListValue, int, error) {
	list, ok := object.(*runtime.ListValue)
	if !ok {
		return nil, 0, newRuntimeError(at, ErrTypeMismatch, "Only lists can be indexed.")
	}
	pos, err := listIndex(index, len(list.Elements))
	if err != nil {
		return nil, 0, asRuntimeError(at, err)
	}
	return list, pos, nil
}
