package interpreter

import "github.com/pviafore/CraftingInterpreters/pkg/runtime"

var listMethods = map[string]runtime.NativeFunctionValue{
	"size": {Name: "size", Arity: 0, Impl: func(ctx *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
		list := ctx.Receiver.(*runtime.ListValue)
		return runtime.NumberValue{Val: float64(len(list.Elements))}, nil
	}},
	"append": {Name: "append", Arity: 1, Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		list := ctx.Receiver.(*runtime.ListValue)
		list.Elements = append(list.Elements, args[0])
		return runtime.NilValue{}, nil
	}},
	"eraseAt": {Name: "eraseAt", Arity: 1, Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		list := ctx.Receiver.(*runtime.ListValue)
		pos, err := listIndex(args[0], len(list.Elements))
		if err != nil {
			return nil, err
		}
		list.Elements = append(list.Elements[:pos], list.Elements[pos+1:]...)
		return runtime.NilValue{}, nil
	}},
}

func listMethod(name string) (runtime.NativeFunctionValue, bool) {
	method, ok := listMethods[name]
	return method, ok
}

// listIndex truncates a numeric index toward zero and bounds-checks it.
func listIndex(index runtime.Value, length int) (int, error) {
	num, ok := index.(runtime.NumberValue)
	if !ok {
		return 0, indexError("Index must be an integer")
	}
	pos := int(num.Val)
	if pos < 0 || pos >= length {
		return 0, indexError("Index out of bounds on list")
	}
	return pos, nil
}

type indexError string

func (e indexError) Error() string { return string(e) }

func (e indexError) Unwrap() error { return ErrIndex }
