package runtime

import (
	"fmt"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindFunction
	KindBoundMethod
	KindNativeFunction
	KindNativeBoundMethod
	KindClass
	KindInstance
	KindUninitialized
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindFunction:
		return "function"
	case KindBoundMethod:
		return "bound_method"
	case KindNativeFunction:
		return "native_function"
	case KindNativeBoundMethod:
		return "native_bound_method"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindUninitialized:
		return "uninitialized"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// UninitializedValue marks a slot reserved by DefineUninitialized. The
// environment refuses to hand it out.
type UninitializedValue struct{}

func (UninitializedValue) Kind() Kind { return KindUninitialized }

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a user function, closure or method. Closure is the
// environment active where the function was declared. Owner is set for
// methods and names the class whose body declared them.
type FunctionValue struct {
	Name          string
	Declaration   ast.Node // *ast.Function or *ast.FunctionExpr
	Params        []ast.Token
	Body          []ast.Statement
	Closure       *Environment
	Owner         *ClassValue
	IsInitializer bool
	IsStatic      bool
	IsProperty    bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Arity() int { return len(v.Params) }

// NativeCallContext is handed to native functions. Receiver is set when the
// native is invoked as a method.
type NativeCallContext struct {
	Receiver Value
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// Bound methods capture `this` and a callable.
type BoundMethodValue struct {
	Receiver Value
	Method   *FunctionValue
}

func (v BoundMethodValue) Kind() Kind { return KindBoundMethod }

type NativeBoundMethodValue struct {
	Receiver Value
	Method   NativeFunctionValue
}

func (v NativeBoundMethodValue) Kind() Kind { return KindNativeBoundMethod }

//-----------------------------------------------------------------------------
// Classes and instances
//-----------------------------------------------------------------------------

// ClassValue is immutable once the class declaration has been evaluated.
type ClassValue struct {
	Name       string
	Superclass *ClassValue
	Mixins     []*ClassValue
	Methods    map[string]*FunctionValue
}

func (v *ClassValue) Kind() Kind { return KindClass }

type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// NewInstance allocates an instance with no fields.
func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

// Get reads a field.
func (v *InstanceValue) Get(name string) (Value, bool) {
	val, ok := v.Fields[name]
	return val, ok
}

// Set writes a field, creating it when absent.
func (v *InstanceValue) Set(name string, value Value) {
	v.Fields[name] = value
}
