package runtime

import (
	"fmt"
	"sort"
)

// Environment is one lexical scope frame. Values live in slots appended in
// declaration order; the resolver computes (hops, slot) addresses against the
// same order, so the n-th Define in a frame must match the n-th declaration
// the resolver saw for that scope. Only the global frame also keeps a
// name-indexed map, used for dynamic lookups.
type Environment struct {
	slots  []Value
	names  []string
	values map[string]Value
	parent *Environment
	data   any
}

// NewGlobalEnvironment creates the root frame.
func NewGlobalEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewEnvironment creates a new environment nested under parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent}
}

// IsGlobal reports whether this frame keeps a name map.
func (e *Environment) IsGlobal() bool {
	return e.values != nil
}

// Len returns the number of slots defined so far.
func (e *Environment) Len() int {
	return len(e.slots)
}

// Define appends value as the next slot.
func (e *Environment) Define(name string, value Value) {
	e.slots = append(e.slots, value)
	e.names = append(e.names, name)
	if e.values != nil {
		e.values[name] = value
	}
}

// DefineUninitialized reserves a slot that fails reads until assigned.
func (e *Environment) DefineUninitialized(name string) {
	e.Define(name, UninitializedValue{})
}

// Get retrieves a global binding by name.
func (e *Environment) Get(name string) (Value, error) {
	frame := e.root()
	v, ok := frame.values[name]
	if !ok {
		return nil, &VariableError{Name: name, Err: ErrUndefinedVariable}
	}
	if _, ok := v.(UninitializedValue); ok {
		return nil, &VariableError{Name: name, Err: ErrUninitializedVariable}
	}
	return v, nil
}

// Assign updates an existing global binding by name.
func (e *Environment) Assign(name string, value Value) error {
	frame := e.root()
	if _, ok := frame.values[name]; !ok {
		return &VariableError{Name: name, Err: ErrUndefinedVariable}
	}
	frame.values[name] = value
	return nil
}

// GetAt reads slot in the frame hops links up the chain.
func (e *Environment) GetAt(hops, slot int) (Value, error) {
	frame, err := e.frameAt(hops, slot)
	if err != nil {
		return nil, err
	}
	v := frame.slots[slot]
	if _, ok := v.(UninitializedValue); ok {
		return nil, &VariableError{Name: frame.names[slot], Err: ErrUninitializedVariable}
	}
	return v, nil
}

// AssignAt writes slot in the frame hops links up the chain.
func (e *Environment) AssignAt(hops, slot int, value Value) error {
	frame, err := e.frameAt(hops, slot)
	if err != nil {
		return err
	}
	frame.slots[slot] = value
	if frame.values != nil {
		frame.values[frame.names[slot]] = value
	}
	return nil
}

// Ancestor walks hops enclosing links. It returns nil when the chain is shorter.
func (e *Environment) Ancestor(hops int) *Environment {
	env := e
	for i := 0; i < hops && env != nil; i++ {
		env = env.parent
	}
	return env
}

func (e *Environment) frameAt(hops, slot int) (*Environment, error) {
	frame := e.Ancestor(hops)
	if frame == nil {
		return nil, fmt.Errorf("environment: no frame %d hops up", hops)
	}
	if slot < 0 || slot >= len(frame.slots) {
		return nil, fmt.Errorf("environment: slot %d out of range (frame has %d)", slot, len(frame.slots))
	}
	return frame, nil
}

func (e *Environment) root() *Environment {
	env := e
	for env.values == nil && env.parent != nil {
		env = env.parent
	}
	if env.values == nil {
		env.values = make(map[string]Value)
	}
	return env
}

// Keys returns the global bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	frame := e.root()
	keys := make([]string, 0, len(frame.values))
	for k := range frame.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Names returns the slot names of this frame in declaration order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// SetRuntimeData attaches interpreter-specific metadata to the environment.
func (e *Environment) SetRuntimeData(data any) {
	e.data = data
}

// RuntimeData returns the metadata attached to this frame only.
func (e *Environment) RuntimeData() any {
	return e.data
}
