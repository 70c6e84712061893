package runtime

// FindMethod resolves name against the class hierarchy.
//
// A method declared on the class itself always wins. Otherwise the superclass
// chain yields one candidate (the most derived hit) and the mixins, searched
// depth first, yield another. Two different candidates are ambiguous. Each
// mixin hit is only compared with the candidate accumulated so far, so the
// first conflicting mixin is the one reported. `init` is never looked up in
// mixins.
func (c *ClassValue) FindMethod(name string) (*FunctionValue, error) {
	if method, ok := c.Methods[name]; ok {
		return method, nil
	}
	var found *FunctionValue
	if c.Superclass != nil {
		method, err := c.Superclass.FindMethod(name)
		if err != nil {
			return nil, err
		}
		found = method
	}
	if name == "init" {
		return found, nil
	}
	for _, mixin := range c.Mixins {
		method, err := mixin.FindMethod(name)
		if err != nil {
			return nil, err
		}
		if method == nil {
			continue
		}
		if found != nil && found != method {
			return nil, &AmbiguousMethodError{Class: c.Name, Method: name, Mixin: mixin.Name}
		}
		found = method
	}
	return found, nil
}

// Initializer returns the init method visible from this class, if any.
func (c *ClassValue) Initializer() *FunctionValue {
	init, _ := c.FindMethod("init")
	if init == nil || init.IsStatic {
		return nil
	}
	return init
}

// Arity is the arity of the initializer, or zero without one.
func (c *ClassValue) Arity() int {
	if init := c.Initializer(); init != nil {
		return init.Arity()
	}
	return 0
}

// IsSubclassOf reports whether other appears on the superclass chain of c
// (c itself included).
func (c *ClassValue) IsSubclassOf(other *ClassValue) bool {
	for cls := c; cls != nil; cls = cls.Superclass {
		if cls == other {
			return true
		}
	}
	return false
}

// Lineage returns the superclass chain from c up to, but not including, stop.
// The result is ordered most derived first. A nil stop walks to the root.
func (c *ClassValue) Lineage(stop *ClassValue) []*ClassValue {
	var out []*ClassValue
	for cls := c; cls != nil && cls != stop; cls = cls.Superclass {
		out = append(out, cls)
	}
	return out
}
