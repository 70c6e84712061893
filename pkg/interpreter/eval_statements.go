package interpreter

import (
	"fmt"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

func (i *Interpreter) execute(node ast.Statement, env *runtime.Environment) (completion, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluate(n.Expression, env)
		return normalCompletion, err
	case *ast.Print:
		val, err := i.evaluate(n.Expression, env)
		if err != nil {
			return normalCompletion, err
		}
		return normalCompletion, i.print(val)
	case *ast.Var:
		return normalCompletion, i.executeVar(n, env)
	case *ast.Block:
		return i.executeBlock(n.Statements, runtime.NewEnvironment(env))
	case *ast.If:
		return i.executeIf(n, env)
	case *ast.While:
		return i.executeWhile(n, env)
	case *ast.Break:
		return breakCompletion(), nil
	case *ast.Function:
		env.Define(n.Name.Lexeme, &runtime.FunctionValue{
			Name:        n.Name.Lexeme,
			Declaration: n,
			Params:      n.Params,
			Body:        n.Body,
			Closure:     env,
		})
		return normalCompletion, nil
	case *ast.Return:
		var val runtime.Value = runtime.NilValue{}
		if n.Value != nil {
			v, err := i.evaluate(n.Value, env)
			if err != nil {
				return normalCompletion, err
			}
			val = v
		}
		return returnCompletion(val), nil
	case *ast.Class:
		return normalCompletion, i.executeClass(n, env)
	default:
		return normalCompletion, fmt.Errorf("unsupported statement type: %s", node.NodeType())
	}
}

// executeBlock runs statements in env, stopping at the first break, return
// or error. The caller's frame is untouched whichever way the block exits.
func (i *Interpreter) executeBlock(statements []ast.Statement, env *runtime.Environment) (completion, error) {
	for _, stmt := range statements {
		result, err := i.execute(stmt, env)
		if err != nil {
			return normalCompletion, err
		}
		if result.kind != completionNormal {
			return result, nil
		}
	}
	return normalCompletion, nil
}

// executeVar binds a variable. Locals reserve their slot before the
// initializer runs so a closure in the initializer sees an uninitialized
// binding rather than a missing slot. Globals bind afterwards so a
// redeclaration can read the previous value.
func (i *Interpreter) executeVar(decl *ast.Var, env *runtime.Environment) error {
	name := decl.Name.Lexeme
	if env.IsGlobal() {
		var val runtime.Value = runtime.UninitializedValue{}
		if decl.Initializer != nil {
			v, err := i.evaluate(decl.Initializer, env)
			if err != nil {
				return err
			}
			val = v
		}
		env.Define(name, val)
		return nil
	}

	slot := env.Len()
	env.DefineUninitialized(name)
	if decl.Initializer == nil {
		return nil
	}
	val, err := i.evaluate(decl.Initializer, env)
	if err != nil {
		return err
	}
	return env.AssignAt(0, slot, val)
}

func (i *Interpreter) executeIf(stmt *ast.If, env *runtime.Environment) (completion, error) {
	cond, err := i.evaluate(stmt.Condition, env)
	if err != nil {
		return normalCompletion, err
	}
	if isTruthy(cond) {
		return i.execute(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.execute(stmt.Else, env)
	}
	return normalCompletion, nil
}

func (i *Interpreter) executeWhile(loop *ast.While, env *runtime.Environment) (completion, error) {
	for {
		cond, err := i.evaluate(loop.Condition, env)
		if err != nil {
			return normalCompletion, err
		}
		if !isTruthy(cond) {
			return normalCompletion, nil
		}
		result, err := i.execute(loop.Body, env)
		if err != nil {
			return normalCompletion, err
		}
		switch result.kind {
		case completionBreak:
			return normalCompletion, nil
		case completionReturn:
			return result, nil
		}
	}
}

// executeClass binds the class name before building the class so that
// methods can refer to it, then rebinds it to the finished class value.
func (i *Interpreter) executeClass(decl *ast.Class, env *runtime.Environment) error {
	name := decl.Name.Lexeme
	slot := env.Len()
	env.Define(name, runtime.NilValue{})

	var superclass *runtime.ClassValue
	if decl.Superclass != nil {
		val, err := i.evaluate(decl.Superclass, env)
		if err != nil {
			return err
		}
		cls, ok := val.(*runtime.ClassValue)
		if !ok {
			return newRuntimeError(decl.Superclass.Name, ErrNotAClass, "Superclass must be a class.")
		}
		superclass = cls
	}

	mixins := make([]*runtime.ClassValue, 0, len(decl.Mixins))
	for _, ref := range decl.Mixins {
		val, err := i.evaluate(ref, env)
		if err != nil {
			return err
		}
		cls, ok := val.(*runtime.ClassValue)
		if !ok {
			return newRuntimeError(ref.Name, ErrNotAClass, "Mixin must be a class.")
		}
		mixins = append(mixins, cls)
	}

	class := &runtime.ClassValue{
		Name:       name,
		Superclass: superclass,
		Mixins:     mixins,
		Methods:    make(map[string]*runtime.FunctionValue, len(decl.Methods)),
	}
	for _, method := range decl.Methods {
		class.Methods[method.Name.Lexeme] = &runtime.FunctionValue{
			Name:          method.Name.Lexeme,
			Declaration:   method,
			Params:        method.Params,
			Body:          method.Body,
			Closure:       env,
			Owner:         class,
			IsInitializer: method.Name.Lexeme == "init" && !method.IsStatic,
			IsStatic:      method.IsStatic,
			IsProperty:    method.IsProperty,
		}
	}

	i.logger.Debug("defined class", "name", name, "superclass", superclassName(superclass), "mixins", len(mixins), "methods", len(class.Methods))

	if env.IsGlobal() {
		return env.Assign(name, class)
	}
	return env.AssignAt(0, slot, class)
}

func superclassName(cls *runtime.ClassValue) string {
	if cls == nil {
		return ""
	}
	return cls.Name
}
