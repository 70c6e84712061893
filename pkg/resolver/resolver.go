package resolver

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
)

// Severity is the level of a resolution diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	// SeverityIgnore is only meaningful as an option value; it suppresses the
	// diagnostic entirely.
	SeverityIgnore Severity = "ignore"
)

// ParseSeverity maps a configuration string onto a Severity.
func ParseSeverity(value string) (Severity, error) {
	switch Severity(value) {
	case SeverityError, SeverityWarning, SeverityIgnore:
		return Severity(value), nil
	case "":
		return SeverityError, nil
	default:
		return "", fmt.Errorf("resolver: unknown severity %q (want error, warning or ignore)", value)
	}
}

// Address locates a local variable: Hops enclosing frames up, then Slot.
type Address struct {
	Hops int
	Slot int
}

// Locals maps every resolved reference node to its address. References
// absent from the table are globals.
type Locals map[ast.NodeID]Address

// Diagnostic is a resolution error or warning anchored at a token.
type Diagnostic struct {
	Severity Severity
	Message  string
	Token    ast.Token
}

func (d Diagnostic) Error() string {
	label := "Error"
	if d.Severity == SeverityWarning {
		label = "Warning"
	}
	if d.Token.Type == ast.TokenEOF || d.Token.Lexeme == "" {
		return fmt.Sprintf("[line %d] %s: %s", d.Token.Line, label, d.Message)
	}
	return fmt.Sprintf("[line %d] %s at '%s': %s", d.Token.Line, label, d.Token.Lexeme, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Options configures a Resolver.
type Options struct {
	// UnusedLocals is the severity of unused-local diagnostics. Empty means error.
	UnusedLocals Severity
	// Globals are names already bound in the global frame, such as natives.
	Globals []string
	Logger  *slog.Logger
}

type functionType int

const (
	functionNone functionType = iota
	functionPlain
	functionClosure
	functionMethod
	functionInitializer
	functionStatic
)

type classType int

const (
	classNone classType = iota
	classPlain
	classSubclass
)

// Resolver computes addresses for local references and reports scoping
// errors. Global names declared by earlier Resolve calls are remembered so a
// REPL can resolve one input at a time.
type Resolver struct {
	unusedLocals Severity
	logger       *slog.Logger

	globals map[string]struct{}

	scopes          []*scope
	locals          Locals
	diagnostics     []Diagnostic
	currentFunction functionType
	currentMethod   functionType
	currentClass    classType
	loopDepth       int
}

// New creates a resolver.
func New(opts Options) *Resolver {
	severity := opts.UnusedLocals
	if severity == "" {
		severity = SeverityError
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	r := &Resolver{
		unusedLocals: severity,
		logger:       logger,
		globals:      make(map[string]struct{}),
	}
	for _, name := range opts.Globals {
		r.DeclareGlobal(name)
	}
	return r
}

// Resolve runs a resolver with default options over one program.
func Resolve(statements []ast.Statement) (Locals, []Diagnostic) {
	return New(Options{}).Resolve(statements)
}

// DeclareGlobal records a name bound in the global frame outside any program.
func (r *Resolver) DeclareGlobal(name string) {
	r.globals[name] = struct{}{}
}

// Resolve resolves statements as one top-level program and returns the
// addresses it found together with every diagnostic. Callers must not
// execute the program when HasErrors(diagnostics) is true.
func (r *Resolver) Resolve(statements []ast.Statement) (Locals, []Diagnostic) {
	r.scopes = nil
	r.locals = make(Locals)
	r.diagnostics = nil
	r.currentFunction = functionNone
	r.currentMethod = functionNone
	r.currentClass = classNone
	r.loopDepth = 0

	r.resolveStatements(statements)

	r.logger.Debug("resolved program", "locals", len(r.locals), "diagnostics", len(r.diagnostics))
	return r.locals, r.diagnostics
}

func (r *Resolver) resolveStatements(statements []ast.Statement) {
	for _, stmt := range statements {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *ast.Print:
		r.resolveExpression(s.Expression)
	case *ast.Var:
		r.declare(s.Name, bindingVariable)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)
	case *ast.Block:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *ast.If:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *ast.While:
		r.resolveExpression(s.Condition)
		r.loopDepth++
		r.resolveStatement(s.Body)
		r.loopDepth--
	case *ast.Break:
		if r.loopDepth == 0 {
			r.errorAt(s.Keyword, "Can't use 'break' outside of a loop.")
		}
	case *ast.Function:
		r.declare(s.Name, bindingFunction)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, functionPlain)
	case *ast.Return:
		r.resolveReturn(s)
	case *ast.Class:
		r.resolveClass(s)
	default:
		r.errorAt(ast.Token{}, fmt.Sprintf("unsupported statement %T", stmt))
	}
}

func (r *Resolver) resolveReturn(s *ast.Return) {
	if r.currentFunction == functionNone {
		r.errorAt(s.Keyword, "Can't return from top-level code.")
	}
	if s.Value == nil {
		return
	}
	if r.currentFunction == functionInitializer {
		r.errorAt(s.Keyword, "Can't return a value from an initializer.")
	}
	r.resolveExpression(s.Value)
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	enclosingMethod := r.currentMethod
	defer func() {
		r.currentClass = enclosingClass
		r.currentMethod = enclosingMethod
	}()

	r.currentClass = classPlain
	r.declare(s.Name, bindingClass)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpression(s.Superclass)
	}
	for _, mixin := range s.Mixins {
		if mixin.Name.Lexeme == s.Name.Lexeme {
			r.errorAt(mixin.Name, "A class can't mix itself in.")
		}
		r.resolveExpression(mixin)
	}

	// The class frame: this at slot 0, super at slot 1 when present.
	r.beginScope()
	r.top().declare(ast.NewToken(ast.TokenThis, "this", s.Name.Line), bindingImplicit).defined = true
	if s.Superclass != nil {
		r.top().declare(ast.NewToken(ast.TokenSuper, "super", s.Name.Line), bindingImplicit).defined = true
	}
	for _, method := range s.Methods {
		kind := functionMethod
		switch {
		case method.IsStatic:
			kind = functionStatic
		case method.Name.Lexeme == "init":
			kind = functionInitializer
		}
		r.currentMethod = kind
		r.resolveFunction(method.Params, method.Body, kind)
	}
	r.endScope()
}

func (r *Resolver) resolveFunction(params []ast.Token, body []ast.Statement, kind functionType) {
	enclosingFunction := r.currentFunction
	enclosingLoop := r.loopDepth
	r.currentFunction = kind
	r.loopDepth = 0
	defer func() {
		r.currentFunction = enclosingFunction
		r.loopDepth = enclosingLoop
	}()

	r.beginScope()
	for _, param := range params {
		r.declare(param, bindingVariable)
		r.define(param)
	}
	r.resolveStatements(body)
	r.endScope()
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Literal:
	case *ast.Grouping:
		r.resolveExpression(e.Expression)
	case *ast.Unary:
		r.resolveExpression(e.Right)
	case *ast.Binary:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.Logical:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.Ternary:
		r.resolveExpression(e.Condition)
		r.resolveExpression(e.Then)
		r.resolveExpression(e.Else)
	case *ast.Variable:
		r.resolveRead(e, e.Name)
	case *ast.Assign:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name.Lexeme, len(r.scopes)-1)
	case *ast.Call:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.FunctionExpr:
		r.resolveFunction(e.Params, e.Body, functionClosure)
	case *ast.Get:
		r.resolveExpression(e.Object)
	case *ast.Set:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)
	case *ast.This:
		switch {
		case r.currentClass == classNone:
			r.errorAt(e.Keyword, "Can't use 'this' outside of a class.")
		case r.currentMethod == functionStatic:
			r.errorAt(e.Keyword, "Can't use 'this' in a static method.")
		default:
			r.resolveLocal(e, "this", len(r.scopes)-1)
		}
	case *ast.Super:
		switch {
		case r.currentClass == classNone:
			r.errorAt(e.Keyword, "Can't use 'super' outside of a class.")
		case r.currentClass != classSubclass:
			r.errorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		case r.currentMethod == functionStatic:
			r.errorAt(e.Keyword, "Can't use 'super' in a static method.")
		default:
			r.resolveLocal(e, "super", len(r.scopes)-1)
		}
	case *ast.Inner:
		switch {
		case r.currentClass == classNone || r.currentMethod == functionNone:
			r.errorAt(e.Keyword, "Can't use 'inner' outside of a method.")
		case r.currentMethod == functionStatic:
			r.errorAt(e.Keyword, "Can't use 'inner' in a static method.")
		default:
			// inner is found through the frame that binds this.
			r.resolveLocal(e, "this", len(r.scopes)-1)
		}
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			r.resolveExpression(el)
		}
	case *ast.Index:
		r.resolveExpression(e.Object)
		r.resolveExpression(e.Index)
	case *ast.IndexSet:
		r.resolveExpression(e.Object)
		r.resolveExpression(e.Index)
		r.resolveExpression(e.Value)
	default:
		r.errorAt(ast.Token{}, fmt.Sprintf("unsupported expression %T", expr))
	}
}

// resolveRead resolves a variable read. A name still being initialized in the
// innermost scope refers to the next binding out, or to a known global.
func (r *Resolver) resolveRead(ref ast.Reference, name ast.Token) {
	innermost := len(r.scopes) - 1
	if innermost >= 0 {
		if b, ok := r.scopes[innermost].lookup(name.Lexeme); ok && !b.defined {
			if r.resolveLocal(ref, name.Lexeme, innermost-1) {
				return
			}
			if _, global := r.globals[name.Lexeme]; global {
				return
			}
			r.errorAt(name, "Can't read local variable in its own initializer.")
			return
		}
	}
	r.resolveLocal(ref, name.Lexeme, innermost)
}

// resolveLocal searches scopes from index from outward and records the
// address of the first match.
func (r *Resolver) resolveLocal(ref ast.Reference, name string, from int) bool {
	for i := from; i >= 0; i-- {
		if b, ok := r.scopes[i].lookup(name); ok {
			b.referenced = true
			r.locals[ref.RefID()] = Address{Hops: len(r.scopes) - 1 - i, Slot: b.slot}
			return true
		}
	}
	return false
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, newScope())
}

func (r *Resolver) endScope() {
	closing := r.top()
	r.scopes = r.scopes[:len(r.scopes)-1]
	if r.unusedLocals == SeverityIgnore {
		return
	}
	for _, b := range closing.unused() {
		r.report(r.unusedLocals, b.token, "Unused local variable: "+b.token.Lexeme)
	}
}

func (r *Resolver) top() *scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) declare(name ast.Token, kind bindingKind) {
	if len(r.scopes) == 0 {
		r.DeclareGlobal(name.Lexeme)
		return
	}
	current := r.top()
	if _, exists := current.lookup(name.Lexeme); exists {
		r.errorAt(name, "Already a variable with this name in this scope.")
	}
	current.declare(name, kind)
}

func (r *Resolver) define(name ast.Token) {
	if len(r.scopes) == 0 {
		return
	}
	if b, ok := r.top().lookup(name.Lexeme); ok {
		b.defined = true
	}
}

func (r *Resolver) errorAt(token ast.Token, message string) {
	r.report(SeverityError, token, message)
}

func (r *Resolver) report(severity Severity, token ast.Token, message string) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Severity: severity, Message: message, Token: token})
}
