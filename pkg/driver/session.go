package driver

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
	"github.com/pviafore/CraftingInterpreters/pkg/interpreter"
	"github.com/pviafore/CraftingInterpreters/pkg/parser"
	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	// Path labels diagnostics; empty for REPL input.
	Path         string
	Stdout       io.Writer
	Logger       *slog.Logger
	UnusedLocals resolver.Severity
	DisableClock bool
	// OnDiagnostic receives warnings and errors as they are produced.
	OnDiagnostic func(Diagnostic)
}

// Session runs a sequence of sources against one global frame. Globals
// declared by one Run are visible to the next, which is what the REPL needs.
type Session struct {
	path     string
	logger   *slog.Logger
	resolver *resolver.Resolver
	interp   *interpreter.Interpreter
	notify   func(Diagnostic)
}

// NewSession builds a resolver and interpreter sharing one set of globals.
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	notify := opts.OnDiagnostic
	if notify == nil {
		notify = func(Diagnostic) {}
	}
	s := &Session{path: opts.Path, logger: logger, notify: notify}
	s.interp = interpreter.New(interpreter.Options{
		Stdout:       opts.Stdout,
		Logger:       logger,
		DisableClock: opts.DisableClock,
		ErrorReporter: func(err error) {
			notify(RuntimeDiagnostic(s.path, err))
		},
	})
	s.resolver = resolver.New(resolver.Options{
		UnusedLocals: opts.UnusedLocals,
		Globals:      s.interp.Globals(),
		Logger:       logger,
	})
	return s
}

// NewSessionFromManifest applies the manifest's diagnostics and natives.
func NewSessionFromManifest(m *Manifest, opts SessionOptions) *Session {
	if m == nil {
		m = DefaultManifest()
	}
	opts.UnusedLocals = m.UnusedLocals
	opts.DisableClock = !m.Clock
	return NewSession(opts)
}

// RegisterNative binds a host function as a global visible to later runs.
func (s *Session) RegisterNative(name string, arity int, impl runtime.NativeFunc) {
	s.interp.RegisterNative(name, arity, impl)
	s.resolver.DeclareGlobal(name)
}

// Run parses, resolves and executes source. A *StaticError is returned when
// the source was rejected before running; otherwise the error joins every
// runtime error of the run.
func (s *Session) Run(source string) error {
	statements, err := parser.Parse(source)
	if err != nil {
		return s.reject(syntaxDiagnostics(s.path, err))
	}
	if err := s.resolve(statements); err != nil {
		return err
	}
	s.logger.Debug("running source", "path", s.path, "statements", len(statements))
	return s.interp.Interpret(statements)
}

// RunFile reads path and runs it in the session.
func (s *Session) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.path = path
	s.logger.Debug("loaded file", "path", path, "bytes", len(data))
	return s.Run(string(data))
}

// Evaluate parses source as a single expression and returns its display string.
func (s *Session) Evaluate(source string) (string, error) {
	expr, err := parser.ParseExpression(source)
	if err != nil {
		return "", s.reject(syntaxDiagnostics(s.path, err))
	}
	if err := s.resolve([]ast.Statement{ast.NewExpressionStatement(expr)}); err != nil {
		return "", err
	}
	value, err := s.interp.EvaluateExpression(expr)
	if err != nil {
		s.notify(RuntimeDiagnostic(s.path, err))
		return "", err
	}
	return s.interp.Stringify(value), nil
}

func (s *Session) resolve(statements []ast.Statement) error {
	locals, diags := s.resolver.Resolve(statements)
	converted := resolverDiagnostics(s.path, diags)
	if HasErrors(converted) {
		return s.reject(converted)
	}
	for _, d := range converted {
		s.notify(d)
	}
	s.interp.Resolve(locals)
	return nil
}

func (s *Session) reject(diags []Diagnostic) error {
	for _, d := range diags {
		s.notify(d)
	}
	s.logger.Debug("source rejected", "path", s.path, "diagnostics", len(diags))
	return &StaticError{Diagnostics: diags}
}

// IsStatic reports whether err came from parsing or resolution.
func IsStatic(err error) bool {
	return errors.Is(err, ErrStatic)
}
