package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

// Options configures a new Interpreter. The zero value prints to stdout,
// logs errors only and registers the clock native.
type Options struct {
	Stdout io.Writer
	Logger *slog.Logger
	// ErrorReporter receives each runtime error as its top-level statement is
	// abandoned.
	ErrorReporter func(error)
	DisableClock  bool
	// Now overrides the time source of the clock native.
	Now func() time.Time
}

// Interpreter executes resolved programs against a persistent global frame.
type Interpreter struct {
	global   *runtime.Environment
	locals   resolver.Locals
	stdout   io.Writer
	logger   *slog.Logger
	reporter func(error)
	now      func() time.Time
	started  time.Time
}

// New returns an interpreter with natives installed in the global frame.
func New(opts Options) *Interpreter {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	i := &Interpreter{
		global:   runtime.NewGlobalEnvironment(),
		locals:   make(resolver.Locals),
		stdout:   stdout,
		logger:   logger,
		reporter: opts.ErrorReporter,
		now:      now,
	}
	i.started = now()
	if !opts.DisableClock {
		i.RegisterNative("clock", 0, i.clock)
	}
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Globals lists the names bound in the global frame, natives included.
func (i *Interpreter) Globals() []string {
	return i.global.Keys()
}

// Resolve merges resolver addresses into the interpreter's table.
func (i *Interpreter) Resolve(locals resolver.Locals) {
	for id, addr := range locals {
		i.locals[id] = addr
	}
}

// RegisterNative binds a host function under name in the global frame.
func (i *Interpreter) RegisterNative(name string, arity int, impl runtime.NativeFunc) {
	i.global.Define(name, runtime.NativeFunctionValue{Name: name, Arity: arity, Impl: impl})
	i.logger.Debug("registered native", "name", name, "arity", arity)
}

// Interpret executes statements in order. A runtime error abandons only the
// statement it occurred in; execution resumes with the next one. The returned
// error joins every runtime error encountered.
func (i *Interpreter) Interpret(statements []ast.Statement) error {
	var errs []error
	for _, stmt := range statements {
		if _, err := i.execute(stmt, i.global); err != nil {
			i.logger.Debug("statement aborted", "node", stmt.NodeType(), "error", err)
			if i.reporter != nil {
				i.reporter(err)
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EvaluateExpression evaluates expr in the global frame.
func (i *Interpreter) EvaluateExpression(expr ast.Expression) (runtime.Value, error) {
	return i.evaluate(expr, i.global)
}

// Stringify renders a value the way print does.
func (i *Interpreter) Stringify(value runtime.Value) string {
	return stringify(value)
}

func (i *Interpreter) clock(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	elapsed := i.now().Sub(i.started)
	return runtime.NumberValue{Val: elapsed.Seconds()}, nil
}

func (i *Interpreter) print(value runtime.Value) error {
	if _, err := fmt.Fprintln(i.stdout, stringify(value)); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}
