package interpreter

import (
	"bytes"
	"testing"

	"github.com/pviafore/CraftingInterpreters/pkg/parser"
	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
)

// runSource parses, resolves and interprets source with a fresh interpreter,
// returning what was printed and the joined runtime errors.
func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	interp := New(Options{Stdout: &out})
	err := runIn(t, interp, source)
	return out.String(), err
}

func runIn(t *testing.T, interp *Interpreter, source string) error {
	t.Helper()
	stmts, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	locals, diags := resolver.New(resolver.Options{Globals: interp.Globals()}).Resolve(stmts)
	if resolver.HasErrors(diags) {
		t.Fatalf("resolve: %v", diags)
	}
	interp.Resolve(locals)
	return interp.Interpret(stmts)
}

// mustRun fails the test on any runtime error.
func mustRun(t *testing.T, source string) string {
	t.Helper()
	out, err := runSource(t, source)
	if err != nil {
		t.Fatalf("runtime error: %v\noutput so far:\n%s", err, out)
	}
	return out
}
