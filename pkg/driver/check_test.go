package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
)

func TestCheckReportsInInputOrder(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.lox")
	syntax := filepath.Join(root, "syntax.lox")
	scope := filepath.Join(root, "scope.lox")
	missing := filepath.Join(root, "missing.lox")
	writeFile(t, good, "fun f(a) { return a; } print f(clock());")
	writeFile(t, syntax, "print ;")
	writeFile(t, scope, "{ var a = a; }")

	reports, err := Check(context.Background(), []string{good, syntax, scope, missing}, CheckOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	var paths []string
	for _, r := range reports {
		paths = append(paths, r.Path)
	}
	if diff := cmp.Diff([]string{good, syntax, scope, missing}, paths); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if reports[0].Failed() {
		t.Fatalf("good file failed: %+v", reports[0])
	}
	if got := Describe(reports[1].Diagnostics[0]); got != "parser: "+syntax+":1 at ';': Expect expression." {
		t.Fatalf("unexpected syntax diagnostic %q", got)
	}
	var scopeMessages []string
	for _, d := range reports[2].Diagnostics {
		scopeMessages = append(scopeMessages, d.Message)
	}
	wantScope := []string{
		"Can't read local variable in its own initializer.",
		"Unused local variable: a",
	}
	if diff := cmp.Diff(wantScope, scopeMessages); diff != "" {
		t.Fatalf("scope diagnostics mismatch (-want +got):\n%s", diff)
	}
	if reports[3].Err == nil || !reports[3].Failed() {
		t.Fatalf("expected read error for missing file")
	}
}

func TestCheckUnusedLocalsSeverity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unused.lox")
	writeFile(t, path, "{ var x = 1; }")
	reports, err := Check(context.Background(), []string{path}, CheckOptions{UnusedLocals: resolver.SeverityWarning})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if reports[0].Failed() || len(reports[0].Diagnostics) != 1 || reports[0].Diagnostics[0].Severity != SeverityWarning {
		t.Fatalf("expected a single warning, got %+v", reports[0].Diagnostics)
	}
}

func TestCheckHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Check(ctx, []string{"a.lox"}, CheckOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}
