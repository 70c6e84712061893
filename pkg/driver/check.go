package driver

import (
	"context"
	"os"
	goruntime "runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pviafore/CraftingInterpreters/pkg/interpreter"
	"github.com/pviafore/CraftingInterpreters/pkg/parser"
	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
)

// CheckOptions configures Check.
type CheckOptions struct {
	UnusedLocals resolver.Severity
	// Limit bounds concurrent files; zero means GOMAXPROCS.
	Limit int
}

// FileReport is the outcome of checking one file. Err is set when the file
// could not be read.
type FileReport struct {
	Path        string
	Diagnostics []Diagnostic
	Err         error
}

// Failed reports whether the file is unreadable or has static errors.
func (r FileReport) Failed() bool {
	return r.Err != nil || HasErrors(r.Diagnostics)
}

// Check parses and resolves each file without running it. Reports come back
// in the order of paths. The returned error is only set when ctx is done.
func Check(ctx context.Context, paths []string, opts CheckOptions) ([]FileReport, error) {
	globals := interpreter.New(interpreter.Options{}).Globals()
	reports := make([]FileReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	limit := opts.Limit
	if limit <= 0 {
		limit = goruntime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for idx, path := range paths {
		idx, path := idx, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[idx] = checkFile(path, globals, opts.UnusedLocals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func checkFile(path string, globals []string, unused resolver.Severity) FileReport {
	report := FileReport{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		report.Err = err
		return report
	}
	statements, err := parser.Parse(string(data))
	if err != nil {
		report.Diagnostics = syntaxDiagnostics(path, err)
		return report
	}
	_, diags := resolver.New(resolver.Options{UnusedLocals: unused, Globals: globals}).Resolve(statements)
	report.Diagnostics = resolverDiagnostics(path, diags)
	return report
}
