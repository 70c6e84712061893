package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
	"github.com/pviafore/CraftingInterpreters/pkg/driver"
	"github.com/pviafore/CraftingInterpreters/pkg/interpreter"
	"github.com/pviafore/CraftingInterpreters/pkg/parser"
)

const cliToolVersion = "lox-cli 0.0.0-dev"

// Exit codes follow sysexits: data errors for rejected sources, software
// errors for runtime failures.
const (
	exitOK      = 0
	exitFailure = 1
	exitStatic  = 65
	exitRuntime = 70
)

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(c.run(os.Args[1:]))
}

func (c *cli) run(args []string) int {
	args = c.configureLogging(args)
	if len(args) == 0 {
		return c.runRepl()
	}

	switch args[0] {
	case "--help", "-h":
		c.printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(c.stdout, cliToolVersion)
		return exitOK
	case "run":
		return c.runEntry(args[1:])
	case "check":
		return c.runCheck(args[1:])
	case "parse":
		return c.runParse(args[1:])
	case "repl":
		return c.runRepl()
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(c.stderr, "unknown flag %s\n", args[0])
			c.printUsage()
			return exitFailure
		}
		return c.runEntry(args)
	}
}

// configureLogging strips -v/--verbose and installs a debug logger for it.
func (c *cli) configureLogging(args []string) []string {
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			continue
		}
		rest = append(rest, arg)
	}
	return rest
}

func (c *cli) runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintln(c.stderr, "lox run accepts a single source file or project directory")
		return exitFailure
	}
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(c.stderr, "lox: %v\n", err)
		return exitFailure
	}
	var manifest *driver.Manifest
	entry := target
	if info.IsDir() {
		manifest, err = c.loadManifestFrom(target)
		if err != nil {
			fmt.Fprintf(c.stderr, "failed to load manifest: %v\n", err)
			return exitFailure
		}
		entry, err = manifest.MainPath()
		if err != nil {
			fmt.Fprintf(c.stderr, "manifest error: %v\n", err)
			return exitFailure
		}
	} else {
		manifest, err = c.loadManifestFrom(filepath.Dir(target))
		switch {
		case errors.Is(err, driver.ErrManifestNotFound):
			manifest = driver.DefaultManifest()
		case err != nil:
			fmt.Fprintf(c.stderr, "warning: unable to load manifest (%v); using defaults\n", err)
			manifest = driver.DefaultManifest()
		}
	}
	return c.executeEntry(entry, manifest)
}

func (c *cli) executeEntry(entry string, manifest *driver.Manifest) int {
	session := driver.NewSessionFromManifest(manifest, driver.SessionOptions{
		Stdout:       c.stdout,
		Logger:       c.logger,
		OnDiagnostic: c.printDiagnostic,
	})
	return c.exitCode(session.RunFile(entry))
}

func (c *cli) exitCode(err error) int {
	var rtErr *interpreter.RuntimeError
	switch {
	case err == nil:
		return exitOK
	case driver.IsStatic(err):
		return exitStatic
	case errors.As(err, &rtErr):
		return exitRuntime
	default:
		fmt.Fprintf(c.stderr, "lox: %v\n", err)
		return exitFailure
	}
}

func (c *cli) runCheck(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(c.stderr, "lox check requires at least one source file")
		return exitFailure
	}
	opts := driver.CheckOptions{}
	if manifest, err := c.loadManifestFrom("."); err == nil {
		opts.UnusedLocals = manifest.UnusedLocals
	}
	reports, err := driver.Check(context.Background(), args, opts)
	if err != nil {
		fmt.Fprintf(c.stderr, "lox: %v\n", err)
		return exitFailure
	}
	code := exitOK
	for _, report := range reports {
		if report.Err != nil {
			fmt.Fprintf(c.stderr, "lox: %v\n", report.Err)
			if code == exitOK {
				code = exitFailure
			}
			continue
		}
		for _, diag := range report.Diagnostics {
			c.printDiagnostic(diag)
		}
		if driver.HasErrors(report.Diagnostics) {
			code = exitStatic
		}
	}
	return code
}

// runParse prints the syntax tree of a file in prefix form.
func (c *cli) runParse(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(c.stderr, "lox parse requires exactly one source file")
		return exitFailure
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(c.stderr, "lox: %v\n", err)
		return exitFailure
	}
	statements, err := parser.Parse(string(data))
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return exitStatic
	}
	if len(statements) > 0 {
		fmt.Fprintln(c.stdout, ast.SexprProgram(statements))
	}
	return exitOK
}

func (c *cli) loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Debug("loading manifest", "path", path)
	}
	return driver.LoadManifest(path)
}

func (c *cli) printDiagnostic(diag driver.Diagnostic) {
	fmt.Fprintln(c.stderr, driver.Describe(diag))
}

func (c *cli) printUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  lox                    start a REPL")
	fmt.Fprintln(c.stderr, "  lox run [dir|file.lox] run a project main or a single file")
	fmt.Fprintln(c.stderr, "  lox <file.lox>")
	fmt.Fprintln(c.stderr, "  lox check <file.lox>...")
	fmt.Fprintln(c.stderr, "  lox parse <file.lox>")
	fmt.Fprintln(c.stderr, "Flags: -v enables debug logging, --version prints the version")
}
