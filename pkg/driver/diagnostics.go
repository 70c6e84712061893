package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pviafore/CraftingInterpreters/pkg/interpreter"
	"github.com/pviafore/CraftingInterpreters/pkg/parser"
	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
)

// DiagnosticSeverity captures diagnostic levels.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// DiagnosticStage names the pass that produced a diagnostic.
type DiagnosticStage string

const (
	StageParser   DiagnosticStage = "parser"
	StageResolver DiagnosticStage = "resolver"
	StageRuntime  DiagnosticStage = "runtime"
)

// DiagnosticLocation references a source line for diagnostics.
type DiagnosticLocation struct {
	Path string
	Line int
	// Near is the lexeme the diagnostic points at, if any.
	Near string
}

// Diagnostic is a located message from any stage of a run.
type Diagnostic struct {
	Stage    DiagnosticStage
	Severity DiagnosticSeverity
	Message  string
	Location DiagnosticLocation
}

// Describe formats a diagnostic for CLI output.
func Describe(diag Diagnostic) string {
	prefix := string(diag.Stage) + ": "
	if diag.Severity == SeverityWarning {
		prefix = "warning: " + prefix
	}
	message := strings.TrimSpace(diag.Message)
	if near := diag.Location.Near; near != "" {
		message = fmt.Sprintf("at '%s': %s", near, message)
	}
	if location := formatDiagnosticLocation(diag.Location); location != "" {
		return fmt.Sprintf("%s%s %s", prefix, location, message)
	}
	return prefix + message
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	switch {
	case path != "" && loc.Line > 0:
		return fmt.Sprintf("%s:%d", path, loc.Line)
	case path != "":
		return path
	case loc.Line > 0:
		return fmt.Sprintf("line %d", loc.Line)
	default:
		return ""
	}
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

// ErrStatic marks a source rejected before execution.
var ErrStatic = errors.New("static errors")

// StaticError carries the diagnostics that prevented a source from running.
type StaticError struct {
	Diagnostics []Diagnostic
}

func (e *StaticError) Error() string {
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		if d.Severity == SeverityError {
			lines = append(lines, Describe(d))
		}
	}
	return strings.Join(lines, "\n")
}

func (e *StaticError) Unwrap() error { return ErrStatic }

func syntaxDiagnostics(path string, err error) []Diagnostic {
	var list parser.ErrorList
	if !errors.As(err, &list) {
		return []Diagnostic{{Stage: StageParser, Severity: SeverityError, Message: err.Error(), Location: DiagnosticLocation{Path: path}}}
	}
	out := make([]Diagnostic, 0, len(list))
	for _, e := range list {
		near := strings.TrimSuffix(strings.TrimPrefix(e.Where, "'"), "'")
		if e.Where == "end" {
			near = ""
		}
		out = append(out, Diagnostic{
			Stage:    StageParser,
			Severity: SeverityError,
			Message:  e.Message,
			Location: DiagnosticLocation{Path: path, Line: e.Line, Near: near},
		})
	}
	return out
}

func resolverDiagnostics(path string, diags []resolver.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := SeverityError
		if d.Severity == resolver.SeverityWarning {
			severity = SeverityWarning
		}
		out = append(out, Diagnostic{
			Stage:    StageResolver,
			Severity: severity,
			Message:  d.Message,
			Location: DiagnosticLocation{Path: path, Line: d.Token.Line, Near: d.Token.Lexeme},
		})
	}
	return out
}

// RuntimeDiagnostic locates a runtime error reported by the interpreter.
func RuntimeDiagnostic(path string, err error) Diagnostic {
	diag := Diagnostic{Stage: StageRuntime, Severity: SeverityError, Message: err.Error(), Location: DiagnosticLocation{Path: path}}
	var rtErr *interpreter.RuntimeError
	if errors.As(err, &rtErr) {
		diag.Message = rtErr.Message
		diag.Location.Line = rtErr.Token.Line
	}
	return diag
}
