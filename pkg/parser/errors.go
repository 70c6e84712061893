package parser

import (
	"errors"
	"fmt"
	"strings"
)

// SyntaxError is a scan or parse failure at a source line.
type SyntaxError struct {
	Line    int
	Where   string
	Message string

	incomplete bool
}

func (e *SyntaxError) Error() string {
	if e.Where != "" {
		return fmt.Sprintf("[line %d] Error at %s: %s", e.Line, e.Where, e.Message)
	}
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

// ErrorList collects every syntax error of one parse.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	parts := make([]string, 0, len(l))
	for _, err := range l {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "\n")
}

// IsIncomplete reports whether err only failed because the input ended early,
// which the REPL uses to ask for a continuation line.
func IsIncomplete(err error) bool {
	var list ErrorList
	if errors.As(err, &list) {
		if len(list) == 0 {
			return false
		}
		for _, e := range list {
			if !e.incomplete {
				return false
			}
		}
		return true
	}
	var single *SyntaxError
	if errors.As(err, &single) {
		return single.incomplete
	}
	return false
}
