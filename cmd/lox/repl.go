package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/pviafore/CraftingInterpreters/pkg/driver"
	"github.com/pviafore/CraftingInterpreters/pkg/parser"
)

const (
	historyFile = ".lox_history"
	promptCont  = "... "
	replBanner  = "lox REPL. Type :quit to exit."
)

// prompter is the part of liner.State the read loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func (c *cli) runRepl() int {
	manifest, err := c.loadManifestFrom(".")
	if err != nil {
		if !errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(c.stderr, "warning: unable to load manifest (%v); using defaults\n", err)
		}
		manifest = driver.DefaultManifest()
	}
	histPath := manifest.HistoryPath()
	if histPath == "" {
		home, _ := os.UserHomeDir()
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(c.stdout, replBanner)
	session := driver.NewSessionFromManifest(manifest, driver.SessionOptions{
		Stdout:       c.stdout,
		Logger:       c.logger,
		OnDiagnostic: c.printDiagnostic,
	})
	c.replLoop(ln, session, manifest.Prompt, ln.AppendHistory)
	return exitOK
}

// replLoop reads inputs until EOF or :quit. Statements run in the session;
// a bare expression is evaluated and its value printed.
func (c *cli) replLoop(p prompter, session *driver.Session, prompt string, remember func(string)) {
	for {
		code, ok := readByParseProbe(p, prompt, promptCont)
		if !ok {
			fmt.Fprintln(c.stdout)
			return
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return
			default:
				fmt.Fprintln(c.stdout, "unknown command. Type :quit to exit.")
			}
			continue
		}
		if remember != nil {
			remember(strings.ReplaceAll(code, "\n", " "))
		}
		if isExpression(code) {
			if value, err := session.Evaluate(code); err == nil {
				fmt.Fprintln(c.stdout, value)
			}
			continue
		}
		_ = session.Run(code)
	}
}

// readByParseProbe keeps prompting while the accumulated input only fails
// because it ended early.
func readByParseProbe(p prompter, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}
		line, err := p.Prompt(current)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := parser.Parse(src)
		if perr == nil || !parser.IsIncomplete(perr) || isExpression(src) {
			return src, true
		}
	}
}

func isExpression(src string) bool {
	_, err := parser.ParseExpression(src)
	return err == nil
}
