package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
)

// ManifestName is the project manifest file looked up by the CLI.
const ManifestName = "lox.yml"

// ErrManifestNotFound is returned when no manifest exists up the tree.
var ErrManifestNotFound = errors.New(ManifestName + " not found")

const defaultPrompt = "> "

// Manifest represents the parsed contents of lox.yml.
type Manifest struct {
	Path         string
	Name         string
	Main         string
	UnusedLocals resolver.Severity
	Clock        bool
	Prompt       string
	History      string
}

type manifestFile struct {
	Name        string `yaml:"name"`
	Main        string `yaml:"main"`
	Diagnostics struct {
		UnusedLocals string `yaml:"unused_locals"`
	} `yaml:"diagnostics"`
	Natives struct {
		Clock *bool `yaml:"clock"`
	} `yaml:"natives"`
	Repl struct {
		Prompt  string `yaml:"prompt"`
		History string `yaml:"history"`
	} `yaml:"repl"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultManifest is the configuration used when no lox.yml is present.
func DefaultManifest() *Manifest {
	return &Manifest{UnusedLocals: resolver.SeverityError, Clock: true, Prompt: defaultPrompt}
}

// LoadManifest parses lox.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()
	return decodeManifest(file, absPath)
}

func decodeManifest(r io.Reader, absPath string) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}
	return raw.toManifest(absPath)
}

func (raw manifestFile) toManifest(absPath string) (*Manifest, error) {
	var errs ValidationError
	m := DefaultManifest()
	m.Path = absPath
	m.Name = strings.TrimSpace(raw.Name)
	m.Main = strings.TrimSpace(raw.Main)
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Main != "" && filepath.IsAbs(m.Main) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be relative to the manifest", m.Main))
	}
	severity, err := resolver.ParseSeverity(strings.TrimSpace(raw.Diagnostics.UnusedLocals))
	if err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("diagnostics.unused_locals: unsupported value %q", raw.Diagnostics.UnusedLocals))
	} else {
		m.UnusedLocals = severity
	}
	if raw.Natives.Clock != nil {
		m.Clock = *raw.Natives.Clock
	}
	if raw.Repl.Prompt != "" {
		m.Prompt = raw.Repl.Prompt
	}
	m.History = strings.TrimSpace(raw.Repl.History)
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return m, nil
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	if m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// MainPath returns the entry script resolved against the manifest directory.
func (m *Manifest) MainPath() (string, error) {
	if m.Main == "" {
		return "", fmt.Errorf("manifest %s: no main entrypoint", m.Path)
	}
	return filepath.Join(m.Dir(), m.Main), nil
}

// HistoryPath returns where the REPL keeps its history, or "" when disabled.
func (m *Manifest) HistoryPath() string {
	if m.History == "" {
		return ""
	}
	if filepath.IsAbs(m.History) || m.Dir() == "" {
		return m.History
	}
	return filepath.Join(m.Dir(), m.History)
}

// FindManifest walks from start up to the filesystem root looking for lox.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}
