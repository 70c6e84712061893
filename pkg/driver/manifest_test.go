package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)
	writeFile(t, path, `name: demo
main: src/main.lox
diagnostics:
  unused_locals: warning
natives:
  clock: false
repl:
  prompt: "lox> "
  history: .lox_history
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	want := &Manifest{
		Path:         path,
		Name:         "demo",
		Main:         "src/main.lox",
		UnusedLocals: resolver.SeverityWarning,
		Clock:        false,
		Prompt:       "lox> ",
		History:      ".lox_history",
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
	main, err := m.MainPath()
	if err != nil || main != filepath.Join(root, "src", "main.lox") {
		t.Fatalf("MainPath = %q, %v", main, err)
	}
	if got := m.HistoryPath(); got != filepath.Join(root, ".lox_history") {
		t.Fatalf("HistoryPath = %q", got)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "name: bare\n")
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.UnusedLocals != resolver.SeverityError || !m.Clock || m.Prompt != "> " || m.HistoryPath() != "" {
		t.Fatalf("unexpected defaults %+v", m)
	}
	if _, err := m.MainPath(); err == nil {
		t.Fatalf("expected an error for a manifest without main")
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "main: /abs/main.lox\ndiagnostics:\n  unused_locals: loud\n")
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		"name must be provided",
		`main "/abs/main.lox" must be relative to the manifest`,
		`diagnostics.unused_locals: unsupported value "loud"`,
	}
	if diff := cmp.Diff(want, verr.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "name: x\nversion: 1\n")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "name: test\n")
	child := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindManifest(child)
	if err != nil {
		t.Fatalf("FindManifest returned error: %v", err)
	}
	if want := filepath.Join(root, ManifestName); found != want {
		t.Fatalf("FindManifest = %q, want %q", found, want)
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, err := FindManifest(t.TempDir())
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}
