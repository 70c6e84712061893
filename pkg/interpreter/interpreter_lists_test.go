package interpreter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListOperations(t *testing.T) {
	source := `
var xs = [1, 2, 3];
print xs[0];
print xs[1.9];
xs[2] = "three";
print xs;
xs.append(4);
print xs.size();
xs.eraseAt(0);
print xs;
var ys = xs;
ys.append(5);
print xs.size();
print [].size();
`
	want := "1\n2\n[1, 2, \"three\"]\n4\n[2, \"three\", 4]\n4\n0\n"
	if diff := cmp.Diff(want, mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestListIndexErrors(t *testing.T) {
	source := `
var xs = [1];
xs[1];
xs[-1];
xs["0"];
xs.eraseAt(3);
1[0];
xs.missing;
`
	_, err := runSource(t, source)
	if !errors.Is(err, ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
	want := []string{
		"Index out of bounds on list",
		"Index out of bounds on list",
		"Index must be an integer",
		"Index out of bounds on list",
		"Only lists can be indexed.",
		"Undefined property 'missing'.",
	}
	if diff := cmp.Diff(want, errorMessages(err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
