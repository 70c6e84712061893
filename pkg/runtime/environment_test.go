package runtime

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvironmentSlotsFollowDefineOrder(t *testing.T) {
	global := NewGlobalEnvironment()
	outer := NewEnvironment(global)
	outer.Define("a", NumberValue{Val: 1})
	outer.Define("b", NumberValue{Val: 2})
	inner := NewEnvironment(outer)
	inner.Define("a", NumberValue{Val: 10})

	cases := []struct {
		hops, slot int
		want       float64
	}{
		{0, 0, 10},
		{1, 0, 1},
		{1, 1, 2},
	}
	for _, tc := range cases {
		got, err := inner.GetAt(tc.hops, tc.slot)
		if err != nil {
			t.Fatalf("GetAt(%d,%d): %v", tc.hops, tc.slot, err)
		}
		if got.(NumberValue).Val != tc.want {
			t.Fatalf("GetAt(%d,%d) = %v, want %v", tc.hops, tc.slot, got, tc.want)
		}
	}
}

func TestEnvironmentAssignAtIsVisibleThroughSharedFrames(t *testing.T) {
	global := NewGlobalEnvironment()
	captured := NewEnvironment(global)
	captured.Define("n", NumberValue{Val: 0})
	closureA := NewEnvironment(captured)
	closureB := NewEnvironment(captured)

	if err := closureA.AssignAt(1, 0, NumberValue{Val: 5}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got, err := closureB.GetAt(1, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.(NumberValue).Val != 5 {
		t.Fatalf("expected mutation to be shared, got %v", got)
	}
}

func TestEnvironmentUninitializedIsDistinctFromUndefined(t *testing.T) {
	global := NewGlobalEnvironment()
	global.DefineUninitialized("later")

	if _, err := global.Get("later"); !errors.Is(err, ErrUninitializedVariable) {
		t.Fatalf("expected uninitialized error, got %v", err)
	}
	if _, err := global.Get("missing"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected undefined error, got %v", err)
	}
	if err := global.Assign("later", BoolValue{Val: true}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if v, err := global.Get("later"); err != nil || v != (BoolValue{Val: true}) {
		t.Fatalf("unexpected value %v (%v)", v, err)
	}

	local := NewEnvironment(global)
	local.DefineUninitialized("x")
	_, err := local.GetAt(0, 0)
	var varErr *VariableError
	if !errors.As(err, &varErr) || varErr.Name != "x" || !errors.Is(err, ErrUninitializedVariable) {
		t.Fatalf("expected uninitialized error for x, got %v", err)
	}
	if err.Error() != "Uninitialized variable 'x'." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestEnvironmentGlobalLookupWalksToRoot(t *testing.T) {
	global := NewGlobalEnvironment()
	global.Define("g", StringValue{Val: "root"})
	deep := NewEnvironment(NewEnvironment(NewEnvironment(global)))

	v, err := deep.Get("g")
	if err != nil || v != (StringValue{Val: "root"}) {
		t.Fatalf("unexpected global lookup %v (%v)", v, err)
	}
	if err := deep.Assign("g", StringValue{Val: "changed"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := deep.Assign("nope", NilValue{}); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected undefined error, got %v", err)
	}
	if diff := cmp.Diff([]string{"g"}, global.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvironmentAncestorAndBounds(t *testing.T) {
	global := NewGlobalEnvironment()
	child := NewEnvironment(global)
	if child.Ancestor(1) != global || child.Ancestor(0) != child {
		t.Fatalf("ancestor walk is wrong")
	}
	if child.Ancestor(5) != nil {
		t.Fatalf("expected nil beyond the chain")
	}
	if _, err := child.GetAt(0, 3); err == nil {
		t.Fatalf("expected out-of-range slot error")
	}
	if _, err := child.GetAt(4, 0); err == nil {
		t.Fatalf("expected missing frame error")
	}
}

func TestEnvironmentGlobalSlotAssignUpdatesNameMap(t *testing.T) {
	global := NewGlobalEnvironment()
	global.Define("c", NilValue{})
	if err := global.AssignAt(0, 0, NumberValue{Val: 3}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	v, err := global.Get("c")
	if err != nil || v != (NumberValue{Val: 3}) {
		t.Fatalf("expected name map to follow slot write, got %v (%v)", v, err)
	}
	if diff := cmp.Diff([]string{"c"}, global.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
