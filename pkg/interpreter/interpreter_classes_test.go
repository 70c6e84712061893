package interpreter

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

func TestClassInstancesFieldsAndMethods(t *testing.T) {
	source := `
class Point {
  init(x, y) { this.x = x; this.y = y; }
  sum() { return this.x + this.y; }
}
var p = Point(1, 2);
print p.sum();
print p;
print Point;
p.x = 10;
print p.sum();
var m = p.sum;
print m();
`
	if diff := cmp.Diff("3\nPoint instance\nPoint\n12\n12\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializerAlwaysYieldsInstance(t *testing.T) {
	source := `
class Box {
  init(v) {
    this.v = v;
    if (v) return;
    this.v = "replaced";
  }
}
var b = Box(true);
print b.v;
print Box(false).v;
print b.init(7) == b;
print b.v;
`
	if diff := cmp.Diff("true\nreplaced\ntrue\n7\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSuperCallsStaticallyKnownSuperclass(t *testing.T) {
	source := `
class A { greet() { return "A"; } }
class B < A { greet() { return "B+" + super.greet(); } }
class C < B {}
print B().greet();
print C().greet();
`
	if diff := cmp.Diff("B+A\nB+A\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestMethodPrecedence(t *testing.T) {
	source := `
class M { m() { return "M.m"; } other() { return "M.other"; } }
class A with M { m() { return "A.m"; } }
class B < A {}
class Own < A with M { m() { return "Own.m"; } }
print B().m();
print Own().m();
print B().other();
`
	if diff := cmp.Diff("A.m\nOwn.m\nM.other\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSuperclassAndMixinConflictIsAmbiguous(t *testing.T) {
	source := `
class A { m() { return "A.m"; } }
class M { m() { return "M.m"; } }
class B < A with M {}
B().m();
`
	_, err := runSource(t, source)
	if !errors.Is(err, runtime.ErrAmbiguousMethod) {
		t.Fatalf("expected ambiguous method error, got %v", err)
	}
	want := []string{"Ambiguous method 'm' on B: mixin M conflicts with an inherited definition."}
	if diff := cmp.Diff(want, errorMessages(err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMixinConflictIsAmbiguous(t *testing.T) {
	source := `
class M1 { m() { return 1; } }
class M2 { m() { return 2; } }
class C with M1, M2 {}
print "before";
C().m();
print "after";
`
	out, err := runSource(t, source)
	if diff := cmp.Diff("before\nafter\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, runtime.ErrAmbiguousMethod) {
		t.Fatalf("expected ambiguous method error, got %v", err)
	}
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) || rtErr.Token.Lexeme != "m" || rtErr.Token.Line != 6 {
		t.Fatalf("expected error anchored at m on line 6, got %#v", rtErr)
	}
}

func TestMixinMethodsSeeThis(t *testing.T) {
	source := `
class Greeter { hello() { return "hi " + this.name; } }
class Person with Greeter { init(n) { this.name = n; } }
print Person("bob").hello();
`
	if diff := cmp.Diff("hi bob\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

// Reading a property method runs it. There is no way to obtain the property
// as an unbound method value; c.area always yields the computed number.
func TestPropertyMethodsRunOnAccess(t *testing.T) {
	source := `
class Circle {
  init(r) { this.r = r; }
  area { return 3 * this.r * this.r; }
}
var c = Circle(2);
print c.area;
c.r = 1;
print c.area;
`
	if diff := cmp.Diff("12\n3\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestStaticMethods(t *testing.T) {
	source := `
class Math {
  class square(n) { return n * n; }
  class version { return "1.0"; }
}
print Math.square(3);
print Math.version;
var sq = Math.square;
print sq(4);
Math.nope;
Math().square;
`
	out, err := runSource(t, source)
	if diff := cmp.Diff("9\n1.0\n16\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	want := []string{
		"Only static methods are allowed after a class name",
		"Undefined property 'square'.",
	}
	if diff := cmp.Diff(want, errorMessages(err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMethodsShadowFields(t *testing.T) {
	source := `
class A { m() { return "method"; } }
var a = A();
a.m = "field";
print a.m();
a.other = "field";
print a.other;
`
	if diff := cmp.Diff("method\nfield\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestClassesInsideFunctions(t *testing.T) {
	source := `
fun build(label) {
  class Local {
    describe() { return "local " + label; }
  }
  return Local;
}
var L = build("one");
print L().describe();
print L;
`
	if diff := cmp.Diff("local one\nLocal\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestInnerReachesSubclassOverride(t *testing.T) {
	source := `
class Doc {
  render() { return "<doc>" + inner() + "</doc>"; }
}
class Page < Doc {
  render() { return "<page/>"; }
  full() { return super.render(); }
}
class Home < Page {}
class Plain < Doc {}
print Page().full();
print Home().full();
print Plain().render();
`
	want := "<doc><page/></doc>\n<doc><page/></doc>\n<doc>nil</doc>\n"
	if diff := cmp.Diff(want, mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestClassDeclarationErrors(t *testing.T) {
	source := `
var NotClass = 1;
class A < NotClass {}
class B with NotClass {}
class C {}
1.x = 2;
C().nope;
`
	_, err := runSource(t, source)
	want := []string{
		"Superclass must be a class.",
		"Mixin must be a class.",
		"Only instances have fields.",
		"Undefined property 'nope'.",
	}
	if diff := cmp.Diff(want, errorMessages(err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func errorMessages(err error) []string {
	if err == nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		if strings.HasPrefix(line, "[line ") {
			continue
		}
		out = append(out, line)
	}
	return out
}
