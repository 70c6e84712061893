package interpreter

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
	"github.com/pviafore/CraftingInterpreters/pkg/parser"
	"github.com/pviafore/CraftingInterpreters/pkg/resolver"
	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

func TestShadowedInitializerReadsOuterBinding(t *testing.T) {
	out := mustRun(t, `var a = 1; { var a = a + 1; print a; } print a;`)
	if diff := cmp.Diff("2\n1\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestClosureCounterKeepsState(t *testing.T) {
	source := `
fun make() {
  var n = 0;
  fun inc() { n = n + 1; return n; }
  return inc;
}
var f = make();
print f();
print f();
var g = make();
print g();
`
	if diff := cmp.Diff("1\n2\n1\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestClosuresCaptureLoopScopedVariables(t *testing.T) {
	source := `
var fns = [];
for (var i = 0; i < 3; i = i + 1) {
  var j = i;
  fns.append(fun () { return j; });
}
print fns[0]();
print fns[2]();

var get;
var set;
{
  var x = 1;
  get = fun () { return x; };
  set = fun (v) { x = v; };
}
print get();
set(5);
print get();
`
	if diff := cmp.Diff("0\n2\n1\n5\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestShadowingKeepsOuterSlot(t *testing.T) {
	source := `
{
  var a = "outer";
  {
    var a = "inner";
    print a;
  }
  print a;
}
`
	if diff := cmp.Diff("inner\nouter\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDeepNestingAgreesWithResolver(t *testing.T) {
	source := `
fun outer(a, b) {
  var c = a * 10;
  {
    var d = b * 100;
    {
      var e = c + d;
      fun sum(f) { return a + b + c + d + e + f; }
      a = a + 1;
      return sum(1000);
    }
  }
}
print outer(1, 2);
`
	// a was bumped to 2 before sum ran: 2 + 2 + 10 + 200 + 210 + 1000.
	if diff := cmp.Diff("1424\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRecursion(t *testing.T) {
	source := `
fun fib(n) { return n < 2 ? n : fib(n - 1) + fib(n - 2); }
print fib(15);
{
  fun countdown(n) { if (n > 0) return countdown(n - 1); return "done"; }
  print countdown(5);
}
`
	if diff := cmp.Diff("610\ndone\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmeticAndDisplay(t *testing.T) {
	source := `
print 1 + "x";
print "x" + 1.5;
print "a" + "b";
print 3;
print 10 / 4;
print -(2 * 3) - 1;
print 2 <= 2;
print 3 <= 2;
print 2 >= 3;
print !nil;
print (1, 2);
print nil;
print [1, "two", nil, [true]];
print [1] + [2, 3];
print "list: " + [1, "a"];
`
	want := "1x\nx1.5\nab\n3\n2.5\n-7\ntrue\nfalse\nfalse\ntrue\n2\nnil\n" +
		"[1, \"two\", nil, [true]]\n[1, 2, 3]\nlist: [1, \"a\"]\n"
	if diff := cmp.Diff(want, mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualityAndTruthiness(t *testing.T) {
	source := `
print nil == nil;
print nil == false;
print 1 == 1;
print "a" == "a";
print 1 == "1";
print 0 ? "zero is truthy" : "zero is falsy";
print "" ? "empty is truthy" : "empty is falsy";
print nil or "default";
print false and 1;
print 1 and 2;
fun f() {}
print f == f;
`
	want := "true\nfalse\ntrue\ntrue\nfalse\nzero is truthy\nempty is truthy\ndefault\nfalse\n2\ntrue\n"
	if diff := cmp.Diff(want, mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTernaryAndLogicalShortCircuit(t *testing.T) {
	source := `
var calls = 0;
fun touch(v) { calls = calls + 1; return v; }
print true ? touch("then") : touch("else");
print calls;
print false and touch(1);
print true or touch(2);
print calls;
`
	if diff := cmp.Diff("then\n1\nfalse\ntrue\n1\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestLoopsBreakAndReturn(t *testing.T) {
	source := `
var i = 0;
while (true) {
  if (i == 3) break;
  i = i + 1;
}
print i;

for (var k = 0; k < 10; k = k + 1) {
  {
    if (k == 2) break;
  }
  print k;
}

fun find(xs, target) {
  for (var n = 0; n < xs.size(); n = n + 1) {
    if (xs[n] == target) return n;
  }
  return -1;
}
print find([5, 6, 7], 7);
print find([5], 9);
`
	if diff := cmp.Diff("3\n0\n1\n2\n-1\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFunctionDisplay(t *testing.T) {
	source := `
fun named() {}
print named;
print fun () {};
print clock;
class A { m() {} }
print A().m;
print [].size;
`
	want := "<fn named>\n<fn>\n<native fn clock>\n<fn m>\n<native fn size>\n"
	if diff := cmp.Diff(want, mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestNativeRegistrationIsArityChecked(t *testing.T) {
	var out bytes.Buffer
	interp := New(Options{Stdout: &out, DisableClock: true})
	interp.RegisterNative("double", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		n, ok := args[0].(runtime.NumberValue)
		if !ok {
			return nil, errors.New("double wants a number")
		}
		return runtime.NumberValue{Val: n.Val * 2}, nil
	})

	err := runIn(t, interp, `print double(21); double(); double("x"); print clock;`)
	if diff := cmp.Diff("42\n", out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) || !errors.Is(err, ErrArity) {
		t.Fatalf("expected an arity error, got %v", err)
	}
	want := "Expected 1 arguments but got 0.\n[line 1]\n" +
		"double wants a number\n[line 1]\n" +
		"Undefined variable 'clock'.\n[line 1]"
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Fatalf("error mismatch (-want +got):\n%s", diff)
	}
}

func TestClockUsesInjectedTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	now := func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(1500 * time.Millisecond)
	}
	var out bytes.Buffer
	interp := New(Options{Stdout: &out, Now: now})
	if err := runIn(t, interp, "print clock();"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "1.5\n" {
		t.Fatalf("unexpected clock output %q", out.String())
	}
}

func TestEvaluateExpressionAgainstGlobals(t *testing.T) {
	var out bytes.Buffer
	interp := New(Options{Stdout: &out})
	if err := runIn(t, interp, `var greeting = "hi";`); err != nil {
		t.Fatalf("run: %v", err)
	}
	expr, err := parser.ParseExpression(`greeting + " there"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	val, err := interp.EvaluateExpression(expr)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got := interp.Stringify(val); got != "hi there" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestInterpretBuiltFromDSL(t *testing.T) {
	var out bytes.Buffer
	interp := New(Options{Stdout: &out})
	program := ast.Program(
		ast.VarDecl("total", ast.Num(0)),
		ast.Fn("add", []string{"n"},
			ast.Expr(ast.AssignTo("total", ast.Bin("+", ast.ID("total"), ast.ID("n")))),
		),
		ast.Expr(ast.CallExpr(ast.ID("add"), ast.Num(2))),
		ast.Expr(ast.CallExpr(ast.ID("add"), ast.Num(3))),
		ast.PrintStmt(ast.ID("total")),
	)
	locals, diags := resolver.New(resolver.Options{Globals: interp.Globals()}).Resolve(program)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	interp.Resolve(locals)
	if err := interp.Interpret(program); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if out.String() != "5\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestNativeValuesCompareByNameAndReceiver(t *testing.T) {
	source := `
var c = clock;
print c == c;
print clock == clock;
var xs = [];
print xs.size == xs.size;
print xs.size == [].size;
print xs.size == xs.append;
`
	if diff := cmp.Diff("true\ntrue\ntrue\nfalse\nfalse\n", mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayOfRawStringsAndNonFiniteNumbers(t *testing.T) {
	source := `
print ["a\b", "tab	here"];
var big = 1;
for (var i = 0; i < 1100; i = i + 1) big = big * 2;
print big;
print -big;
print big - big;
`
	want := "[\"a\\b\", \"tab\there\"]\nInfinity\n-Infinity\nNaN\n"
	if diff := cmp.Diff(want, mustRun(t, source)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
