package interpreter

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/example/es5go/parser"
	"github.com/example/es5go/runtime"
)

func newTestInterpreter(opts ...Option) *Interpreter {
	return New(append([]Option{WithOutput(io.Discard)}, opts...)...)
}

func evalExpect(t *testing.T, source string) runtime.Value {
	t.Helper()
	interp := newTestInterpreter()
	val, err := interp.Run(source)
	if err != nil {
		t.Fatalf("Run error for %q: %v", source, err)
	}
	return val
}

func evalExpectError(t *testing.T, source string) error {
	t.Helper()
	interp := newTestInterpreter()
	_, err := interp.Run(source)
	if err == nil {
		t.Fatalf("expected error for %q but got none", source)
	}
	return err
}

// expectThrows checks that source ends with an uncaught error of the given
// constructor name, e.g. "TypeError".
func expectThrows(t *testing.T, source, name string) error {
	t.Helper()
	err := evalExpectError(t, source)
	var exc *runtime.Exception
	if !errors.As(err, &exc) {
		t.Fatalf("expected an exception for %q, got %T: %v", source, err, err)
	}
	if !strings.HasPrefix(err.Error(), "Uncaught "+name) {
		t.Fatalf("expected %s for %q, got: %v", name, source, err)
	}
	return err
}

func expectNumber(t *testing.T, source string, expected float64) {
	t.Helper()
	val := evalExpect(t, source)
	if !val.IsNumber() {
		t.Fatalf("expected number for %q, got %v (kind=%v)", source, val, val.Kind())
	}
	if math.IsNaN(expected) {
		if !math.IsNaN(val.AsNumber()) {
			t.Fatalf("expected NaN for %q, got %v", source, val.AsNumber())
		}
		return
	}
	if val.AsNumber() != expected {
		t.Fatalf("expected %v for %q, got %v", expected, source, val.AsNumber())
	}
}

func expectString(t *testing.T, source string, expected string) {
	t.Helper()
	val := evalExpect(t, source)
	if !val.IsString() {
		t.Fatalf("expected string for %q, got kind=%v val=%v", source, val.Kind(), val)
	}
	if val.AsString() != expected {
		t.Fatalf("expected %q for %q, got %q", expected, source, val.AsString())
	}
}

func expectBool(t *testing.T, source string, expected bool) {
	t.Helper()
	val := evalExpect(t, source)
	if !val.IsBoolean() {
		t.Fatalf("expected boolean for %q, got kind=%v", source, val.Kind())
	}
	if val.AsBool() != expected {
		t.Fatalf("expected %v for %q, got %v", expected, source, val.AsBool())
	}
}

func expectUndefined(t *testing.T, source string) {
	t.Helper()
	val := evalExpect(t, source)
	if !val.IsUndefined() {
		t.Fatalf("expected undefined for %q, got kind=%v val=%v", source, val.Kind(), val)
	}
}

func expectNull(t *testing.T, source string) {
	t.Helper()
	val := evalExpect(t, source)
	if !val.IsNull() {
		t.Fatalf("expected null for %q, got kind=%v", source, val.Kind())
	}
}

// --- Literals ---

func TestLiterals(t *testing.T) {
	expectNumber(t, "42", 42)
	expectNumber(t, "3.14", 3.14)
	expectNumber(t, "0x1F", 31)
	expectNumber(t, "010", 8)
	expectString(t, `"hello"`, "hello")
	expectString(t, "'world'", "world")
	expectBool(t, "true", true)
	expectBool(t, "false", false)
	expectNull(t, "null")
	expectUndefined(t, "undefined")
}

// --- Arithmetic ---

func TestArithmetic(t *testing.T) {
	expectNumber(t, "2 + 3", 5)
	expectNumber(t, "10 - 3", 7)
	expectNumber(t, "4 * 5", 20)
	expectNumber(t, "10 / 3", 10.0/3.0)
	expectNumber(t, "10 % 3", 1)
	expectNumber(t, "-7 % 3", -1)
	expectNumber(t, "5.5 % 2", 1.5)
	expectNumber(t, "-5", -5)
	expectNumber(t, "+true", 1)
	expectNumber(t, `"3" * "4"`, 12)
	expectNumber(t, "1 / 0", math.Inf(1))
	expectNumber(t, "undefined + 1", math.NaN())
	expectNumber(t, "null + 1", 1)
	expectNumber(t, "true + true", 2)
}

func TestNegativeZero(t *testing.T) {
	val := evalExpect(t, "-0")
	if !math.Signbit(val.AsNumber()) {
		t.Fatalf("expected -0, got %v", val.AsNumber())
	}
	expectNumber(t, "1 / -0", math.Inf(-1))
	expectBool(t, "0 === -0", true)
}

// --- String concatenation ---

func TestStringConcat(t *testing.T) {
	expectString(t, `"hello" + " " + "world"`, "hello world")
	expectString(t, `"num: " + 42`, "num: 42")
	expectString(t, `1 + "2"`, "12")
	expectString(t, `1 + 2 + "3"`, "33")
	expectString(t, `"1" + 2 + 3`, "123")
	expectString(t, `[1, 2] + ""`, "1,2")
	expectString(t, `({}) + ""`, "[object Object]")
	expectString(t, `"x" + null`, "xnull")
}

// --- Comparison operators ---

func TestComparisons(t *testing.T) {
	expectBool(t, "1 < 2", true)
	expectBool(t, "2 > 1", true)
	expectBool(t, "1 <= 1", true)
	expectBool(t, "1 >= 2", false)
	expectBool(t, "1 == 1", true)
	expectBool(t, "1 == '1'", true)
	expectBool(t, "1 === '1'", false)
	expectBool(t, "1 === 1", true)
	expectBool(t, "1 != 2", true)
	expectBool(t, "1 !== '1'", true)
	expectBool(t, "null == undefined", true)
	expectBool(t, "null === undefined", false)
	expectBool(t, `"a" < "b"`, true)
	expectBool(t, `"10" < "9"`, true)
	expectBool(t, `10 < "9"`, false)
	expectBool(t, "NaN < 1", false)
	expectBool(t, "NaN >= 1", false)
	expectBool(t, "NaN == NaN", false)
	expectBool(t, "undefined == 0", false)
	expectBool(t, "null == 0", false)
	expectBool(t, "null >= 0", true)
	expectBool(t, `"1" == true`, true)
	expectBool(t, `({}) == "[object Object]"`, true)
}

func TestComparisonConversionOrder(t *testing.T) {
	expectString(t, `
		var log = "";
		var a = { valueOf: function () { log += "a"; return 1; } };
		var b = { valueOf: function () { log += "b"; return 2; } };
		a > b;
		a <= b;
		log
	`, "abab")
}

// --- Logical operators ---

func TestLogical(t *testing.T) {
	expectNumber(t, "1 && 2", 2)
	expectNumber(t, "0 && 2", 0)
	expectNumber(t, "1 || 2", 1)
	expectNumber(t, "0 || 2", 2)
	expectBool(t, "!true", false)
	expectBool(t, "!false", true)
	expectBool(t, "!0", true)
	expectBool(t, "!1", false)
	expectNumber(t, "var n = 0; false && n++; true || n++; n", 0)
}

// ToBoolean(ToNumber(x)) and ToBoolean(x) differ for "0".
func TestToBooleanIsNotToNumber(t *testing.T) {
	expectBool(t, `!!"0"`, true)
	expectBool(t, `!!(+"0")`, false)
	expectBool(t, `!!""`, false)
	expectBool(t, `!!new Boolean(false)`, true)
}

// --- Variables ---

func TestVariables(t *testing.T) {
	expectNumber(t, "var x = 10; x", 10)
	expectNumber(t, "var x = 1; x = 2; x", 2)
	expectNumber(t, "var a = 1, b = a + 1; b", 2)
	expectNumber(t, "undeclared = 7; undeclared", 7)
}

func TestVarHoisting(t *testing.T) {
	expectUndefined(t, `
		var x;
		x;
	`)
	expectNumber(t, `
		x = 5;
		var x;
		x;
	`, 5)
	expectUndefined(t, "var y = x; var x = 1; y")
	expectString(t, "var t = typeof f; function f() {} t", "function")
}

func TestForVarIsNotBlockScoped(t *testing.T) {
	expectNumber(t, "for (var i = 0; i < 3; i++) {} i", 3)
}

func TestGlobalBindings(t *testing.T) {
	expectBool(t, "var x = 1; delete x", false)
	expectBool(t, "y = 1; delete y", true)
	expectBool(t, "this.z = 1; delete z", true)
	expectNumber(t, "var g = 4; this.g", 4)
	expectNumber(t, "function f() { return 1; } this.f()", 1)
}

func TestFunctionDeclarationOverNonConfigurableGlobal(t *testing.T) {
	err := expectThrows(t, "function NaN() {}", "TypeError")
	if !strings.Contains(err.Error(), "create mutable function binding failed") {
		t.Fatalf("unexpected message: %v", err)
	}
}

// --- Control flow ---

func TestIfElse(t *testing.T) {
	expectNumber(t, "var x = 0; if (true) { x = 1; } else { x = 2; } x", 1)
	expectNumber(t, "var x = 0; if (false) { x = 1; } else { x = 2; } x", 2)
	expectNumber(t, "var x = 0; if (0) x = 1; else if ('') x = 2; else x = 3; x", 3)
}

func TestTernary(t *testing.T) {
	expectString(t, `true ? "yes" : "no"`, "yes")
	expectString(t, `0 ? "yes" : "no"`, "no")
}

func TestWhileLoop(t *testing.T) {
	expectNumber(t, "var i = 0; var s = 0; while (i < 5) { s += i; i++; } s", 10)
}

func TestDoWhileLoop(t *testing.T) {
	expectNumber(t, "var i = 10; do { i++; } while (i < 5); i", 11)
	expectNumber(t, "var i = 0; do { i++; continue; } while (i < 5); i", 5)
}

func TestForLoop(t *testing.T) {
	expectNumber(t, "var s = 0; for (var i = 1; i <= 4; i++) { s += i; } s", 10)
	expectNumber(t, "var n = 0; for (;;) { if (++n == 3) break; } n", 3)
	expectNumber(t, "var i, s = 0; for (i = 0, s = 1; i < 2; i++) s *= 3; s", 9)
}

func TestBreakContinue(t *testing.T) {
	expectNumber(t, "var s = 0; for (var i = 0; i < 10; i++) { if (i == 5) break; s += i; } s", 10)
	expectNumber(t, "var s = 0; for (var i = 0; i < 5; i++) { if (i % 2) continue; s += i; } s", 6)
}

func TestLabeledBreakContinue(t *testing.T) {
	expectString(t, `
		var s = "";
		outer: for (var i = 0; i < 3; i++) {
			for (var j = 0; j < 3; j++) {
				if (j == 1) continue outer;
				if (i == 2) break outer;
				s += i + "" + j + ",";
			}
		}
		s
	`, "00,10,")
	expectString(t, `
		var s = "";
		block: {
			s += "a";
			if (true) break block;
			s += "b";
		}
		s
	`, "a")
	expectString(t, `
		var s = "";
		loop: while (true) {
			switch (s.length) {
			case 0: s += "x"; continue loop;
			case 1: s += "y"; break;
			default: break loop;
			}
			s += "-";
		}
		s
	`, "xy-")
}

func TestCompletionValues(t *testing.T) {
	expectNumber(t, "1; ;", 1)
	expectNumber(t, "1; var x = 2;", 1)
	expectNumber(t, "2; if (true) {}", 2)
	expectNumber(t, "var i = 0; while (i < 3) { i++; }", 2)
	expectNumber(t, "do { 5; } while (false)", 5)
	expectNumber(t, "x: { 1; break x; 2; }", 1)
	expectNumber(t, "try { 1; } finally { 2; }", 1)
	expectNumber(t, "try { throw 1; } catch (e) { e + 1; }", 2)
	expectString(t, "switch (1) { case 1: 'a'; break; }", "a")
	expectString(t, "for (var k in {a: 1}) { k; }", "a")
	expectNumber(t, "3; function f() {}", 3)
	expectNumber(t, "var i = 0; while (true) { if (i++ > 1) break; i; }", 2)
	expectUndefined(t, "var x = 1;")
}

// --- Switch ---

func TestSwitchFallThrough(t *testing.T) {
	expectString(t, `
		var s = "";
		switch (2) {
		case 1: s += "a";
		case 2: s += "b";
		case 3: s += "c";
		}
		s
	`, "bc")
}

func TestSwitchDefault(t *testing.T) {
	expectString(t, `var s = ""; switch (5) { case 1: s += "1"; default: s += "d"; case 2: s += "2"; } s`, "d2")
	expectString(t, `var s = "x"; switch (3) { case 1: s = "1"; } s`, "x")
}

func TestSwitchUsesStrictEquality(t *testing.T) {
	expectString(t, `var s = ""; switch ("1") { case 1: s = "num"; break; case "1": s = "str"; } s`, "str")
}

func TestSwitchStopsAtMatchingCase(t *testing.T) {
	expectString(t, `
		var s = "";
		function t(v) { s += v; return v; }
		switch (2) { case t(1): break; case t(2): break; case t(3): break; }
		s
	`, "12")
}

// --- Try / catch / finally ---

func TestTryCatch(t *testing.T) {
	expectString(t, `var r; try { throw "oops"; } catch (e) { r = e; } r`, "oops")
	expectBool(t, "try { null.x; } catch (e) { e instanceof TypeError }", true)
	expectString(t, "try { missing; } catch (e) { e.name }", "ReferenceError")
	expectString(t, `try { throw new RangeError("r"); } catch (e) { e.message }`, "r")
}

func TestTryFinallyKeepsThrow(t *testing.T) {
	err := evalExpectError(t, "try { throw 1; } finally { }")
	var exc *runtime.Exception
	if !errors.As(err, &exc) {
		t.Fatalf("expected exception, got %T", err)
	}
	if !exc.Value.IsNumber() || exc.Value.AsNumber() != 1 {
		t.Fatalf("expected thrown value 1, got %v", exc.Value)
	}
}

func TestFinallyCompletions(t *testing.T) {
	expectNumber(t, "function f() { try { return 1; } finally { return 2; } } f()", 2)
	expectNumber(t, `function f() { try { throw new Error("x"); } finally { return 3; } } f()`, 3)
	expectString(t, `function f() { var s = ""; try { s += "t"; return s; } finally { s += "f"; } } f()`, "t")
	expectString(t, `
		var s = "";
		for (var i = 0; i < 3; i++) {
			try { if (i == 1) break; s += i; } finally { s += "f"; }
		}
		s
	`, "0ff")
	expectString(t, `var s = ""; try { throw "e"; } catch (x) { s += x; } finally { s += "!"; } s`, "e!")
	expectString(t, `
		var s = "";
		try {
			try { throw 1; } catch (e) { throw e + 1; } finally { s += "f"; }
		} catch (e2) { s += e2; }
		s
	`, "f2")
}

func TestCatchScope(t *testing.T) {
	expectString(t, `var e = "outer"; try { throw "inner"; } catch (e) { } e`, "outer")
	expectUndefined(t, "try { throw 1; } catch (e) { var e = 2; } e")
	expectNumber(t, "var f; try { throw 4; } catch (e) { f = function () { return e; }; } f()", 4)
}

// --- Functions ---

func TestFunctions(t *testing.T) {
	expectNumber(t, "function add(a, b) { return a + b; } add(2, 3)", 5)
	expectNumber(t, "var mul = function (a, b) { return a * b; }; mul(3, 4)", 12)
	expectNumber(t, "function fib(n) { return n < 2 ? n : fib(n - 1) + fib(n - 2); } fib(15)", 610)
	expectUndefined(t, "function f() { return; } f()")
	expectUndefined(t, "function f() {} f()")
	expectNumber(t, "function f(a, b, c) {} f.length", 3)
	expectNumber(t, "(function (x) { return x * 2; })(21)", 42)
}

func TestClosures(t *testing.T) {
	expectNumber(t, `
		function counter() {
			var n = 0;
			return function () { return ++n; };
		}
		var c = counter();
		c(); c();
		c()
	`, 3)
	// A closure sees later writes to the variables it captured.
	expectNumber(t, "var x = 1; { function f() { return x; } } x = 2; f()", 2)
}

func TestParameterBinding(t *testing.T) {
	expectUndefined(t, "function f(a, b) { return b; } f(1)")
	expectNumber(t, "function f(a, a) { return a; } f(1, 2)", 2)
	expectNumber(t, "function f(a) { var a; return a; } f(4)", 4)
	expectNumber(t, "function f(arguments) { return arguments; } f(3)", 3)
	expectNumber(t, "function f() { function arguments() { return 9; } return arguments(); } f()", 9)
	expectNumber(t, "function f(a) { function a() {} return typeof a == 'function' ? 1 : 0; } f(5)", 1)
}

func TestArgumentsObject(t *testing.T) {
	expectNumber(t, "function f(a, b) { return arguments.length; } f(1, 2, 3)", 3)
	expectNumber(t, "function f() { return arguments[2]; } f(1, 2, 3)", 3)
	expectNumber(t, "function f(a) { arguments[0] = 5; return a; } f(1)", 5)
	expectNumber(t, "function f(a) { a = 7; return arguments[0]; } f(1)", 7)
	expectNumber(t, `function f(a) { "use strict"; arguments[0] = 5; return a; } f(1)`, 1)
	expectBool(t, "function f() { return arguments.callee === f; } f()", true)
	expectString(t, "function f() { return Object.prototype.toString.call(arguments); } f()", "[object Arguments]")
	expectThrows(t, `function f() { "use strict"; return arguments.callee; } f()`, "TypeError")
}

func TestThisBinding(t *testing.T) {
	expectBool(t, "function f() { return this; } f() === this", true)
	expectUndefined(t, `function f() { "use strict"; return this; } f()`)
	expectString(t, "function f() { return typeof this; } f.call(5)", "object")
	expectString(t, `function f() { "use strict"; return typeof this; } f.call(5)`, "number")
	expectNumber(t, "var o = { v: 1, m: function () { return this.v; } }; o.m()", 1)
	expectBool(t, "var o = { m: function () { return this; } }; var m = o.m; m() === this", true)
	expectNumber(t, "var o = { v: 2, m: function () { return this.v; } }; with (o) { m(); }", 2)
}

func TestNamedFunctionExpression(t *testing.T) {
	expectString(t, "var f = function g() { return typeof g; }; f()", "function")
	expectString(t, "var f = function g() {}; typeof g", "undefined")
	expectString(t, "var f = function g() { g = 1; return typeof g; }; f()", "function")
	expectThrows(t, `var f = function g() { "use strict"; g = 1; }; f()`, "TypeError")
	expectNumber(t, "var f = function fact(n) { return n <= 1 ? 1 : n * fact(n - 1); }; f(5)", 120)
}

func TestConstructors(t *testing.T) {
	expectNumber(t, "function P(x) { this.x = x; } var p = new P(3); p.x", 3)
	expectBool(t, "function P() {} var p = new P(); p instanceof P", true)
	expectBool(t, "function P() {} new P().constructor === P", true)
	expectNumber(t, "function Q() { this.a = 1; return { b: 2 }; } new Q().b", 2)
	expectNumber(t, "function R() { this.a = 1; return 5; } new R().a", 1)
	expectNumber(t, "function P() { this.v = 1; } new P().v", 1)
	expectNumber(t, "function A() {} A.prototype.get = function () { return 42; }; new A().get()", 42)
	expectBool(t, "function A() {} A.prototype = null; Object.getPrototypeOf(new A()) === Object.prototype", true)
}

func TestFunctionSourceText(t *testing.T) {
	expectString(t, "function foo(a) { return a; } foo.toString()", "function foo(a) { return a; }")
}

// --- Operators ---

func TestTypeofOperator(t *testing.T) {
	expectString(t, "typeof 1", "number")
	expectString(t, "typeof 'a'", "string")
	expectString(t, "typeof true", "boolean")
	expectString(t, "typeof undefined", "undefined")
	expectString(t, "typeof null", "object")
	expectString(t, "typeof {}", "object")
	expectString(t, "typeof function () {}", "function")
	expectString(t, "typeof notDeclaredAnywhere", "undefined")
	expectString(t, "typeof typeof 1", "string")
	expectThrows(t, "typeof missing.prop", "ReferenceError")
}

func TestDelete(t *testing.T) {
	expectBool(t, "var o = { a: 1 }; delete o.a; 'a' in o", false)
	expectBool(t, "delete 1", true)
	expectBool(t, "delete notDeclared", true)
	expectBool(t, `var o = {}; Object.defineProperty(o, "x", { value: 1 }); delete o.x`, false)
	expectNumber(t, `var o = {}; Object.defineProperty(o, "x", { value: 1 }); delete o.x; o.x`, 1)
	expectThrows(t, `"use strict"; var o = {}; Object.defineProperty(o, "x", { value: 1 }); delete o.x`, "TypeError")
	expectBool(t, "function f(a) { return delete a; } f(1)", false)
}

func TestVoid(t *testing.T) {
	expectUndefined(t, "void 0")
	expectNumber(t, "var x = 1; void (x = 2); x", 2)
}

func TestInOperator(t *testing.T) {
	expectBool(t, "'a' in { a: 1 }", true)
	expectBool(t, "'toString' in {}", true)
	expectBool(t, "1 in [5, 6]", true)
	expectBool(t, "2 in [5, 6]", false)
	err := expectThrows(t, "'a' in 'abc'", "TypeError")
	if !strings.Contains(err.Error(), "in requires object") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestInstanceof(t *testing.T) {
	expectBool(t, "[] instanceof Array", true)
	expectBool(t, "[] instanceof Object", true)
	expectBool(t, "({}) instanceof Array", false)
	expectBool(t, "1 instanceof Object", false)
	err := expectThrows(t, "1 instanceof 2", "TypeError")
	if !strings.Contains(err.Error(), "instanceof requires object") {
		t.Fatalf("unexpected message: %v", err)
	}
	err = expectThrows(t, "({}) instanceof {}", "TypeError")
	if !strings.Contains(err.Error(), "instanceof requires constructor") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestBitwiseOps(t *testing.T) {
	expectNumber(t, "5 & 3", 1)
	expectNumber(t, "5 | 3", 7)
	expectNumber(t, "5 ^ 3", 6)
	expectNumber(t, "~5", -6)
	expectNumber(t, "1 << 3", 8)
	expectNumber(t, "-16 >> 2", -4)
	expectNumber(t, "-1 >>> 0", 4294967295)
	expectNumber(t, "-1 >>> 28", 15)
	expectNumber(t, "1 << 33", 2)
	expectNumber(t, "4294967296 | 0", 0)
	expectNumber(t, "2147483648 | 0", -2147483648)
}

func TestUpdateExpressions(t *testing.T) {
	expectNumber(t, "var x = 5; x++; x", 6)
	expectNumber(t, "var x = 5; x++", 5)
	expectNumber(t, "var x = 5; ++x", 6)
	expectNumber(t, "var x = 5; x--; x", 4)
	expectNumber(t, `var x = "5"; x++; x`, 6)
	expectNumber(t, `var x = "5"; x++`, 5)
	expectNumber(t, "var o = { n: 1 }; o.n++; o.n", 2)
	expectNumber(t, "var x; x++; x", math.NaN())
	expectNumber(t, "var a = [1]; a[0]--; a[0]", 0)
}

func TestCompoundAssignment(t *testing.T) {
	expectNumber(t, "var x = 10; x += 5; x", 15)
	expectNumber(t, "var x = 10; x -= 3; x", 7)
	expectNumber(t, "var x = 10; x *= 2; x", 20)
	expectNumber(t, "var x = 10; x /= 4; x", 2.5)
	expectNumber(t, "var x = 10; x %= 4; x", 2)
	expectNumber(t, "var x = 1; x <<= 4; x", 16)
	expectNumber(t, "var x = -16; x >>= 2; x", -4)
	expectNumber(t, "var x = -1; x >>>= 28; x", 15)
	expectNumber(t, "var x = 6; x &= 3; x", 2)
	expectNumber(t, "var x = 6; x |= 3; x", 7)
	expectNumber(t, "var x = 6; x ^= 3; x", 5)
	expectString(t, `var s = "a"; s += "b"; s`, "ab")
}

func TestCompoundAssignmentEvaluatesTargetOnce(t *testing.T) {
	expectString(t, `
		var n = 0;
		var o = {};
		function k() { n++; return "p"; }
		o[k()] = 1;
		o[k()] += 1;
		n + ":" + o.p
	`, "2:2")
}

func TestInvalidAssignmentTarget(t *testing.T) {
	expectThrows(t, "1 = 2", "ReferenceError")
	expectBool(t, `
		var called = false;
		function f() { called = true; }
		var ok = false;
		try { f() = 1; } catch (e) { ok = called && e instanceof ReferenceError; }
		ok
	`, true)
}

func TestSequenceExpression(t *testing.T) {
	expectNumber(t, "(1, 2, 3)", 3)
	expectNumber(t, "var a = 0; var b = (a++, a++, a); b", 2)
}

// --- Objects and arrays ---

func TestObjectLiterals(t *testing.T) {
	expectNumber(t, "var o = { a: 1, 'b': 2, 3: 3 }; o.a + o.b + o[3]", 6)
	expectNumber(t, "var o = { a: { b: { c: 4 } } }; o.a.b.c", 4)
	expectNumber(t, "var o = { if: 1, class: 2 }; o.if + o.class", 3)
	expectNumber(t, "var o = { a: 1, a: 2 }; o.a", 2)
}

func TestAccessorProperties(t *testing.T) {
	expectNumber(t, `
		var o = {
			_v: 1,
			get v() { return this._v; },
			set v(x) { this._v = x * 2; }
		};
		o.v = 5;
		o.v
	`, 10)
	expectNumber(t, "var o = { get v() { return 1; } }; o.v = 5; o.v", 1)
	expectThrows(t, `"use strict"; var o = { get v() { return 1; } }; o.v = 5;`, "TypeError")
	expectNumber(t, `
		var proto = { set x(v) { this.seen = v; } };
		var o = Object.create(proto);
		o.x = 3;
		o.seen
	`, 3)
}

func TestPropertyAccessOnNullish(t *testing.T) {
	expectThrows(t, "var o = null; o.x", "TypeError")
	expectThrows(t, "undefined[0]", "TypeError")
	expectThrows(t, "var o; o.x = 1", "TypeError")
}

func TestPrimitiveProperties(t *testing.T) {
	expectNumber(t, `"abc".length`, 3)
	expectString(t, `"abc"[1]`, "b")
	expectString(t, "(5).toString()", "5")
	expectString(t, "true.toString()", "true")
	expectUndefined(t, `var s = "abc"; s.x = 1; s.x`)
	expectThrows(t, `"use strict"; var s = "abc"; s.x = 1;`, "TypeError")
}

func TestArrayLiterals(t *testing.T) {
	expectNumber(t, "[1, , 3].length", 3)
	expectBool(t, "1 in [1, , 3]", false)
	expectNumber(t, "[,].length", 1)
	expectNumber(t, "[1, 2, ].length", 2)
	expectNumber(t, "var a = [1, 2, 3]; a.length = 1; a.length", 1)
	expectUndefined(t, "var a = [1, 2, 3]; a.length = 1; a[1]")
	expectNumber(t, "var a = []; a[5] = 1; a.length", 6)
}

func TestReadOnlyProperty(t *testing.T) {
	src := `var o = {}; Object.defineProperty(o, "x", { value: 1, writable: false, configurable: false });`
	expectNumber(t, src+"o.x = 2; o.x", 1)
	expectThrows(t, `"use strict"; `+src+"o.x = 2;", "TypeError")
}

// --- for-in ---

func TestForIn(t *testing.T) {
	expectString(t, `var o = { a: 1, b: 2, c: 3 }; var s = ""; for (var k in o) { s += k; } s`, "abc")
	expectString(t, `var s = ""; for (var i in [7, 8]) s += i; s`, "01")
	expectString(t, `
		function P() { this.own = 1; }
		P.prototype.inh = 2;
		var s = "";
		for (var k in new P()) s += k + ",";
		s
	`, "own,inh,")
	expectNumber(t, "var n = 0; for (var k in null) n++; for (var k in undefined) n++; n", 0)
	expectString(t, `var s = ""; for (var i in "ab") s += i; s`, "01")
	expectString(t, "var o = {}; for (o.k in { x: 1 }) {} o.k", "x")
}

func TestForInSnapshot(t *testing.T) {
	expectString(t, `var o = { a: 1, b: 2, c: 3 }; var s = ""; for (var k in o) { s += k; delete o.b; } s`, "ac")
	expectString(t, `var o = { a: 1 }; var s = ""; for (var k in o) { s += k; o.z = 1; } s`, "a")
}

// Enumeration follows insertion order; index-like keys are not sorted.
func TestForInInsertionOrder(t *testing.T) {
	expectString(t, `var o = {}; o.b = 1; o[2] = 1; o.a = 1; o[1] = 1; var s = ""; for (var k in o) s += k; s`, "b2a1")
}

// --- with ---

func TestWith(t *testing.T) {
	expectNumber(t, "var o = { x: 1 }; with (o) { x = 2; } o.x", 2)
	expectNumber(t, "var o = {}; with (o) { var y = 3; } y + (o.y === undefined ? 0 : 100)", 3)
	expectNumber(t, "var x = 1; var o = { x: 5 }; var r; with (o) { r = x; } r", 5)
}

// --- Strict mode ---

func TestStrictMode(t *testing.T) {
	err := expectThrows(t, `"use strict"; undeclared = 1;`, "ReferenceError")
	if !strings.Contains(err.Error(), "putting to unresolvable reference not allowed in strict reference") {
		t.Fatalf("unexpected message: %v", err)
	}
	expectThrows(t, `function f() { "use strict"; } f.caller`, "TypeError")
	expectNumber(t, `function f() { "use strict"; return 1; } function g() { x = 2; return x; } f() + g()`, 3)
}

func TestStrictOption(t *testing.T) {
	interp := newTestInterpreter(WithStrict(true))
	if _, err := interp.Run("x = 1"); err == nil {
		t.Fatal("expected ReferenceError in strict mode")
	}
	if _, err := interp.Run("with ({}) {}"); err == nil {
		t.Fatal("expected syntax error for with in strict mode")
	}
}

// --- Errors ---

func TestReferenceErrorMessage(t *testing.T) {
	err := expectThrows(t, "undeclaredVar", "ReferenceError")
	if err.Error() != `Uncaught ReferenceError: "undeclaredVar" not defined` {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestCallNonCallable(t *testing.T) {
	err := expectThrows(t, "var o = {}; o.f()", "TypeError")
	if !strings.Contains(err.Error(), "not callable object") {
		t.Fatalf("unexpected message: %v", err)
	}
	expectThrows(t, "new 5", "TypeError")
	expectThrows(t, "new Math.max()", "TypeError")
}

func TestUncaughtException(t *testing.T) {
	err := evalExpectError(t, `throw new TypeError("boom")`)
	if err.Error() != "Uncaught TypeError: boom" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	err = evalExpectError(t, "throw 5")
	var exc *runtime.Exception
	if !errors.As(err, &exc) || exc.Value.AsNumber() != 5 {
		t.Fatalf("expected thrown 5, got %v", err)
	}
}

func TestSyntaxErrorFromRun(t *testing.T) {
	err := evalExpectError(t, "var = 1")
	var list *parser.ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected *parser.ErrorList, got %T", err)
	}
}

func TestErrorPropagation(t *testing.T) {
	expectString(t, `
		function a() { throw new Error("deep"); }
		function b() { a(); }
		function c() { try { b(); } catch (e) { return e.message; } }
		c()
	`, "deep")
}

// --- Embedding ---

func TestRegisterNative(t *testing.T) {
	interp := newTestInterpreter()
	interp.RegisterNative("add", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Num(args[0].AsNumber() + args[1].AsNumber()), nil
	})
	interp.RegisterNative("fail", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Undefined, runtime.NewTypeError("bad")
	})

	val, err := interp.Run("add(2, 3)")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if val.AsNumber() != 5 {
		t.Fatalf("expected 5, got %v", val)
	}

	val, err = interp.Run(`try { fail(); } catch (e) { e instanceof TypeError && e.message }`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if val.AsString() != "bad" {
		t.Fatalf("expected \"bad\", got %v", val)
	}
}

func TestSetGlobal(t *testing.T) {
	interp := newTestInterpreter()
	interp.SetGlobal("answer", runtime.Num(42))
	val, err := interp.Run("answer")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if val.AsNumber() != 42 {
		t.Fatalf("expected 42, got %v", val)
	}
}

func TestStatePersistsAcrossRuns(t *testing.T) {
	interp := newTestInterpreter()
	if _, err := interp.Run("var counter = 1; function inc() { return ++counter; }"); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	val, err := interp.Run("inc(); inc()")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if val.AsNumber() != 3 {
		t.Fatalf("expected 3, got %v", val)
	}
}
