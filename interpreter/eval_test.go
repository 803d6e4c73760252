package interpreter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/es5go/parser"
)

func TestDirectEval(t *testing.T) {
	expectNumber(t, `function f() { var x = 5; return eval("x + 1"); } f()`, 6)
	expectNumber(t, `function f() { eval("var y = 2"); return y; } f()`, 2)
	expectBool(t, `var o = { m: function () { return eval("this"); } }; o.m() === o`, true)
	expectNumber(t, `eval("function g() { return 7; }"); g()`, 7)
	expectBool(t, `eval("var d = 1"); delete d`, true)
}

func TestEvalCompletionValue(t *testing.T) {
	expectNumber(t, `eval("1; if (true) { 2; }")`, 2)
	expectUndefined(t, `eval("var q = 1")`)
	expectNumber(t, "eval(5)", 5)
	expectUndefined(t, "eval()")
}

func TestStrictEval(t *testing.T) {
	expectString(t, `function f() { "use strict"; eval("var y = 2"); return typeof y; } f()`, "undefined")
	expectString(t, `eval("'use strict'; var z = 1"); typeof z`, "undefined")
	expectString(t, `"use strict"; eval("var w = 1"); typeof w`, "undefined")
	expectNumber(t, `"use strict"; var v = 1; eval("v = 2"); v`, 2)
}

func TestIndirectEval(t *testing.T) {
	expectString(t, `var x = "global"; function f() { var x = "local"; var e = eval; return e("x"); } f()`, "global")
	expectString(t, `var x = "g"; function f() { var x = "l"; return (0, eval)("x"); } f()`, "g")
	expectString(t, `function f() { var e = eval; e("var leaked = 1"); } f(); typeof leaked`, "number")
}

func TestEvalSyntaxError(t *testing.T) {
	expectBool(t, `try { eval("var = ;"); false; } catch (e) { e instanceof SyntaxError }`, true)
	expectThrows(t, `eval("}")`, "SyntaxError")
}

func TestFunctionConstructor(t *testing.T) {
	expectNumber(t, `var add = new Function("a", "b", "return a + b"); add(2, 3)`, 5)
	expectNumber(t, `Function("return 1")()`, 1)
	expectNumber(t, `Function("a, b", "return a * b")(3, 4)`, 12)
	expectString(t, `var x = "g"; function f() { var x = "l"; return Function("return x")(); } f()`, "g")
	expectString(t, "typeof new Function()", "function")
	expectUndefined(t, "new Function()()")
	expectString(t, `Function("a", "return a").toString()`, "function anonymous(a\n) {\nreturn a\n}")
}

func TestFunctionConstructorRejectsEscapes(t *testing.T) {
	expectThrows(t, `Function("}); (function () {")`, "SyntaxError")
	expectThrows(t, `Function("a) { return a; }; (function (", "")`, "SyntaxError")
}

func TestMaxCallDepth(t *testing.T) {
	expectThrows(t, "function f() { return f(); } f()", "RangeError")
	expectBool(t, "function f() { return f(); } var ok; try { f(); } catch (e) { ok = e instanceof RangeError; } ok", true)

	src := "function f(n) { return n == 0 ? 0 : 1 + f(n - 1); } "
	interp := newTestInterpreter(WithMaxCallDepth(10))
	val, err := interp.Run(src + "f(9)")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if val.AsNumber() != 9 {
		t.Fatalf("expected 9, got %v", val)
	}
	if _, err := interp.Run("f(10)"); err == nil {
		t.Fatal("expected RangeError past the call depth limit")
	}
	// The depth counter unwinds after an error.
	if _, err := interp.Run("f(9)"); err != nil {
		t.Fatalf("Run error after overflow: %v", err)
	}
}

func TestBuiltinRecursionIsBounded(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"var a = []; a[0] = a; String(a)", ""},
		{"var a = [1]; a.push(a); String(a) + '|' + String(a)", "1,|1,"},
		{"var o = {length: 1}; o.toString = Array.prototype.join; o[0] = o; String(o)", ""},
		{"var a = [[1]]; a[0].push(a); a.toLocaleString()", "1,"},
		{"var f = function () {}; for (var i = 0; i < 100000; i++) f = f.bind(null); String({} instanceof f)", "false"},
	}
	for _, tt := range tests {
		expectString(t, tt.src, tt.want)
	}

	for _, src := range []string{
		"var a = []; a.join = Array.prototype.toString; String(a)",
		"function f() { return [1].map(f); } f()",
		"var f = function () {}; for (var i = 0; i < 100000; i++) f = f.bind(null); f()",
		"var o = {}; o.valueOf = function () { return +o; }; +o",
	} {
		expectThrows(t, src, "RangeError")
	}
	expectBool(t, "var a = []; a.join = Array.prototype.toString; var ok; try { String(a); } catch (e) { ok = e instanceof RangeError; } ok", true)

	// Built-in calls share the configured limit with script calls.
	interp := newTestInterpreter(WithMaxCallDepth(10))
	if _, err := interp.Run("function f(n) { return n ? [n - 1].map(f)[0] : 0; } f(4)"); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if _, err := interp.Run("f(5)"); err == nil {
		t.Fatal("expected RangeError when map calls count against the limit")
	}
	if d := interp.Realm().Calls.Depth(); d != 0 {
		t.Fatalf("call depth should unwind to 0, got %d", d)
	}
}

func TestDeepNestingIsASyntaxError(t *testing.T) {
	interp := newTestInterpreter()
	_, err := interp.Run(strings.Repeat("[", 2000000) + strings.Repeat("]", 2000000))
	var list *parser.ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected *parser.ErrorList, got %T: %v", err, err)
	}
	expectThrows(t, "eval('"+strings.Repeat("(", 20000)+"1"+strings.Repeat(")", 20000)+"')", "SyntaxError")
	expectThrows(t, "Function('return "+strings.Repeat("!", 20000)+"1')", "SyntaxError")
}

func TestInterrupt(t *testing.T) {
	interp := newTestInterpreter()
	interp.Interrupt("stop")
	_, err := interp.Run("var x = 1;")
	var ie *InterruptedError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InterruptedError, got %T: %v", err, err)
	}
	if ie.Reason != "stop" {
		t.Fatalf("expected reason %q, got %v", "stop", ie.Reason)
	}

	interp.ClearInterrupt()
	val, err := interp.Run("1 + 1")
	if err != nil {
		t.Fatalf("Run error after ClearInterrupt: %v", err)
	}
	if val.AsNumber() != 2 {
		t.Fatalf("expected 2, got %v", val)
	}
}

func TestTimeout(t *testing.T) {
	tests := []string{
		"while (true) {}",
		"try { while (true) {} } catch (e) {}",
		"function spin() { for (;;) {} } try { spin(); } finally { }",
	}
	for _, src := range tests {
		interp := newTestInterpreter(WithTimeout(20 * time.Millisecond))
		_, err := interp.Run(src)
		var ie *InterruptedError
		if !errors.As(err, &ie) {
			t.Fatalf("expected *InterruptedError for %q, got %T: %v", src, err, err)
		}
		val, err := interp.Run("2")
		if err != nil {
			t.Fatalf("Run error after timeout for %q: %v", src, err)
		}
		if val.AsNumber() != 2 {
			t.Fatalf("expected 2, got %v", val)
		}
	}
}
