package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/es5go/ast"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := New(input).ParseProgram()
	if err != nil {
		var list *ErrorList
		if errors.As(err, &list) {
			for _, e := range list.Errors {
				t.Errorf("parser error: %s", e)
			}
		}
		t.FailNow()
	}
	return prog
}

func parseWithErrors(input string) (*ast.Program, *ErrorList) {
	prog, err := New(input).ParseProgram()
	if err == nil {
		return prog, nil
	}
	return prog, err.(*ErrorList)
}

func expectStmtCount(t *testing.T, prog *ast.Program, n int) {
	t.Helper()
	if len(prog.Statements) != n {
		t.Fatalf("expected %d statements, got %d", n, len(prog.Statements))
	}
}

func expression(t *testing.T, input string) ast.Expression {
	t.Helper()
	prog := parse(t, input)
	expectStmtCount(t, prog, 1)
	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", prog.Statements[0])
	}
	return stmt.Expression
}

func expectSyntaxError(t *testing.T, input, fragment string) {
	t.Helper()
	_, errs := parseWithErrors(input)
	if errs == nil {
		t.Fatalf("%q: expected a syntax error", input)
	}
	if !strings.Contains(errs.Error(), fragment) {
		t.Errorf("%q: expected error containing %q, got %q", input, fragment, errs.Error())
	}
}

// ---------- Declarations ----------

func TestVarDeclaration(t *testing.T) {
	prog := parse(t, `var a = 1, b, c = a;`)
	expectStmtCount(t, prog, 1)
	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", prog.Statements[0])
	}
	if len(decl.Declarations) != 3 {
		t.Fatalf("expected 3 declarators, got %d", len(decl.Declarations))
	}
	if decl.Declarations[1].Value != nil {
		t.Error("expected nil value for b")
	}
	if got := strings.Join(prog.Scope.VarNames, ","); got != "a,b,c" {
		t.Errorf("expected var names a,b,c, got %s", got)
	}
}

func TestVarNamesDeduplicated(t *testing.T) {
	prog := parse(t, `var x; if (a) { var y, x; } for (var z in o) {} function f() { var inner; }`)
	if got := strings.Join(prog.Scope.VarNames, ","); got != "x,y,z" {
		t.Errorf("expected x,y,z, got %s", got)
	}
	if len(prog.Scope.Functions) != 1 || prog.Scope.Functions[0].Function.Name.Value != "f" {
		t.Fatalf("expected function f to be hoisted, got %v", prog.Scope.Functions)
	}
	inner := prog.Scope.Functions[0].Function.Scope
	if len(inner.VarNames) != 1 || inner.VarNames[0] != "inner" {
		t.Errorf("expected inner scope var, got %v", inner.VarNames)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	src := `function add(a, b) { return a + b; }`
	prog := parse(t, src)
	decl := prog.Statements[0].(*ast.FunctionDeclaration)
	fn := decl.Function
	if fn.Name.Value != "add" {
		t.Errorf("expected add, got %s", fn.Name.Value)
	}
	if len(fn.Params) != 2 || fn.Params[1].Value != "b" {
		t.Fatalf("unexpected params %v", fn.Params)
	}
	if got := strings.Join(fn.Scope.Params, ","); got != "a,b" {
		t.Errorf("scope params: %s", got)
	}
	if fn.Source != src {
		t.Errorf("expected source %q, got %q", src, fn.Source)
	}
}

func TestFunctionExpressionSource(t *testing.T) {
	e := expression(t, "x = function named() {\n  return 1;\n}")
	fe := e.(*ast.AssignmentExpression).Right.(*ast.FunctionExpression)
	if fe.Function.Name == nil || fe.Function.Name.Value != "named" {
		t.Fatalf("expected named function expression")
	}
	if !strings.HasPrefix(fe.Function.Source, "function named()") || !strings.HasSuffix(fe.Function.Source, "}") {
		t.Errorf("unexpected source %q", fe.Function.Source)
	}
}

// ---------- Expressions ----------

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		check func(ast.Expression) bool
	}{
		{`42`, func(e ast.Expression) bool { n, ok := e.(*ast.NumberLiteral); return ok && n.Value == 42 }},
		{`0x1F`, func(e ast.Expression) bool { n, ok := e.(*ast.NumberLiteral); return ok && n.Value == 31 }},
		{`017`, func(e ast.Expression) bool { n, ok := e.(*ast.NumberLiteral); return ok && n.Value == 15 }},
		{`1.5e2`, func(e ast.Expression) bool { n, ok := e.(*ast.NumberLiteral); return ok && n.Value == 150 }},
		{`'hi'`, func(e ast.Expression) bool { s, ok := e.(*ast.StringLiteral); return ok && s.Value == "hi" }},
		{`true`, func(e ast.Expression) bool { b, ok := e.(*ast.BooleanLiteral); return ok && b.Value }},
		{`null`, func(e ast.Expression) bool { _, ok := e.(*ast.NullLiteral); return ok }},
		{`this`, func(e ast.Expression) bool { _, ok := e.(*ast.ThisExpression); return ok }},
		{`undefined`, func(e ast.Expression) bool { id, ok := e.(*ast.Identifier); return ok && id.Value == "undefined" }},
	}
	for _, tt := range tests {
		if e := expression(t, tt.input); !tt.check(e) {
			t.Errorf("%s: unexpected node %T", tt.input, e)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	e := expression(t, `a + b * c - d`)
	sub := e.(*ast.BinaryExpression)
	if sub.Operator != "-" {
		t.Fatalf("expected -, got %s", sub.Operator)
	}
	add := sub.Left.(*ast.BinaryExpression)
	if add.Operator != "+" {
		t.Fatalf("expected +, got %s", add.Operator)
	}
	if mul := add.Right.(*ast.BinaryExpression); mul.Operator != "*" {
		t.Errorf("expected *, got %s", mul.Operator)
	}
}

func TestLogicalAndConditional(t *testing.T) {
	e := expression(t, `a || b && c ? d : e ? f : g`)
	cond := e.(*ast.ConditionalExpression)
	or := cond.Test.(*ast.LogicalExpression)
	if or.Operator != "||" {
		t.Errorf("expected ||, got %s", or.Operator)
	}
	if and := or.Right.(*ast.LogicalExpression); and.Operator != "&&" {
		t.Errorf("expected &&, got %s", and.Operator)
	}
	if _, ok := cond.Alternate.(*ast.ConditionalExpression); !ok {
		t.Errorf("expected nested conditional, got %T", cond.Alternate)
	}
}

func TestAssignmentRightAssociative(t *testing.T) {
	e := expression(t, `a = b += c`)
	outer := e.(*ast.AssignmentExpression)
	inner, ok := outer.Right.(*ast.AssignmentExpression)
	if !ok || inner.Operator != "+=" {
		t.Fatalf("expected compound assignment on the right, got %T", outer.Right)
	}
}

func TestUnaryAndUpdate(t *testing.T) {
	e := expression(t, `-a++`)
	un := e.(*ast.UnaryExpression)
	upd, ok := un.Operand.(*ast.UpdateExpression)
	if !ok || upd.Prefix {
		t.Fatalf("expected postfix update operand, got %T", un.Operand)
	}
	e = expression(t, `typeof --x`)
	if upd := e.(*ast.UnaryExpression).Operand.(*ast.UpdateExpression); !upd.Prefix || upd.Operator != "--" {
		t.Errorf("expected prefix --")
	}
}

func TestMemberAndCallChains(t *testing.T) {
	e := expression(t, `a.b[c](d).e`)
	outer := e.(*ast.MemberExpression)
	if outer.Property.(*ast.Identifier).Value != "e" {
		t.Fatalf("expected .e outermost")
	}
	call := outer.Object.(*ast.CallExpression)
	if len(call.Arguments) != 1 {
		t.Fatalf("expected one argument")
	}
	idx := call.Callee.(*ast.MemberExpression)
	if !idx.Computed {
		t.Errorf("expected computed member")
	}
}

func TestKeywordPropertyNames(t *testing.T) {
	e := expression(t, `a.if.class.null`)
	m := e.(*ast.MemberExpression)
	if m.Property.(*ast.Identifier).Value != "null" {
		t.Errorf("expected null property name")
	}
}

func TestNewExpression(t *testing.T) {
	e := expression(t, `new a.B(1).c`)
	m := e.(*ast.MemberExpression)
	ne, ok := m.Object.(*ast.NewExpression)
	if !ok {
		t.Fatalf("expected NewExpression as object, got %T", m.Object)
	}
	if len(ne.Arguments) != 1 {
		t.Errorf("expected 1 argument")
	}
	if _, ok := ne.Callee.(*ast.MemberExpression); !ok {
		t.Errorf("expected member callee, got %T", ne.Callee)
	}

	e = expression(t, `new new X()()`)
	outer := e.(*ast.NewExpression)
	if _, ok := outer.Callee.(*ast.NewExpression); !ok {
		t.Errorf("expected nested new, got %T", outer.Callee)
	}

	e = expression(t, `new X`)
	if ne := e.(*ast.NewExpression); ne.Arguments != nil {
		t.Errorf("expected no arguments")
	}
}

func TestArrayLiteralHoles(t *testing.T) {
	tests := []struct {
		input string
		n     int
		holes []int
	}{
		{`[1, , 3]`, 3, []int{1}},
		{`[1,]`, 1, nil},
		{`[,]`, 1, []int{0}},
		{`[1,,]`, 2, []int{1}},
		{`[]`, 0, nil},
	}
	for _, tt := range tests {
		arr := expression(t, tt.input).(*ast.ArrayLiteral)
		if len(arr.Elements) != tt.n {
			t.Errorf("%s: expected %d elements, got %d", tt.input, tt.n, len(arr.Elements))
			continue
		}
		for _, h := range tt.holes {
			if arr.Elements[h] != nil {
				t.Errorf("%s: expected hole at %d", tt.input, h)
			}
		}
	}
}

func TestObjectLiteral(t *testing.T) {
	e := expression(t, `({a: 1, 'b c': 2, 3: x, 1.50: y, if: 0, get g() { return 1 }, set g(v) {}, get: 5})`)
	obj := e.(*ast.ObjectLiteral)
	wantKeys := []string{"a", "b c", "3", "1.5", "if", "g", "g", "get"}
	wantKinds := []ast.PropertyKind{ast.PropertyInit, ast.PropertyInit, ast.PropertyInit, ast.PropertyInit,
		ast.PropertyInit, ast.PropertyGet, ast.PropertySet, ast.PropertyInit}
	if len(obj.Properties) != len(wantKeys) {
		t.Fatalf("expected %d properties, got %d", len(wantKeys), len(obj.Properties))
	}
	for i, prop := range obj.Properties {
		if prop.Key != wantKeys[i] || prop.Kind != wantKinds[i] {
			t.Errorf("property %d: expected %q/%d, got %q/%d", i, wantKeys[i], wantKinds[i], prop.Key, prop.Kind)
		}
	}
	if _, ok := obj.Properties[5].Value.(*ast.FunctionExpression); !ok {
		t.Errorf("getter value should be a function expression")
	}
}

func TestRegExpLiteral(t *testing.T) {
	e := expression(t, `x = /a\/b[/]/gi`)
	re, ok := e.(*ast.AssignmentExpression).Right.(*ast.RegExpLiteral)
	if !ok {
		t.Fatalf("expected RegExpLiteral")
	}
	if re.Pattern != `a\/b[/]` || re.Flags != "gi" {
		t.Errorf("unexpected pattern %q flags %q", re.Pattern, re.Flags)
	}

	e = expression(t, `a / b / c`)
	if _, ok := e.(*ast.BinaryExpression); !ok {
		t.Errorf("expected division, got %T", e)
	}

	prog := parse(t, "x = a\n/2/i")
	expectStmtCount(t, prog, 1)
}

func TestStatementStartingWithRegExp(t *testing.T) {
	prog := parse(t, "/=/.test(s);")
	call := prog.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	re := call.Callee.(*ast.MemberExpression).Object.(*ast.RegExpLiteral)
	if re.Pattern != "=" {
		t.Errorf("expected pattern =, got %q", re.Pattern)
	}
}

func TestSequenceExpression(t *testing.T) {
	seq := expression(t, `a, b = 1, c`).(*ast.SequenceExpression)
	if len(seq.Expressions) != 3 {
		t.Fatalf("expected 3 expressions, got %d", len(seq.Expressions))
	}
}

// ---------- Statements ----------

func TestIfElse(t *testing.T) {
	prog := parse(t, `if (a) b; else if (c) d; else e;`)
	stmt := prog.Statements[0].(*ast.IfStatement)
	if _, ok := stmt.Alternative.(*ast.IfStatement); !ok {
		t.Errorf("expected else-if, got %T", stmt.Alternative)
	}
}

func TestForVariants(t *testing.T) {
	prog := parse(t, `for (;;) {} for (var i = 0, j; i < 3; i++, j--) {} for (x in o) {} for (var k in o) {} for (a.b in o);`)
	expectStmtCount(t, prog, 5)
	empty := prog.Statements[0].(*ast.ForStatement)
	if empty.Init != nil || empty.Test != nil || empty.Update != nil {
		t.Errorf("expected empty for clauses")
	}
	full := prog.Statements[1].(*ast.ForStatement)
	if _, ok := full.Init.(*ast.VariableDeclaration); !ok {
		t.Errorf("expected var init, got %T", full.Init)
	}
	if _, ok := full.Update.(*ast.SequenceExpression); !ok {
		t.Errorf("expected sequence update, got %T", full.Update)
	}
	for i := 2; i < 5; i++ {
		if _, ok := prog.Statements[i].(*ast.ForInStatement); !ok {
			t.Errorf("statement %d: expected ForInStatement, got %T", i, prog.Statements[i])
		}
	}
}

func TestForInitWithInsideParens(t *testing.T) {
	prog := parse(t, `for (var x = ('a' in o); x; ) break;`)
	if _, ok := prog.Statements[0].(*ast.ForStatement); !ok {
		t.Fatalf("expected ForStatement, got %T", prog.Statements[0])
	}
}

func TestSwitchStatement(t *testing.T) {
	prog := parse(t, `switch (x) { case 1: a; b; case 2: default: c; }`)
	sw := prog.Statements[0].(*ast.SwitchStatement)
	if len(sw.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(sw.Cases))
	}
	if len(sw.Cases[0].Consequent) != 2 || sw.Cases[2].Test != nil {
		t.Errorf("unexpected case layout")
	}
}

func TestTryStatement(t *testing.T) {
	prog := parse(t, `try { a } catch (e) { b } finally { c }`)
	ts := prog.Statements[0].(*ast.TryStatement)
	if ts.Handler == nil || ts.Handler.Param.Value != "e" || ts.Finalizer == nil {
		t.Errorf("unexpected try statement %+v", ts)
	}
	expectSyntaxError(t, `try {}`, "missing catch or finally")
}

func TestBreakContinueTargets(t *testing.T) {
	prog := parse(t, `outer: for (;;) { inner: while (1) { break; continue outer; } break outer; }`)
	label := prog.Statements[0].(*ast.LabeledStatement)
	forStmt := label.Body.(*ast.ForStatement)
	if label.ID != forStmt.ID || forStmt.ID == 0 {
		t.Fatalf("label and loop should share a target ID: %d vs %d", label.ID, forStmt.ID)
	}
	body := forStmt.Body.(*ast.BlockStatement)
	innerLabel := body.Statements[0].(*ast.LabeledStatement)
	while := innerLabel.Body.(*ast.WhileStatement)
	block := while.Body.(*ast.BlockStatement)

	brk := block.Statements[0].(*ast.BreakStatement)
	if brk.Target != while.ID {
		t.Errorf("unlabeled break should target the while loop")
	}
	cont := block.Statements[1].(*ast.ContinueStatement)
	if cont.Target != forStmt.ID {
		t.Errorf("continue outer should target the for loop")
	}
	outerBreak := body.Statements[1].(*ast.BreakStatement)
	if outerBreak.Target != forStmt.ID {
		t.Errorf("break outer should target the for loop")
	}
}

func TestBreakOutOfLabeledBlock(t *testing.T) {
	prog := parse(t, `done: { if (x) break done; y(); }`)
	label := prog.Statements[0].(*ast.LabeledStatement)
	block := label.Body.(*ast.BlockStatement)
	brk := block.Statements[0].(*ast.IfStatement).Consequence.(*ast.BreakStatement)
	if brk.Target != label.ID || label.ID == 0 {
		t.Errorf("break should target the labeled block, got %d vs %d", brk.Target, label.ID)
	}
}

func TestSwitchBreakAndLoopContinue(t *testing.T) {
	prog := parse(t, `while (a) { switch (b) { case 1: break; default: continue; } }`)
	while := prog.Statements[0].(*ast.WhileStatement)
	sw := while.Body.(*ast.BlockStatement).Statements[0].(*ast.SwitchStatement)
	brk := sw.Cases[0].Consequent[0].(*ast.BreakStatement)
	cont := sw.Cases[1].Consequent[0].(*ast.ContinueStatement)
	if brk.Target != sw.ID {
		t.Errorf("break should leave the switch")
	}
	if cont.Target != while.ID {
		t.Errorf("continue should target the loop")
	}
}

// ---------- Automatic semicolon insertion ----------

func TestASIRestrictedProductions(t *testing.T) {
	prog := parse(t, "function f() { return\n1 }")
	fn := prog.Statements[0].(*ast.FunctionDeclaration).Function
	if len(fn.Body) != 2 {
		t.Fatalf("expected return and expression statement, got %d statements", len(fn.Body))
	}
	if ret := fn.Body[0].(*ast.ReturnStatement); ret.Value != nil {
		t.Errorf("return followed by newline must not take an argument")
	}

	prog = parse(t, "a\n++b")
	expectStmtCount(t, prog, 2)
	upd := prog.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.UpdateExpression)
	if !upd.Prefix {
		t.Errorf("++ after newline must be prefix")
	}

	prog = parse(t, "x: while (1) { break\nx }")
	while := prog.Statements[0].(*ast.LabeledStatement).Body.(*ast.WhileStatement)
	if brk := while.Body.(*ast.BlockStatement).Statements[0].(*ast.BreakStatement); brk.Label != nil {
		t.Errorf("break label after newline must not be read")
	}
}

func TestASIBeforeClosingBrace(t *testing.T) {
	parse(t, `function f() { return 1 }`)
	parse(t, "var a = 1\nvar b = 2")
	parse(t, `do x++; while (x < 3) y()`)
	expectSyntaxError(t, `a b`, "unexpected token")
}

// ---------- Directives and strict mode ----------

func TestDirectivePrologue(t *testing.T) {
	prog := parse(t, `'use strict'; var x;`)
	if !prog.Scope.Strict {
		t.Error("expected strict program")
	}
	prog = parse(t, `"use\x20strict"; with (o) {}`)
	if prog.Scope.Strict {
		t.Error("escaped directive must not enable strict mode")
	}
	prog = parse(t, `"other"; "use strict"; function f() {} `)
	if !prog.Scope.Strict || !prog.Scope.Functions[0].Function.Scope.Strict {
		t.Error("strictness should extend to nested functions")
	}
	prog = parse(t, `x; "use strict"; with (o) {}`)
	if prog.Scope.Strict {
		t.Error("directive after a statement must be ignored")
	}
	prog = parse(t, `function f() { "use strict"; } with (o) {}`)
	if prog.Scope.Strict || !prog.Scope.Functions[0].Function.Scope.Strict {
		t.Error("function directive must not leak out")
	}
}

func TestStrictModeOption(t *testing.T) {
	_, err := NewWithMode(`with (o) {}`, StrictMode).ParseProgram()
	if err == nil {
		t.Fatal("expected error for with in strict mode")
	}
}

func TestEarlyErrors(t *testing.T) {
	tests := []struct {
		input    string
		fragment string
	}{
		{`break;`, "illegal break"},
		{`continue;`, "illegal continue"},
		{`while (1) { (function () { break; }); }`, "illegal break"},
		{`x: { continue x; }`, "illegal continue"},
		{`while (1) break missing;`, "undefined label"},
		{`a: a: ;`, "already been declared"},
		{`return 1;`, "illegal return"},
		{`switch (x) { default: default: }`, "more than one default"},
		{`throw` + "\n" + `1;`, "illegal newline after throw"},
		{`'use strict'; with (o) {}`, "with statement"},
		{`'use strict'; delete x;`, "delete of an unqualified identifier"},
		{`'use strict'; eval = 1;`, "eval or arguments"},
		{`'use strict'; arguments++;`, "eval or arguments"},
		{`'use strict'; var eval;`, "eval or arguments"},
		{`'use strict'; try {} catch (arguments) {}`, "eval or arguments"},
		{`function f(a, a) { 'use strict'; }`, "duplicate parameter"},
		{`function eval() { 'use strict'; }`, "eval or arguments"},
		{`'use strict'; 010;`, "octal literals"},
		{`'use strict'; '\08';`, "octal escape"},
		{`function f() { '\01'; 'use strict'; }`, "octal escape"},
		{`'use strict'; var let = 1;`, "reserved word"},
		{`'use strict'; implements;`, "reserved word"},
		{`class;`, "unexpected token"},
		{`'use strict'; ({a: 1, a: 2});`, "duplicate property"},
		{`({a: 1, get a() {}});`, "duplicate property"},
		{`({get a() {}, get a() {}});`, "duplicate property"},
		{`({set a(v) {}, a: 1});`, "duplicate property"},
		{`({set a() {}});`, "exactly one formal parameter"},
		{`({get a(x) {}});`, "getter must not have"},
		{`x = /a/gg;`, "invalid regular expression flags"},
		{`for (a + b in c);`, "invalid left-hand side"},
		{`function () {}`, "requires a name"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSyntaxError(t, tt.input, tt.fragment)
		})
	}
}

func TestSloppyModeAllows(t *testing.T) {
	inputs := []string{
		`with (o) { x }`,
		`delete x;`,
		`eval = 1; arguments = 2;`,
		`var let = 1, yield = 2;`,
		`function f(a, a) {}`,
		`010 + '\01';`,
		`({a: 1, a: 2});`,
		`({get a() {}, set a(v) {}});`,
		`a: { break a; }`,
		`a: b: while (1) { continue a; }`,
	}
	for _, input := range inputs {
		parse(t, input)
	}
}

func TestScopeMarkers(t *testing.T) {
	prog := parse(t, `function f() { return arguments[0]; } function g() { eval('1'); } function h() { return function () { arguments; }; } function w() { with (o) {} }`)
	fns := prog.Scope.Functions
	if !fns[0].Function.Scope.UsesArguments || !fns[0].Function.Scope.NeedsArguments() {
		t.Error("f should use arguments")
	}
	if !fns[1].Function.Scope.UsesEval || !fns[1].Function.Scope.NeedsArguments() {
		t.Error("g should use eval")
	}
	if fns[2].Function.Scope.UsesArguments {
		t.Error("arguments in a nested function must not mark h")
	}
	if !fns[3].Function.Scope.HasWith {
		t.Error("w should contain with")
	}
	if prog.Scope.UsesArguments {
		t.Error("program must not be marked")
	}
}

func TestErrorPositions(t *testing.T) {
	_, errs := parseWithErrors("var x = 1;\nvar = 2;")
	if errs == nil || len(errs.Errors) == 0 {
		t.Fatal("expected errors")
	}
	if errs.Errors[0].Line != 2 {
		t.Errorf("expected error on line 2, got %d", errs.Errors[0].Line)
	}
	if !strings.HasPrefix(errs.Error(), "parse error at 2:") {
		t.Errorf("unexpected message %q", errs.Error())
	}
}

func TestParseTerminatesOnGarbage(t *testing.T) {
	for _, input := range []string{`)))`, `{{{`, `var`, `function f(`, `a[`, `"abc`, `#`} {
		if _, errs := parseWithErrors(input); errs == nil {
			t.Errorf("%q: expected errors", input)
		}
	}
}

func TestNestingLimit(t *testing.T) {
	deep := func(open, mid, close string, n int) string {
		return strings.Repeat(open, n) + mid + strings.Repeat(close, n)
	}
	tests := []string{
		deep("[", "", "]", 2000000),
		deep("(", "1", ")", 2000000),
		deep("{", "", "}", maxNesting+1),
		deep("if (a) ", "b;", "", maxNesting+1),
		deep("!", "1", "", maxNesting+1),
		deep("new ", "F", "", maxNesting+1),
		"1" + strings.Repeat(" + 1", 2000000),
		"a" + strings.Repeat(".b", maxNesting+1),
		deep("function f() { return ", "1", "; }", maxNesting),
	}
	for _, input := range tests {
		prog, errs := parseWithErrors(input)
		if errs == nil {
			t.Errorf("%.20q...: expected a nesting error", input)
			continue
		}
		if prog != nil {
			t.Errorf("%.20q...: expected no program after bailing out", input)
		}
		last := errs.Errors[len(errs.Errors)-1]
		if !strings.Contains(last.Msg, "nesting exceeds") || last.Line != 1 || last.Column <= 1 {
			t.Errorf("%.20q...: unexpected error %v", input, last)
		}
	}

	// Ordinary depths still parse.
	parse(t, deep("[", "1", "]", 500))
	parse(t, "var s = 'a'"+strings.Repeat(" + 'a'", 2000)+";")
}

func TestComplexProgram(t *testing.T) {
	parse(t, `
var counter = (function () {
  var count = 0;
  return {
    inc: function () { return ++count; },
    get value() { return count; }
  };
}());
for (var i = 0; i < 10; i++) {
  if (i % 2) continue;
  counter.inc();
}
label: for (var k in { a: 1 }) {
  switch (k) {
    case 'a': break label;
  }
}
try { throw new Error('x'); } catch (e) { e.message; } finally { void 0; }
`)
}
