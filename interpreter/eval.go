package interpreter

import (
	"errors"
	"strings"

	"github.com/example/es5go/ast"
	"github.com/example/es5go/parser"
	"github.com/example/es5go/runtime"
)

// directEval runs eval code in the caller's execution context.
func (interp *Interpreter) directEval(args []runtime.Value, caller *execContext) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Undefined, nil
	}
	if !args[0].IsString() {
		return args[0], nil
	}
	return interp.evalCode(args[0].AsString(), caller, true)
}

// indirectEval is [[Call]] of the eval function when it is not called
// directly: the code runs as global code.
func (interp *Interpreter) indirectEval(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Undefined, nil
	}
	if !args[0].IsString() {
		return args[0], nil
	}
	global := &execContext{
		lexEnv: interp.realm.GlobalEnv,
		varEnv: interp.realm.GlobalEnv,
		this:   runtime.ObjectValue(interp.realm.Global),
	}
	return interp.evalCode(args[0].AsString(), global, false)
}

// evalCode parses and runs eval code. Strict eval code gets its own
// variable environment, so its declarations do not leak to the caller.
func (interp *Interpreter) evalCode(src string, caller *execContext, direct bool) (runtime.Value, error) {
	var mode parser.Mode
	if direct && caller.strict {
		mode |= parser.StrictMode
	}
	program, err := parser.NewWithMode(src, mode).ParseProgram()
	if err != nil {
		return runtime.Undefined, syntaxError(err)
	}

	ec := *caller
	ec.strict = program.Scope.Strict
	if ec.strict {
		env := runtime.NewDeclarativeEnv(ec.lexEnv)
		ec.lexEnv = env
		ec.varEnv = env
	}
	if err := interp.instantiateDeclarations(evalCode, program.Scope, &ec, nil, nil); err != nil {
		return runtime.Undefined, err
	}

	c := interp.execStatements(program.Statements, &ec)
	switch {
	case c.Mode == Throw:
		return runtime.Undefined, c.Err
	case c.Empty:
		return runtime.Undefined, nil
	}
	return c.Value, nil
}

// compileFunction implements the Function constructor. The parameter list
// and body are parsed as one function expression; source that closes the
// function early and continues after it is rejected.
func (interp *Interpreter) compileFunction(params, body string) (*runtime.Object, error) {
	var src strings.Builder
	src.WriteString("(function anonymous(")
	src.WriteString(params)
	src.WriteString("\n) {\n")
	src.WriteString(body)
	src.WriteString("\n})")

	program, err := parser.ParseProgram(src.String())
	if err != nil {
		return nil, syntaxError(err)
	}
	if len(program.Statements) != 1 {
		return nil, runtime.NewSyntaxError("invalid function body")
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, runtime.NewSyntaxError("invalid function body")
	}
	fe, ok := stmt.Expression.(*ast.FunctionExpression)
	if !ok {
		return nil, runtime.NewSyntaxError("invalid function body")
	}
	return interp.createFunction(fe.Function, interp.realm.GlobalEnv), nil
}

// syntaxError converts a parse failure into a script SyntaxError.
func syntaxError(err error) error {
	var list *parser.ErrorList
	if errors.As(err, &list) {
		return runtime.NewSyntaxError("%s", list.First())
	}
	return runtime.NewSyntaxError("%s", err.Error())
}
