package interpreter

import (
	"fmt"

	"github.com/example/es5go/ast"
	"github.com/example/es5go/runtime"
)

// execStatements runs a statement list. The completion value is that of
// the last statement producing one.
func (interp *Interpreter) execStatements(stmts []ast.Statement, ec *execContext) Completion {
	result := emptyCompletion
	for _, stmt := range stmts {
		c := interp.execStatement(stmt, ec).orValue(result.Value, result.Empty)
		if c.Abrupt() {
			return c
		}
		result = c
	}
	return result
}

// execStatement executes a statement, returning its completion.
func (interp *Interpreter) execStatement(stmt ast.Statement, ec *execContext) Completion {
	if err := interp.checkInterrupt(); err != nil {
		return throwCompletion(err)
	}
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		v, err := interp.evalValue(s.Expression, ec)
		if err != nil {
			return throwCompletion(err)
		}
		return normalCompletion(v)
	case *ast.VariableDeclaration:
		return interp.execVarDecl(s, ec)
	case *ast.BlockStatement:
		return interp.execStatements(s.Statements, ec)
	case *ast.ReturnStatement:
		return interp.execReturn(s, ec)
	case *ast.IfStatement:
		return interp.execIf(s, ec)
	case *ast.WhileStatement:
		return interp.execWhile(s, ec)
	case *ast.DoWhileStatement:
		return interp.execDoWhile(s, ec)
	case *ast.ForStatement:
		return interp.execFor(s, ec)
	case *ast.ForInStatement:
		return interp.execForIn(s, ec)
	case *ast.BreakStatement:
		return Completion{Mode: Break, Empty: true, Target: s.Target}
	case *ast.ContinueStatement:
		return Completion{Mode: Continue, Empty: true, Target: s.Target}
	case *ast.SwitchStatement:
		return interp.execSwitch(s, ec)
	case *ast.ThrowStatement:
		v, err := interp.evalValue(s.Argument, ec)
		if err != nil {
			return throwCompletion(err)
		}
		return throwCompletion(runtime.Throw(v))
	case *ast.TryStatement:
		return interp.execTry(s, ec)
	case *ast.LabeledStatement:
		c := interp.execStatement(s.Body, ec)
		if c.Mode == Break && c.Target == s.ID {
			c.Mode = Normal
			c.Target = 0
		}
		return c
	case *ast.WithStatement:
		return interp.execWith(s, ec)
	case *ast.FunctionDeclaration:
		// instantiated on entry to the enclosing code
		return emptyCompletion
	case *ast.EmptyStatement, *ast.DebuggerStatement:
		return emptyCompletion
	}
	panic(fmt.Sprintf("interpreter: unsupported statement %T", stmt))
}

func (interp *Interpreter) execVarDecl(s *ast.VariableDeclaration, ec *execContext) Completion {
	for _, decl := range s.Declarations {
		if err := interp.initializeVar(decl, ec); err != nil {
			return throwCompletion(err)
		}
	}
	return emptyCompletion
}

// initializeVar assigns a declarator's initializer. Declarators without one
// do nothing: the binding was created on entry.
func (interp *Interpreter) initializeVar(decl *ast.VariableDeclarator, ec *execContext) error {
	if decl.Value == nil {
		return nil
	}
	ref := runtime.GetIdentifierReference(ec.lexEnv, decl.Name.Value, ec.strict)
	v, err := interp.evalValue(decl.Value, ec)
	if err != nil {
		return err
	}
	return interp.realm.PutValue(ref, v)
}

func (interp *Interpreter) execReturn(s *ast.ReturnStatement, ec *execContext) Completion {
	if s.Value == nil {
		return Completion{Mode: Return, Value: runtime.Undefined}
	}
	v, err := interp.evalValue(s.Value, ec)
	if err != nil {
		return throwCompletion(err)
	}
	return Completion{Mode: Return, Value: v}
}

func (interp *Interpreter) execIf(s *ast.IfStatement, ec *execContext) Completion {
	cond, err := interp.evalValue(s.Condition, ec)
	if err != nil {
		return throwCompletion(err)
	}
	if runtime.ToBoolean(cond) {
		return interp.execStatement(s.Consequence, ec)
	}
	if s.Alternative != nil {
		return interp.execStatement(s.Alternative, ec)
	}
	return emptyCompletion
}

// loopResult is the completion of an iteration statement whose body
// completed with c, given the value v carried so far.
func loopResult(c Completion, id ast.TargetID, v runtime.Value, empty bool) Completion {
	if c.Mode == Break && c.targets(id) {
		return Completion{Mode: Normal, Value: v, Empty: empty}
	}
	return c.orValue(v, empty)
}

func (interp *Interpreter) execWhile(s *ast.WhileStatement, ec *execContext) Completion {
	v, empty := runtime.Undefined, true
	for {
		cond, err := interp.evalValue(s.Condition, ec)
		if err != nil {
			return throwCompletion(err)
		}
		if !runtime.ToBoolean(cond) {
			break
		}
		c := interp.execStatement(s.Body, ec)
		if !c.Empty {
			v, empty = c.Value, false
		}
		if !loopContinues(c, s.ID) {
			return loopResult(c, s.ID, v, empty)
		}
	}
	return Completion{Mode: Normal, Value: v, Empty: empty}
}

func (interp *Interpreter) execDoWhile(s *ast.DoWhileStatement, ec *execContext) Completion {
	v, empty := runtime.Undefined, true
	for {
		c := interp.execStatement(s.Body, ec)
		if !c.Empty {
			v, empty = c.Value, false
		}
		if !loopContinues(c, s.ID) {
			return loopResult(c, s.ID, v, empty)
		}
		cond, err := interp.evalValue(s.Condition, ec)
		if err != nil {
			return throwCompletion(err)
		}
		if !runtime.ToBoolean(cond) {
			break
		}
	}
	return Completion{Mode: Normal, Value: v, Empty: empty}
}

func (interp *Interpreter) execFor(s *ast.ForStatement, ec *execContext) Completion {
	switch init := s.Init.(type) {
	case *ast.VariableDeclaration:
		if c := interp.execVarDecl(init, ec); c.Abrupt() {
			return c
		}
	case ast.Expression:
		if _, err := interp.evalValue(init, ec); err != nil {
			return throwCompletion(err)
		}
	}

	v, empty := runtime.Undefined, true
	for {
		if s.Test != nil {
			cond, err := interp.evalValue(s.Test, ec)
			if err != nil {
				return throwCompletion(err)
			}
			if !runtime.ToBoolean(cond) {
				break
			}
		}
		c := interp.execStatement(s.Body, ec)
		if !c.Empty {
			v, empty = c.Value, false
		}
		if !loopContinues(c, s.ID) {
			return loopResult(c, s.ID, v, empty)
		}
		if s.Update != nil {
			if _, err := interp.evalValue(s.Update, ec); err != nil {
				return throwCompletion(err)
			}
		}
	}
	return Completion{Mode: Normal, Value: v, Empty: empty}
}

// execForIn enumerates a snapshot of the enumerable property names of the
// object. Names deleted before their turn are skipped.
func (interp *Interpreter) execForIn(s *ast.ForInStatement, ec *execContext) Completion {
	var varName string
	if decl, ok := s.Left.(*ast.VariableDeclaration); ok {
		d := decl.Declarations[0]
		if err := interp.initializeVar(d, ec); err != nil {
			return throwCompletion(err)
		}
		varName = d.Name.Value
	}

	exprValue, err := interp.evalValue(s.Right, ec)
	if err != nil {
		return throwCompletion(err)
	}
	if exprValue.IsNullish() {
		return emptyCompletion
	}
	obj, err := interp.realm.ToObject(exprValue)
	if err != nil {
		return throwCompletion(err)
	}

	names := obj.PropertyNames(runtime.EnumerableOnly | runtime.IncludePrototypes)
	v, empty := runtime.Undefined, true
	for _, name := range names {
		if p, ok := obj.GetProperty(name); !ok || !p.Enumerable {
			continue
		}
		var lhs runtime.Value
		if varName != "" {
			lhs = runtime.ReferenceValue(runtime.GetIdentifierReference(ec.lexEnv, varName, ec.strict))
		} else {
			lhs, err = interp.evalExpression(s.Left.(ast.Expression), ec)
			if err != nil {
				return throwCompletion(err)
			}
		}
		if err := interp.putValue(lhs, runtime.Str(name)); err != nil {
			return throwCompletion(err)
		}

		c := interp.execStatement(s.Body, ec)
		if !c.Empty {
			v, empty = c.Value, false
		}
		if !loopContinues(c, s.ID) {
			return loopResult(c, s.ID, v, empty)
		}
	}
	return Completion{Mode: Normal, Value: v, Empty: empty}
}

// execSwitch selects the first case whose test is strictly equal to the
// discriminant, or the default clause, and falls through from there.
func (interp *Interpreter) execSwitch(s *ast.SwitchStatement, ec *execContext) Completion {
	disc, err := interp.evalValue(s.Discriminant, ec)
	if err != nil {
		return throwCompletion(err)
	}

	start, defaultIdx := -1, -1
	for i, cc := range s.Cases {
		if cc.Test == nil {
			defaultIdx = i
			continue
		}
		test, err := interp.evalValue(cc.Test, ec)
		if err != nil {
			return throwCompletion(err)
		}
		if runtime.StrictEqual(disc, test) {
			start = i
			break
		}
	}
	if start < 0 {
		start = defaultIdx
	}
	if start < 0 {
		return emptyCompletion
	}

	v, empty := runtime.Undefined, true
	for _, cc := range s.Cases[start:] {
		c := interp.execStatements(cc.Consequent, ec)
		if !c.Empty {
			v, empty = c.Value, false
		}
		if c.Abrupt() {
			if c.Mode == Break && c.targets(s.ID) {
				return Completion{Mode: Normal, Value: v, Empty: empty}
			}
			return c.orValue(v, empty)
		}
	}
	return Completion{Mode: Normal, Value: v, Empty: empty}
}

// execTry runs the finally block after the try and catch blocks. A normal
// finally restores their completion; an abrupt one replaces it.
func (interp *Interpreter) execTry(s *ast.TryStatement, ec *execContext) Completion {
	c := interp.execStatements(s.Block.Statements, ec)
	if c.Mode == Throw && s.Handler != nil {
		if thrown, ok := interp.realm.ThrowValue(c.Err); ok {
			c = interp.execCatch(s.Handler, thrown, ec)
		}
	}
	if s.Finalizer != nil {
		if f := interp.execStatements(s.Finalizer.Statements, ec); f.Abrupt() {
			return f
		}
	}
	return c
}

func (interp *Interpreter) execCatch(h *ast.CatchClause, thrown runtime.Value, ec *execContext) Completion {
	catchEnv := runtime.NewDeclarativeEnv(ec.lexEnv)
	if err := catchEnv.CreateMutableBinding(h.Param.Value, false); err != nil {
		return throwCompletion(err)
	}
	if err := catchEnv.SetMutableBinding(h.Param.Value, thrown, false); err != nil {
		return throwCompletion(err)
	}
	return interp.execStatements(h.Body.Statements, ec.withLexEnv(catchEnv))
}

func (interp *Interpreter) execWith(s *ast.WithStatement, ec *execContext) Completion {
	v, err := interp.evalValue(s.Object, ec)
	if err != nil {
		return throwCompletion(err)
	}
	obj, err := interp.realm.ToObject(v)
	if err != nil {
		return throwCompletion(err)
	}
	return interp.execStatement(s.Body, ec.withLexEnv(runtime.NewObjectEnv(obj, ec.lexEnv, true)))
}
