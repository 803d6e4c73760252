package interpreter

import (
	"fmt"
	"strconv"

	"github.com/example/es5go/ast"
	"github.com/example/es5go/runtime"
)

// evalExpression evaluates an expression. The result may be a Reference;
// evalValue dereferences it.
func (interp *Interpreter) evalExpression(expr ast.Expression, ec *execContext) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return runtime.ReferenceValue(runtime.GetIdentifierReference(ec.lexEnv, e.Value, ec.strict)), nil
	case *ast.NumberLiteral:
		return runtime.Num(e.Value), nil
	case *ast.StringLiteral:
		return runtime.Str(e.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Bool(e.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.ThisExpression:
		return ec.this, nil
	case *ast.RegExpLiteral:
		return interp.evalRegExpLiteral(e)
	case *ast.ArrayLiteral:
		return interp.evalArrayLiteral(e, ec)
	case *ast.ObjectLiteral:
		return interp.evalObjectLiteral(e, ec)
	case *ast.FunctionExpression:
		return runtime.ObjectValue(interp.evalFunctionExpression(e, ec)), nil
	case *ast.MemberExpression:
		return interp.evalMember(e, ec)
	case *ast.CallExpression:
		return interp.evalCall(e, ec)
	case *ast.NewExpression:
		return interp.evalNew(e, ec)
	case *ast.UnaryExpression:
		return interp.evalUnary(e, ec)
	case *ast.UpdateExpression:
		return interp.evalUpdate(e, ec)
	case *ast.BinaryExpression:
		return interp.evalBinary(e, ec)
	case *ast.LogicalExpression:
		return interp.evalLogical(e, ec)
	case *ast.AssignmentExpression:
		return interp.evalAssignment(e, ec)
	case *ast.ConditionalExpression:
		return interp.evalConditional(e, ec)
	case *ast.SequenceExpression:
		return interp.evalSequence(e, ec)
	}
	panic(fmt.Sprintf("interpreter: unsupported expression %T", expr))
}

func (interp *Interpreter) evalValue(expr ast.Expression, ec *execContext) (runtime.Value, error) {
	v, err := interp.evalExpression(expr, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	return interp.realm.GetValue(v)
}

// putValue stores w through the reference v. Anything but a reference is
// not a valid assignment target.
func (interp *Interpreter) putValue(v, w runtime.Value) error {
	if !v.IsReference() {
		return runtime.NewReferenceError("invalid assignment target")
	}
	return interp.realm.PutValue(v.AsReference(), w)
}

func (interp *Interpreter) evalRegExpLiteral(e *ast.RegExpLiteral) (runtime.Value, error) {
	if interp.realm.NewRegExp == nil {
		return runtime.Undefined, runtime.NewSyntaxError("regular expressions are not supported")
	}
	re, err := interp.realm.NewRegExp(e.Pattern, e.Flags)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(re), nil
}

// evalArrayLiteral leaves elisions as holes; they still count towards
// length.
func (interp *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral, ec *execContext) (runtime.Value, error) {
	arr := interp.realm.NewArray(nil)
	for i, el := range e.Elements {
		if el == nil {
			continue
		}
		v, err := interp.evalValue(el, ec)
		if err != nil {
			return runtime.Undefined, err
		}
		if _, err := arr.DefineOwnProperty(strconv.Itoa(i), runtime.DataDescriptor(v, true, true, true), false); err != nil {
			return runtime.Undefined, err
		}
	}
	if err := arr.Put("length", runtime.Num(float64(len(e.Elements))), false); err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(arr), nil
}

func (interp *Interpreter) evalObjectLiteral(e *ast.ObjectLiteral, ec *execContext) (runtime.Value, error) {
	obj := interp.realm.NewObject()
	for _, prop := range e.Properties {
		var desc runtime.PropertyDescriptor
		switch prop.Kind {
		case ast.PropertyInit:
			v, err := interp.evalValue(prop.Value, ec)
			if err != nil {
				return runtime.Undefined, err
			}
			desc = runtime.DataDescriptor(v, true, true, true)
		case ast.PropertyGet, ast.PropertySet:
			fe := prop.Value.(*ast.FunctionExpression)
			closure := runtime.ObjectValue(interp.createFunction(fe.Function, ec.lexEnv))
			desc = runtime.PropertyDescriptor{Enumerable: runtime.FlagTrue, Configurable: runtime.FlagTrue}
			if prop.Kind == ast.PropertyGet {
				desc.Get, desc.HasGet = closure, true
			} else {
				desc.Set, desc.HasSet = closure, true
			}
		}
		if _, err := obj.DefineOwnProperty(prop.Key, desc, false); err != nil {
			return runtime.Undefined, err
		}
	}
	return runtime.ObjectValue(obj), nil
}

func (interp *Interpreter) evalFunctionExpression(e *ast.FunctionExpression, ec *execContext) *runtime.Object {
	if e.Function.Name != nil {
		return interp.createNamedFunctionExpression(e.Function, ec.lexEnv)
	}
	return interp.createFunction(e.Function, ec.lexEnv)
}

// evalMember produces a property reference. The base is checked only after
// both operands are evaluated.
func (interp *Interpreter) evalMember(e *ast.MemberExpression, ec *execContext) (runtime.Value, error) {
	base, err := interp.evalValue(e.Object, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	var key string
	if e.Computed {
		nameVal, err := interp.evalValue(e.Property, ec)
		if err != nil {
			return runtime.Undefined, err
		}
		if base.IsNullish() {
			return runtime.Undefined, interp.nullishBaseError(base, nameVal)
		}
		key, err = runtime.ToString(nameVal)
		if err != nil {
			return runtime.Undefined, err
		}
	} else {
		key = e.Property.(*ast.Identifier).Value
		if base.IsNullish() {
			return runtime.Undefined, interp.nullishBaseError(base, runtime.Str(key))
		}
	}
	return runtime.ReferenceValue(&runtime.Reference{Base: base, Name: key, Strict: ec.strict}), nil
}

func (interp *Interpreter) nullishBaseError(base, key runtime.Value) error {
	if key.IsPrimitive() {
		return runtime.NewTypeError("cannot read property %q of %s", key.String(), base.String())
	}
	return runtime.NewTypeError("cannot read property of %s", base.String())
}

func (interp *Interpreter) evalArguments(exprs []ast.Expression, ec *execContext) ([]runtime.Value, error) {
	args := make([]runtime.Value, len(exprs))
	for i, arg := range exprs {
		v, err := interp.evalValue(arg, ec)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (interp *Interpreter) evalCall(e *ast.CallExpression, ec *execContext) (runtime.Value, error) {
	ref, err := interp.evalExpression(e.Callee, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	fn, err := interp.realm.GetValue(ref)
	if err != nil {
		return runtime.Undefined, err
	}
	args, err := interp.evalArguments(e.Arguments, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	if !fn.IsCallable() {
		return runtime.Undefined, runtime.NewTypeError("not callable object")
	}

	this := runtime.Undefined
	if ref.IsReference() {
		r := ref.AsReference()
		switch {
		case r.IsPropertyReference():
			this = r.Base
		case r.Base.IsEnvironment():
			this = r.Base.AsEnvironment().ImplicitThisValue()
			if r.Name == "eval" && fn.AsObject() == interp.realm.Eval {
				return interp.directEval(args, ec)
			}
		}
	}
	return fn.AsObject().Call(this, args)
}

func (interp *Interpreter) evalNew(e *ast.NewExpression, ec *execContext) (runtime.Value, error) {
	ctor, err := interp.evalValue(e.Callee, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	args, err := interp.evalArguments(e.Arguments, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	if !ctor.IsObject() {
		return runtime.Undefined, runtime.NewTypeError("not a constructor")
	}
	return ctor.AsObject().Construct(args)
}

func (interp *Interpreter) evalUnary(e *ast.UnaryExpression, ec *execContext) (runtime.Value, error) {
	switch e.Operator {
	case "delete":
		return interp.evalDelete(e, ec)
	case "typeof":
		v, err := interp.evalExpression(e.Operand, ec)
		if err != nil {
			return runtime.Undefined, err
		}
		if v.IsReference() && v.AsReference().IsUnresolvable() {
			return runtime.Str("undefined"), nil
		}
		v, err = interp.realm.GetValue(v)
		if err != nil {
			return runtime.Undefined, err
		}
		return runtime.Str(runtime.TypeOf(v)), nil
	}

	v, err := interp.evalValue(e.Operand, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	switch e.Operator {
	case "void":
		return runtime.Undefined, nil
	case "!":
		return runtime.Bool(!runtime.ToBoolean(v)), nil
	case "+":
		n, err := runtime.ToNumber(v)
		return runtime.Num(n), err
	case "-":
		n, err := runtime.ToNumber(v)
		return runtime.Num(-n), err
	case "~":
		n, err := runtime.ToInt32(v)
		return runtime.Num(float64(^n)), err
	}
	panic(fmt.Sprintf("interpreter: unknown unary operator %q", e.Operator))
}

func (interp *Interpreter) evalDelete(e *ast.UnaryExpression, ec *execContext) (runtime.Value, error) {
	v, err := interp.evalExpression(e.Operand, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	if !v.IsReference() {
		return runtime.True, nil
	}
	ref := v.AsReference()
	switch {
	case ref.IsUnresolvable():
		if ref.Strict {
			return runtime.Undefined, runtime.NewSyntaxError("delete of an unqualified identifier in strict mode")
		}
		return runtime.True, nil
	case ref.IsPropertyReference():
		obj, err := interp.realm.ToObject(ref.Base)
		if err != nil {
			return runtime.Undefined, err
		}
		ok, err := obj.Delete(ref.Name, ref.Strict)
		return runtime.Bool(ok), err
	}
	ok, err := ref.Base.AsEnvironment().DeleteBinding(ref.Name)
	return runtime.Bool(ok), err
}

func (interp *Interpreter) evalUpdate(e *ast.UpdateExpression, ec *execContext) (runtime.Value, error) {
	ref, err := interp.evalExpression(e.Operand, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	if !ref.IsReference() {
		return runtime.Undefined, runtime.NewReferenceError("invalid assignment target")
	}
	old, err := interp.realm.GetValue(ref)
	if err != nil {
		return runtime.Undefined, err
	}
	oldNum, err := runtime.ToNumber(old)
	if err != nil {
		return runtime.Undefined, err
	}
	newNum := oldNum + 1
	if e.Operator == "--" {
		newNum = oldNum - 1
	}
	if err := interp.putValue(ref, runtime.Num(newNum)); err != nil {
		return runtime.Undefined, err
	}
	if e.Prefix {
		return runtime.Num(newNum), nil
	}
	return runtime.Num(oldNum), nil
}

func (interp *Interpreter) evalBinary(e *ast.BinaryExpression, ec *execContext) (runtime.Value, error) {
	left, err := interp.evalValue(e.Left, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	right, err := interp.evalValue(e.Right, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	return applyBinary(e.Operator, left, right)
}

func (interp *Interpreter) evalLogical(e *ast.LogicalExpression, ec *execContext) (runtime.Value, error) {
	left, err := interp.evalValue(e.Left, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	truthy := runtime.ToBoolean(left)
	if (e.Operator == "&&" && !truthy) || (e.Operator == "||" && truthy) {
		return left, nil
	}
	return interp.evalValue(e.Right, ec)
}

// evalAssignment resolves the left-hand side once; compound operators
// read and write through the same reference.
func (interp *Interpreter) evalAssignment(e *ast.AssignmentExpression, ec *execContext) (runtime.Value, error) {
	lref, err := interp.evalExpression(e.Left, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	if e.Operator == "=" {
		v, err := interp.evalValue(e.Right, ec)
		if err != nil {
			return runtime.Undefined, err
		}
		if err := interp.putValue(lref, v); err != nil {
			return runtime.Undefined, err
		}
		return v, nil
	}

	lval, err := interp.realm.GetValue(lref)
	if err != nil {
		return runtime.Undefined, err
	}
	rval, err := interp.evalValue(e.Right, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	r, err := applyBinary(e.Operator[:len(e.Operator)-1], lval, rval)
	if err != nil {
		return runtime.Undefined, err
	}
	if err := interp.putValue(lref, r); err != nil {
		return runtime.Undefined, err
	}
	return r, nil
}

func (interp *Interpreter) evalConditional(e *ast.ConditionalExpression, ec *execContext) (runtime.Value, error) {
	test, err := interp.evalValue(e.Test, ec)
	if err != nil {
		return runtime.Undefined, err
	}
	if runtime.ToBoolean(test) {
		return interp.evalValue(e.Consequent, ec)
	}
	return interp.evalValue(e.Alternate, ec)
}

func (interp *Interpreter) evalSequence(e *ast.SequenceExpression, ec *execContext) (runtime.Value, error) {
	result := runtime.Undefined
	for _, expr := range e.Expressions {
		v, err := interp.evalValue(expr, ec)
		if err != nil {
			return runtime.Undefined, err
		}
		result = v
	}
	return result, nil
}
