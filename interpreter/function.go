package interpreter

import (
	"github.com/example/es5go/ast"
	"github.com/example/es5go/runtime"
)

// scriptFunction is the Internal slot of functions defined in script code.
type scriptFunction struct {
	lit *ast.FunctionLiteral
	// env is the closure environment captured at creation.
	env runtime.Environment
}

// SourceText returns the function's source, used by
// Function.prototype.toString.
func (f *scriptFunction) SourceText() string {
	return f.lit.Source
}

// createFunction instantiates a function literal over the scope env.
func (interp *Interpreter) createFunction(lit *ast.FunctionLiteral, env runtime.Environment) *runtime.Object {
	realm := interp.realm
	sf := &scriptFunction{lit: lit, env: env}

	fo := realm.NewFunctionObject()
	fo.Internal = sf
	fo.Callable = func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return interp.callFunction(fo, sf, this, args)
	}
	fo.Constructor = func(args []runtime.Value) (runtime.Value, error) {
		return interp.constructFunction(fo, args)
	}

	name := ""
	if lit.Name != nil {
		name = lit.Name.Value
	}
	fo.DefineProperty("length", &runtime.Property{Value: runtime.Num(float64(len(lit.Params)))})
	fo.DefineProperty("name", &runtime.Property{Value: runtime.Str(name)})

	proto := realm.NewObject()
	proto.DefineProperty("constructor", &runtime.Property{
		Value:        runtime.ObjectValue(fo),
		Writable:     true,
		Configurable: true,
	})
	fo.DefineProperty("prototype", &runtime.Property{Value: runtime.ObjectValue(proto), Writable: true})

	if lit.Scope.Strict {
		thrower := realm.ThrowTypeError
		fo.DefineProperty("caller", &runtime.Property{IsAccessor: true, Getter: thrower, Setter: thrower})
		fo.DefineProperty("arguments", &runtime.Property{IsAccessor: true, Getter: thrower, Setter: thrower})
	}
	return fo
}

// createNamedFunctionExpression gives a named function expression an
// immutable binding of its own name, visible only inside the function.
func (interp *Interpreter) createNamedFunctionExpression(lit *ast.FunctionLiteral, env runtime.Environment) *runtime.Object {
	funcEnv := runtime.NewDeclarativeEnv(env)
	funcEnv.CreateImmutableBinding(lit.Name.Value)
	closure := interp.createFunction(lit, funcEnv)
	funcEnv.InitializeImmutableBinding(lit.Name.Value, runtime.ObjectValue(closure))
	return closure
}

// callFunction is [[Call]] of script functions.
func (interp *Interpreter) callFunction(fo *runtime.Object, sf *scriptFunction, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	scope := sf.lit.Scope
	thisBinding := this
	if !scope.Strict {
		switch {
		case this.IsNullish():
			thisBinding = runtime.ObjectValue(interp.realm.Global)
		case !this.IsObject():
			o, err := interp.realm.ToObject(this)
			if err != nil {
				return runtime.Undefined, err
			}
			thisBinding = runtime.ObjectValue(o)
		}
	}

	env := runtime.NewDeclarativeEnv(sf.env)
	ec := &execContext{lexEnv: env, varEnv: env, this: thisBinding, strict: scope.Strict}
	if err := interp.instantiateDeclarations(functionCode, scope, ec, fo, args); err != nil {
		return runtime.Undefined, err
	}

	c := interp.execStatements(sf.lit.Body, ec)
	switch c.Mode {
	case Throw:
		return runtime.Undefined, c.Err
	case Return:
		return c.Value, nil
	}
	return runtime.Undefined, nil
}

// constructFunction is [[Construct]] of script functions.
func (interp *Interpreter) constructFunction(fo *runtime.Object, args []runtime.Value) (runtime.Value, error) {
	protoVal, err := fo.Get("prototype")
	if err != nil {
		return runtime.Undefined, err
	}
	proto := interp.realm.ObjectPrototype
	if protoVal.IsObject() {
		proto = protoVal.AsObject()
	}
	obj := runtime.NewObject(proto)
	result, err := interp.callFunction(fo, fo.Internal.(*scriptFunction), runtime.ObjectValue(obj), args)
	if err != nil {
		return runtime.Undefined, err
	}
	if result.IsObject() {
		return result, nil
	}
	return runtime.ObjectValue(obj), nil
}
