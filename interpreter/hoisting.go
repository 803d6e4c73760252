package interpreter

import (
	"github.com/example/es5go/ast"
	"github.com/example/es5go/runtime"
)

// codeKind selects the variant of declaration binding instantiation.
type codeKind uint8

const (
	globalCode codeKind = iota
	evalCode
	functionCode
)

// instantiateDeclarations creates the bindings of a scope in ec.varEnv
// before its statements run: parameters, hoisted function declarations,
// the arguments object and var names, in that order. fn and args are only
// used for function code.
func (interp *Interpreter) instantiateDeclarations(kind codeKind, scope *ast.Scope, ec *execContext, fn *runtime.Object, args []runtime.Value) error {
	env := ec.varEnv
	strict := scope.Strict
	// Eval code creates deletable bindings.
	configurable := kind == evalCode

	if kind == functionCode {
		for i, name := range scope.Params {
			v := runtime.Undefined
			if i < len(args) {
				v = args[i]
			}
			if !env.HasBinding(name) {
				if err := env.CreateMutableBinding(name, false); err != nil {
					return err
				}
			}
			if err := env.SetMutableBinding(name, v, strict); err != nil {
				return err
			}
		}
	}

	for _, decl := range scope.Functions {
		lit := decl.Function
		name := lit.Name.Value
		fo := interp.createFunction(lit, ec.lexEnv)
		if !env.HasBinding(name) {
			if err := env.CreateMutableBinding(name, configurable); err != nil {
				return err
			}
		} else if env == runtime.Environment(interp.realm.GlobalEnv) {
			if err := interp.redefineGlobalFunction(name, configurable); err != nil {
				return err
			}
		}
		if err := env.SetMutableBinding(name, runtime.ObjectValue(fo), strict); err != nil {
			return err
		}
	}

	if kind == functionCode && scope.NeedsArguments() && !env.HasBinding("arguments") {
		denv := env.(*runtime.DeclarativeEnv)
		argsObj := interp.realm.NewArgumentsObject(runtime.ArgumentsConfig{
			Callee: fn,
			Args:   args,
			Params: scope.Params,
			Env:    denv,
			Strict: strict,
		})
		if strict {
			denv.CreateImmutableBinding("arguments")
			denv.InitializeImmutableBinding("arguments", runtime.ObjectValue(argsObj))
		} else {
			if err := denv.CreateMutableBinding("arguments", false); err != nil {
				return err
			}
			if err := denv.SetMutableBinding("arguments", runtime.ObjectValue(argsObj), false); err != nil {
				return err
			}
		}
	}

	for _, name := range scope.VarNames {
		if env.HasBinding(name) {
			continue
		}
		if err := env.CreateMutableBinding(name, configurable); err != nil {
			return err
		}
		if err := env.SetMutableBinding(name, runtime.Undefined, strict); err != nil {
			return err
		}
	}
	return nil
}

// redefineGlobalFunction prepares an existing global property to be
// replaced by a function declaration.
func (interp *Interpreter) redefineGlobalFunction(name string, configurable bool) error {
	global := interp.realm.Global
	existing, _ := global.GetProperty(name)
	if existing.Configurable {
		_, err := global.DefineOwnProperty(name, runtime.DataDescriptor(runtime.Undefined, true, true, configurable), true)
		return err
	}
	if existing.IsAccessor || !existing.Writable || !existing.Enumerable {
		return runtime.NewTypeError("create mutable function binding failed")
	}
	return nil
}
