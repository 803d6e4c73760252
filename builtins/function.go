package builtins

import (
	"strings"

	"github.com/example/es5go/runtime"
)

// sourceTexter is implemented by the internal data of script functions.
type sourceTexter interface {
	SourceText() string
}

func (r *registry) createFunctionConstructor() *runtime.Object {
	proto := r.realm.FunctionPrototype
	setDataProp(proto, "name", runtime.EmptyString, false, false, false)

	r.setMethod(proto, "toString", 0, functionToString)
	r.setMethod(proto, "call", 1, functionCall)
	r.setMethod(proto, "apply", 2, functionApply)
	r.setMethod(proto, "bind", 1, r.functionBind)

	ctor := r.newFuncObject("Function", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return r.functionConstruct(args)
	})
	ctor.Constructor = r.functionConstruct
	linkConstructor(ctor, proto)
	return ctor
}

// functionConstruct joins all but the last argument into a parameter list
// and compiles the last one as the body, in the global scope.
func (r *registry) functionConstruct(args []runtime.Value) (runtime.Value, error) {
	if r.realm.CompileFunction == nil {
		return runtime.Undefined, runtime.NewError(runtime.ErrEval, "code generation from strings is not available")
	}
	var params []string
	body := ""
	if n := len(args); n > 0 {
		for _, a := range args[:n-1] {
			s, err := runtime.ToString(a)
			if err != nil {
				return runtime.Undefined, err
			}
			params = append(params, s)
		}
		s, err := runtime.ToString(args[n-1])
		if err != nil {
			return runtime.Undefined, err
		}
		body = s
	}
	fn, err := r.realm.CompileFunction(strings.Join(params, ","), body)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(fn), nil
}

func thisFunction(this runtime.Value, method string) (*runtime.Object, error) {
	if !this.IsCallable() {
		return nil, runtime.NewTypeError("Function.prototype.%s called on non-function", method)
	}
	return this.AsObject(), nil
}

func functionToString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	fn, err := thisFunction(this, "toString")
	if err != nil {
		return runtime.Undefined, err
	}
	if st, ok := fn.Internal.(sourceTexter); ok {
		return runtime.Str(st.SourceText()), nil
	}
	name := ""
	if v, err := fn.Get("name"); err == nil && v.IsString() {
		name = v.AsString()
	}
	return runtime.Str("function " + name + "() { [native code] }"), nil
}

func functionCall(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	fn, err := thisFunction(this, "call")
	if err != nil {
		return runtime.Undefined, err
	}
	var rest []runtime.Value
	if len(args) > 1 {
		rest = args[1:]
	}
	return fn.Call(argAt(args, 0), rest)
}

func functionApply(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	fn, err := thisFunction(this, "apply")
	if err != nil {
		return runtime.Undefined, err
	}
	list, err := argumentList(argAt(args, 1))
	if err != nil {
		return runtime.Undefined, err
	}
	return fn.Call(argAt(args, 0), list)
}

// argumentList reads an array-like into an argument slice.
func argumentList(v runtime.Value) ([]runtime.Value, error) {
	if v.IsNullish() {
		return nil, nil
	}
	if !v.IsObject() {
		return nil, runtime.NewTypeError("CreateListFromArrayLike called on non-object")
	}
	obj := v.AsObject()
	n, err := lengthOf(obj)
	if err != nil {
		return nil, err
	}
	list := make([]runtime.Value, n)
	for i := range list {
		if list[i], err = obj.Get(indexKey(int64(i))); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *registry) functionBind(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	target, err := thisFunction(this, "bind")
	if err != nil {
		return runtime.Undefined, err
	}
	boundThis := argAt(args, 0)
	var boundArgs []runtime.Value
	if len(args) > 1 {
		boundArgs = append(boundArgs, args[1:]...)
	}
	withBound := func(callArgs []runtime.Value) []runtime.Value {
		all := make([]runtime.Value, 0, len(boundArgs)+len(callArgs))
		return append(append(all, boundArgs...), callArgs...)
	}

	length := 0
	if target.Class == runtime.ClassFunction {
		if l, err := target.Get("length"); err == nil && l.IsNumber() {
			length = max(int(l.AsNumber())-len(boundArgs), 0)
		}
	}
	bound := r.newFuncObject("", length, func(_ runtime.Value, callArgs []runtime.Value) (runtime.Value, error) {
		return target.Call(boundThis, withBound(callArgs))
	})
	bound.BoundTarget = target
	if target.Constructor != nil {
		bound.Constructor = func(callArgs []runtime.Value) (runtime.Value, error) {
			return target.Construct(withBound(callArgs))
		}
	}
	thrower := r.realm.ThrowTypeError
	bound.DefineProperty("caller", &runtime.Property{IsAccessor: true, Getter: thrower, Setter: thrower})
	bound.DefineProperty("arguments", &runtime.Property{IsAccessor: true, Getter: thrower, Setter: thrower})
	return runtime.ObjectValue(bound), nil
}
