package builtins

import "github.com/example/es5go/runtime"

func (r *registry) createBooleanConstructor() *runtime.Object {
	proto := r.realm.BooleanPrototype

	r.setMethod(proto, "toString", 0, func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		b, err := thisBooleanValue(this, "toString")
		if err != nil {
			return runtime.Undefined, err
		}
		if b {
			return runtime.Str("true"), nil
		}
		return runtime.Str("false"), nil
	})
	r.setMethod(proto, "valueOf", 0, func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		b, err := thisBooleanValue(this, "valueOf")
		return runtime.Bool(b), err
	})

	ctor := r.newFuncObject("Boolean", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Bool(runtime.ToBoolean(argAt(args, 0))), nil
	})
	ctor.Constructor = func(args []runtime.Value) (runtime.Value, error) {
		return runtime.ObjectValue(r.realm.NewBooleanObject(runtime.ToBoolean(argAt(args, 0)))), nil
	}
	linkConstructor(ctor, proto)
	return ctor
}

func thisBooleanValue(this runtime.Value, method string) (bool, error) {
	if this.IsBoolean() {
		return this.AsBool(), nil
	}
	if isClass(this, runtime.ClassBoolean) {
		return this.AsObject().Primitive.AsBool(), nil
	}
	return false, runtime.NewTypeError("Boolean.prototype.%s requires that 'this' be a Boolean", method)
}
