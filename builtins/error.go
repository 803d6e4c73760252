package builtins

import "github.com/example/es5go/runtime"

// createErrorConstructor builds Error or one of its native subtypes. Every
// subtype prototype already inherits from Error.prototype.
func (r *registry) createErrorConstructor(kind runtime.ErrorKind) *runtime.Object {
	proto := r.realm.ErrorPrototypes[kind]
	setDataProp(proto, "name", runtime.Str(kind.String()), true, false, true)
	setDataProp(proto, "message", runtime.EmptyString, true, false, true)
	if kind == runtime.ErrError {
		r.setMethod(proto, "toString", 0, errorToString)
	}

	construct := func(args []runtime.Value) (runtime.Value, error) {
		obj := runtime.NewObject(proto)
		obj.Class = runtime.ClassError
		if msg := argAt(args, 0); !msg.IsUndefined() {
			s, err := runtime.ToString(msg)
			if err != nil {
				return runtime.Undefined, err
			}
			setDataProp(obj, "message", runtime.Str(s), true, false, true)
		}
		return runtime.ObjectValue(obj), nil
	}
	ctor := r.newFuncObject(kind.String(), 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return construct(args)
	})
	ctor.Constructor = construct
	linkConstructor(ctor, proto)
	return ctor
}

func errorToString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	if !this.IsObject() {
		return runtime.Undefined, runtime.NewTypeError("Error.prototype.toString called on non-object")
	}
	obj := this.AsObject()
	name, err := stringPropertyOr(obj, "name", "Error")
	if err != nil {
		return runtime.Undefined, err
	}
	msg, err := stringPropertyOr(obj, "message", "")
	if err != nil {
		return runtime.Undefined, err
	}
	switch {
	case name == "":
		return runtime.Str(msg), nil
	case msg == "":
		return runtime.Str(name), nil
	}
	return runtime.Str(name + ": " + msg), nil
}

// stringPropertyOr reads obj[key] as a string, or def when it is undefined.
func stringPropertyOr(obj *runtime.Object, key, def string) (string, error) {
	v, err := obj.Get(key)
	if err != nil || v.IsUndefined() {
		return def, err
	}
	return runtime.ToString(v)
}
