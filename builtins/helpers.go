package builtins

import (
	"math"
	"strconv"

	"github.com/example/es5go/runtime"
)

func (r *registry) newFuncObject(name string, length int, fn runtime.NativeFunc) *runtime.Object {
	return r.realm.NewFunction(name, length, fn)
}

// setMethod installs a built-in method: writable, configurable and not
// enumerable.
func (r *registry) setMethod(obj *runtime.Object, name string, length int, fn runtime.NativeFunc) *runtime.Object {
	f := r.newFuncObject(name, length, fn)
	setDataProp(obj, name, runtime.ObjectValue(f), true, false, true)
	return f
}

func setDataProp(obj *runtime.Object, name string, val runtime.Value, writable, enumerable, configurable bool) {
	obj.DefineProperty(name, &runtime.Property{
		Value:        val,
		Writable:     writable,
		Enumerable:   enumerable,
		Configurable: configurable,
	})
}

func setConstant(obj *runtime.Object, name string, val runtime.Value) {
	setDataProp(obj, name, val, false, false, false)
}

// linkConstructor sets ctor.prototype and proto.constructor.
func linkConstructor(ctor, proto *runtime.Object) {
	setDataProp(ctor, "prototype", runtime.ObjectValue(proto), false, false, false)
	setDataProp(proto, "constructor", runtime.ObjectValue(ctor), true, false, true)
}

func argAt(args []runtime.Value, i int) runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.Undefined
}

// thisObject is ToObject(this) with a message naming the method.
func (r *registry) thisObject(this runtime.Value, method string) (*runtime.Object, error) {
	if this.IsNullish() {
		return nil, runtime.NewTypeError("%s called on null or undefined", method)
	}
	return r.realm.ToObject(this)
}

// thisString is ToString(this) after CheckObjectCoercible.
func thisString(this runtime.Value, method string) (string, error) {
	if this.IsNullish() {
		return "", runtime.NewTypeError("%s called on null or undefined", method)
	}
	return runtime.ToString(this)
}

func toStringArg(args []runtime.Value, i int) (string, error) {
	return runtime.ToString(argAt(args, i))
}

func toIntegerArg(args []runtime.Value, i int) (float64, error) {
	return runtime.ToInteger(argAt(args, i))
}

func toNumberArg(args []runtime.Value, i int) (float64, error) {
	return runtime.ToNumber(argAt(args, i))
}

// callableArg returns v as a function object or a TypeError naming what
// was expected.
func callableArg(v runtime.Value, what string) (*runtime.Object, error) {
	if !v.IsCallable() {
		return nil, runtime.NewTypeError("%s is not a function", what)
	}
	return v.AsObject(), nil
}

// lengthOf is ToUint32(obj.length).
func lengthOf(obj *runtime.Object) (int64, error) {
	v, err := obj.Get("length")
	if err != nil {
		return 0, err
	}
	n, err := runtime.ToUint32(v)
	return int64(n), err
}

// relativeIndex resolves a possibly negative relative position against
// length, clamping to [0, length].
func relativeIndex(rel float64, length int64) int64 {
	if rel < 0 {
		return int64(math.Max(float64(length)+rel, 0))
	}
	return int64(math.Min(rel, float64(length)))
}

func indexKey(i int64) string {
	return strconv.FormatInt(i, 10)
}

func (r *registry) newStringArray(ss []string) *runtime.Object {
	vals := make([]runtime.Value, len(ss))
	for i, s := range ss {
		vals[i] = runtime.Str(s)
	}
	return r.realm.NewArray(vals)
}

// isClass reports whether v is an object of the given class.
func isClass(v runtime.Value, class runtime.Class) bool {
	return v.IsObject() && v.AsObject().Class == class
}
