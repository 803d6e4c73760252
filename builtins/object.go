package builtins

import (
	"github.com/example/es5go/runtime"
)

func (r *registry) createObjectConstructor() *runtime.Object {
	proto := r.realm.ObjectPrototype

	r.setMethod(proto, "toString", 0, objectProtoToString)
	r.setMethod(proto, "toLocaleString", 0, r.objectProtoToLocaleString)
	r.setMethod(proto, "valueOf", 0, r.objectProtoValueOf)
	r.setMethod(proto, "hasOwnProperty", 1, r.objectProtoHasOwnProperty)
	r.setMethod(proto, "isPrototypeOf", 1, r.objectProtoIsPrototypeOf)
	r.setMethod(proto, "propertyIsEnumerable", 1, r.objectProtoPropertyIsEnumerable)

	ctor := r.newFuncObject("Object", 1, r.objectConstructorCall)
	ctor.Constructor = func(args []runtime.Value) (runtime.Value, error) {
		return r.objectConstructorCall(runtime.Undefined, args)
	}

	r.setMethod(ctor, "getPrototypeOf", 1, objectGetPrototypeOf)
	r.setMethod(ctor, "getOwnPropertyDescriptor", 2, r.objectGetOwnPropertyDescriptor)
	r.setMethod(ctor, "getOwnPropertyNames", 1, r.objectGetOwnPropertyNames)
	r.setMethod(ctor, "create", 2, r.objectCreate)
	r.setMethod(ctor, "defineProperty", 3, objectDefineProperty)
	r.setMethod(ctor, "defineProperties", 2, r.objectDefineProperties)
	r.setMethod(ctor, "seal", 1, objectSeal)
	r.setMethod(ctor, "freeze", 1, objectFreeze)
	r.setMethod(ctor, "preventExtensions", 1, objectPreventExtensions)
	r.setMethod(ctor, "isSealed", 1, objectIsSealed)
	r.setMethod(ctor, "isFrozen", 1, objectIsFrozen)
	r.setMethod(ctor, "isExtensible", 1, objectIsExtensible)
	r.setMethod(ctor, "keys", 1, r.objectKeys)

	linkConstructor(ctor, proto)
	return ctor
}

func (r *registry) objectConstructorCall(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	arg := argAt(args, 0)
	if arg.IsNullish() {
		return runtime.ObjectValue(r.realm.NewObject()), nil
	}
	obj, err := r.realm.ToObject(arg)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(obj), nil
}

// objectArg returns the first argument when it is an object, as the
// Object.* reflection functions require.
func objectArg(args []runtime.Value, method string) (*runtime.Object, error) {
	v := argAt(args, 0)
	if !v.IsObject() {
		return nil, runtime.NewTypeError("Object.%s called on non-object", method)
	}
	return v.AsObject(), nil
}

// ToPropertyDescriptor converts a script descriptor object.
func ToPropertyDescriptor(v runtime.Value) (runtime.PropertyDescriptor, error) {
	var desc runtime.PropertyDescriptor
	if !v.IsObject() {
		return desc, runtime.NewTypeError("property description must be an object: %s", v)
	}
	obj := v.AsObject()

	flag := func(name string, dst *runtime.Flag) error {
		if !obj.HasProperty(name) {
			return nil
		}
		val, err := obj.Get(name)
		if err != nil {
			return err
		}
		*dst = runtime.FlagOf(runtime.ToBoolean(val))
		return nil
	}
	if err := flag("enumerable", &desc.Enumerable); err != nil {
		return desc, err
	}
	if err := flag("configurable", &desc.Configurable); err != nil {
		return desc, err
	}
	if obj.HasProperty("value") {
		val, err := obj.Get("value")
		if err != nil {
			return desc, err
		}
		desc.Value, desc.HasValue = val, true
	}
	if err := flag("writable", &desc.Writable); err != nil {
		return desc, err
	}
	if obj.HasProperty("get") {
		getter, err := obj.Get("get")
		if err != nil {
			return desc, err
		}
		if !getter.IsUndefined() && !getter.IsCallable() {
			return desc, runtime.NewTypeError("getter must be a function: %s", getter)
		}
		desc.Get, desc.HasGet = getter, true
	}
	if obj.HasProperty("set") {
		setter, err := obj.Get("set")
		if err != nil {
			return desc, err
		}
		if !setter.IsUndefined() && !setter.IsCallable() {
			return desc, runtime.NewTypeError("setter must be a function: %s", setter)
		}
		desc.Set, desc.HasSet = setter, true
	}
	if desc.IsAccessor() && desc.IsData() {
		return desc, runtime.NewTypeError("invalid property descriptor: cannot both specify accessors and a value or writable attribute")
	}
	return desc, nil
}

// fromProperty builds the descriptor object returned by
// Object.getOwnPropertyDescriptor.
func (r *registry) fromProperty(p runtime.Property) runtime.Value {
	obj := r.realm.NewObject()
	if p.IsAccessor {
		obj.Set("get", objectOrUndefined(p.Getter))
		obj.Set("set", objectOrUndefined(p.Setter))
	} else {
		obj.Set("value", p.Value)
		obj.Set("writable", runtime.Bool(p.Writable))
	}
	obj.Set("enumerable", runtime.Bool(p.Enumerable))
	obj.Set("configurable", runtime.Bool(p.Configurable))
	return runtime.ObjectValue(obj)
}

func objectOrUndefined(o *runtime.Object) runtime.Value {
	if o == nil {
		return runtime.Undefined
	}
	return runtime.ObjectValue(o)
}

func objectGetPrototypeOf(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "getPrototypeOf")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(obj.Prototype()), nil
}

func (r *registry) objectGetOwnPropertyDescriptor(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "getOwnPropertyDescriptor")
	if err != nil {
		return runtime.Undefined, err
	}
	name, err := toStringArg(args, 1)
	if err != nil {
		return runtime.Undefined, err
	}
	p, ok := obj.GetOwnProperty(name)
	if !ok {
		return runtime.Undefined, nil
	}
	return r.fromProperty(p), nil
}

func (r *registry) objectGetOwnPropertyNames(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "getOwnPropertyNames")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(r.newStringArray(obj.OwnKeys())), nil
}

func (r *registry) objectCreate(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	arg := argAt(args, 0)
	if !arg.IsObject() && !arg.IsNull() {
		return runtime.Undefined, runtime.NewTypeError("Object prototype may only be an Object or null: %s", arg)
	}
	obj := runtime.NewObject(arg.AsObject())
	if props := argAt(args, 1); !props.IsUndefined() {
		if err := r.defineProperties(obj, props); err != nil {
			return runtime.Undefined, err
		}
	}
	return runtime.ObjectValue(obj), nil
}

func objectDefineProperty(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "defineProperty")
	if err != nil {
		return runtime.Undefined, err
	}
	name, err := toStringArg(args, 1)
	if err != nil {
		return runtime.Undefined, err
	}
	desc, err := ToPropertyDescriptor(argAt(args, 2))
	if err != nil {
		return runtime.Undefined, err
	}
	if _, err := obj.DefineOwnProperty(name, desc, true); err != nil {
		return runtime.Undefined, err
	}
	return args[0], nil
}

func (r *registry) objectDefineProperties(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "defineProperties")
	if err != nil {
		return runtime.Undefined, err
	}
	if err := r.defineProperties(obj, argAt(args, 1)); err != nil {
		return runtime.Undefined, err
	}
	return args[0], nil
}

// defineProperties converts every descriptor before defining any of them.
func (r *registry) defineProperties(obj *runtime.Object, propsVal runtime.Value) error {
	props, err := r.realm.ToObject(propsVal)
	if err != nil {
		return err
	}
	names := props.PropertyNames(runtime.EnumerableOnly)
	descs := make([]runtime.PropertyDescriptor, len(names))
	for i, name := range names {
		v, err := props.Get(name)
		if err != nil {
			return err
		}
		if descs[i], err = ToPropertyDescriptor(v); err != nil {
			return err
		}
	}
	for i, name := range names {
		if _, err := obj.DefineOwnProperty(name, descs[i], true); err != nil {
			return err
		}
	}
	return nil
}

// restrict makes every own property non-configurable, and read-only too
// when freeze is set, then prevents extensions.
func restrict(args []runtime.Value, method string, freeze bool) (runtime.Value, error) {
	obj, err := objectArg(args, method)
	if err != nil {
		return runtime.Undefined, err
	}
	for _, key := range obj.OwnKeys() {
		p, _ := obj.GetOwnProperty(key)
		desc := runtime.PropertyDescriptor{Configurable: runtime.FlagFalse}
		if freeze && !p.IsAccessor {
			desc.Writable = runtime.FlagFalse
		}
		if _, err := obj.DefineOwnProperty(key, desc, true); err != nil {
			return runtime.Undefined, err
		}
	}
	obj.PreventExtensions()
	return args[0], nil
}

func objectSeal(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return restrict(args, "seal", false)
}

func objectFreeze(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return restrict(args, "freeze", true)
}

func objectPreventExtensions(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "preventExtensions")
	if err != nil {
		return runtime.Undefined, err
	}
	obj.PreventExtensions()
	return args[0], nil
}

func objectIsSealed(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "isSealed")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Bool(obj.IsSealed()), nil
}

func objectIsFrozen(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "isFrozen")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Bool(obj.IsFrozen()), nil
}

func objectIsExtensible(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "isExtensible")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Bool(obj.Extensible()), nil
}

func (r *registry) objectKeys(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, err := objectArg(args, "keys")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(r.newStringArray(obj.PropertyNames(runtime.EnumerableOnly))), nil
}

func objectProtoToString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	switch {
	case this.IsUndefined():
		return runtime.Str("[object Undefined]"), nil
	case this.IsNull():
		return runtime.Str("[object Null]"), nil
	}
	class := "Object"
	switch this.Kind() {
	case runtime.KindString:
		class = "String"
	case runtime.KindNumber:
		class = "Number"
	case runtime.KindBoolean:
		class = "Boolean"
	case runtime.KindObject:
		class = this.AsObject().Class.String()
	}
	return runtime.Str("[object " + class + "]"), nil
}

func (r *registry) objectProtoToLocaleString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	obj, err := r.thisObject(this, "Object.prototype.toLocaleString")
	if err != nil {
		return runtime.Undefined, err
	}
	fn, err := obj.Get("toString")
	if err != nil {
		return runtime.Undefined, err
	}
	toString, err := callableArg(fn, "toString")
	if err != nil {
		return runtime.Undefined, err
	}
	return toString.Call(this, nil)
}

func (r *registry) objectProtoValueOf(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	obj, err := r.thisObject(this, "Object.prototype.valueOf")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.ObjectValue(obj), nil
}

func (r *registry) objectProtoHasOwnProperty(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	name, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	obj, err := r.thisObject(this, "Object.prototype.hasOwnProperty")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Bool(obj.HasOwnProperty(name)), nil
}

func (r *registry) objectProtoIsPrototypeOf(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	v := argAt(args, 0)
	if !v.IsObject() {
		return runtime.False, nil
	}
	obj, err := r.thisObject(this, "Object.prototype.isPrototypeOf")
	if err != nil {
		return runtime.Undefined, err
	}
	for p := v.AsObject().Prototype(); p != nil; p = p.Prototype() {
		if p == obj {
			return runtime.True, nil
		}
	}
	return runtime.False, nil
}

func (r *registry) objectProtoPropertyIsEnumerable(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	name, err := toStringArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	obj, err := r.thisObject(this, "Object.prototype.propertyIsEnumerable")
	if err != nil {
		return runtime.Undefined, err
	}
	p, ok := obj.GetOwnProperty(name)
	return runtime.Bool(ok && p.Enumerable), nil
}
