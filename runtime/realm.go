package runtime

import (
	"errors"
)

// Realm owns the global object and the intrinsic prototypes every new
// object is wired to. NewRealm creates the bare intrinsics; the builtins
// package fills in their methods.
type Realm struct {
	Global    *Object
	GlobalEnv *ObjectEnv

	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object
	StringPrototype   *Object
	NumberPrototype   *Object
	BooleanPrototype  *Object
	DatePrototype     *Object
	RegExpPrototype   *Object

	// Calls bounds nested [[Call]] and [[Construct]] of every function
	// created in this realm.
	Calls *CallStack

	// ErrorPrototypes is indexed by ErrorKind; ErrError is Error.prototype.
	ErrorPrototypes [numErrorKinds]*Object

	// ThrowTypeError is the shared poison-pill accessor of strict
	// arguments objects and strict functions.
	ThrowTypeError *Object

	// Eval is the intrinsic eval function. A call is a direct eval only if
	// its callee is this object.
	Eval *Object

	// NewRegExp compiles a regular expression literal into a RegExp
	// object.
	NewRegExp func(pattern, flags string) (*Object, error)

	// CompileFunction backs the Function constructor: it builds a function
	// in the global scope from a parameter list and body text.
	CompileFunction func(params, body string) (*Object, error)
}

// NewRealm allocates the global object and bare intrinsics.
func NewRealm() *Realm {
	r := &Realm{Calls: &CallStack{Limit: DefaultCallLimit}}
	r.ObjectPrototype = NewObject(nil)

	r.FunctionPrototype = NewObject(r.ObjectPrototype)
	r.FunctionPrototype.Class = ClassFunction
	r.FunctionPrototype.calls = r.Calls
	r.FunctionPrototype.Callable = func(Value, []Value) (Value, error) { return Undefined, nil }
	r.FunctionPrototype.DefineProperty("length", &Property{Value: Zero})

	r.ArrayPrototype = NewArrayObject(r.ObjectPrototype, nil)
	r.StringPrototype = r.newWrapper(ClassString, r.ObjectPrototype, EmptyString)
	r.StringPrototype.DefineProperty("length", &Property{Value: Zero})
	r.NumberPrototype = r.newWrapper(ClassNumber, r.ObjectPrototype, Zero)
	r.BooleanPrototype = r.newWrapper(ClassBoolean, r.ObjectPrototype, False)
	r.DatePrototype = r.newWrapper(ClassDate, r.ObjectPrototype, NaN)
	r.RegExpPrototype = NewObject(r.ObjectPrototype)
	r.RegExpPrototype.Class = ClassRegExp

	errProto := NewObject(r.ObjectPrototype)
	errProto.Class = ClassError
	r.ErrorPrototypes[ErrError] = errProto
	for _, kind := range ErrorKinds()[1:] {
		p := NewObject(errProto)
		p.Class = ClassError
		r.ErrorPrototypes[kind] = p
	}

	r.ThrowTypeError = r.NewFunction("", 0, func(Value, []Value) (Value, error) {
		return Undefined, NewTypeError("'caller', 'callee', and 'arguments' properties may not be accessed on strict mode functions or the arguments objects for calls to them")
	})
	r.ThrowTypeError.PreventExtensions()

	r.Global = NewObject(r.ObjectPrototype)
	r.Global.Class = ClassGlobal
	r.GlobalEnv = NewGlobalEnv(r.Global)
	return r
}

func (r *Realm) newWrapper(class Class, proto *Object, prim Value) *Object {
	o := NewObject(proto)
	o.Class = class
	o.Primitive = prim
	return o
}

// NewObject allocates an ordinary object inheriting from Object.prototype.
func (r *Realm) NewObject() *Object {
	return NewObject(r.ObjectPrototype)
}

func (r *Realm) NewArray(values []Value) *Object {
	return NewArrayObject(r.ArrayPrototype, values)
}

// NewFunction wraps fn as a built-in function object. Built-ins are not
// constructors unless the caller sets Constructor.
func (r *Realm) NewFunction(name string, length int, fn NativeFunc) *Object {
	f := r.NewFunctionObject()
	f.Callable = fn
	f.DefineProperty("length", &Property{Value: Num(float64(length))})
	f.DefineProperty("name", &Property{Value: Str(name)})
	return f
}

// NewError allocates an instance of the native error constructor kind.
func (r *Realm) NewError(kind ErrorKind, message string) *Object {
	o := NewObject(r.ErrorPrototypes[kind])
	o.Class = ClassError
	if message != "" {
		o.DefineProperty("message", &Property{Value: Str(message), Writable: true, Configurable: true})
	}
	return o
}

// ThrowValue returns the script value err stands for. ok is false for
// errors script code must not observe, such as an interrupt.
func (r *Realm) ThrowValue(err error) (v Value, ok bool) {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.Value, true
	}
	var jsErr *Error
	if errors.As(err, &jsErr) {
		return ObjectValue(r.NewError(jsErr.Kind, jsErr.Message)), true
	}
	return Undefined, false
}

// Materialize converts a native *Error into an *Exception carrying a real
// Error object. Other errors are returned unchanged.
func (r *Realm) Materialize(err error) error {
	var jsErr *Error
	if errors.As(err, &jsErr) {
		return Throw(ObjectValue(r.NewError(jsErr.Kind, jsErr.Message)))
	}
	return err
}

func (r *Realm) NewStringObject(s string) *Object {
	o := r.newWrapper(ClassString, r.StringPrototype, Str(s))
	o.DefineProperty("length", &Property{Value: Num(float64(StringLength(s)))})
	return o
}

func (r *Realm) NewNumberObject(f float64) *Object {
	return r.newWrapper(ClassNumber, r.NumberPrototype, Num(f))
}

func (r *Realm) NewBooleanObject(b bool) *Object {
	return r.newWrapper(ClassBoolean, r.BooleanPrototype, Bool(b))
}

// ToObject wraps primitives; undefined and null are a TypeError.
func (r *Realm) ToObject(v Value) (*Object, error) {
	mustBeLanguageValue("ToObject", v)
	switch v.Kind() {
	case KindObject:
		return v.AsObject(), nil
	case KindString:
		return r.NewStringObject(v.AsString()), nil
	case KindNumber:
		return r.NewNumberObject(v.AsNumber()), nil
	case KindBoolean:
		return r.NewBooleanObject(v.AsBool()), nil
	}
	return nil, NewTypeError("cannot convert %s to object", v.Kind())
}

// NewFunctionObject allocates a function object with no behavior yet,
// charged to the realm call stack. The caller sets Callable.
func (r *Realm) NewFunctionObject() *Object {
	f := NewObject(r.FunctionPrototype)
	f.Class = ClassFunction
	f.calls = r.Calls
	return f
}
