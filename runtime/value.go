package runtime

import (
	"fmt"
	"math"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindObject
	// KindReference and KindEnvironment are evaluator-internal and are
	// rejected by every user-visible coercion.
	KindReference
	KindEnvironment
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindReference:
		return "reference"
	case KindEnvironment:
		return "environment"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is an immutable ECMAScript value. The zero Value is undefined.
//
// Strings hold UTF-16 code unit sequences encoded as WTF-8, so lone
// surrogates survive a round trip; see jsstring.go.
type Value struct {
	kind Kind
	num  float64 // number payload, or 1/0 for booleans
	str  string
	obj  *Object
	ref  *Reference
	env  Environment
}

var (
	Undefined   = Value{kind: KindUndefined}
	Null        = Value{kind: KindNull}
	True        = Value{kind: KindBoolean, num: 1}
	False       = Value{kind: KindBoolean}
	NaN         = Value{kind: KindNumber, num: math.NaN()}
	PosInf      = Value{kind: KindNumber, num: math.Inf(1)}
	NegInf      = Value{kind: KindNumber, num: math.Inf(-1)}
	Zero        = Value{kind: KindNumber}
	EmptyString = Value{kind: KindString}
)

func Num(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func Int(i int64) Value {
	return Value{kind: KindNumber, num: float64(i)}
}

func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// ObjectValue wraps o; a nil object yields null.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null
	}
	return Value{kind: KindObject, obj: o}
}

func ReferenceValue(r *Reference) Value {
	return Value{kind: KindReference, ref: r}
}

func EnvironmentValue(e Environment) Value {
	return Value{kind: KindEnvironment, env: e}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUndefined() bool   { return v.kind == KindUndefined }
func (v Value) IsNull() bool        { return v.kind == KindNull }
func (v Value) IsNullish() bool     { return v.kind == KindUndefined || v.kind == KindNull }
func (v Value) IsBoolean() bool     { return v.kind == KindBoolean }
func (v Value) IsNumber() bool      { return v.kind == KindNumber }
func (v Value) IsString() bool      { return v.kind == KindString }
func (v Value) IsObject() bool      { return v.kind == KindObject }
func (v Value) IsReference() bool   { return v.kind == KindReference }
func (v Value) IsEnvironment() bool { return v.kind == KindEnvironment }

// IsPrimitive reports whether v is a language value other than an object.
func (v Value) IsPrimitive() bool {
	return v.kind <= KindString
}

// IsCallable reports whether v is an object with a [[Call]] behaviour.
func (v Value) IsCallable() bool {
	return v.kind == KindObject && v.obj.Callable != nil
}

func (v Value) AsNumber() float64          { return v.num }
func (v Value) AsBool() bool               { return v.num != 0 }
func (v Value) AsString() string           { return v.str }
func (v Value) AsObject() *Object          { return v.obj }
func (v Value) AsReference() *Reference    { return v.ref }
func (v Value) AsEnvironment() Environment { return v.env }

// String renders v for diagnostics without running script code.
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return NumberToString(v.num)
	case KindString:
		return v.str
	case KindObject:
		return "[object " + v.obj.Class.String() + "]"
	case KindReference:
		return "reference(" + v.ref.Name + ")"
	case KindEnvironment:
		return "environment"
	}
	return "?"
}

// internalKindError is the panic payload raised when an evaluator-internal
// value reaches a language-level operation.
type internalKindError struct {
	op   string
	kind Kind
}

func (e internalKindError) Error() string {
	return fmt.Sprintf("runtime: %s applied to internal %s value", e.op, e.kind)
}

func mustBeLanguageValue(op string, v Value) {
	if v.kind == KindReference || v.kind == KindEnvironment {
		panic(internalKindError{op: op, kind: v.kind})
	}
}
