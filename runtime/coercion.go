package runtime

import (
	"math"
	"strconv"
)

// ToPrimitive converts v to a primitive, consulting DefaultValue for
// objects.
func ToPrimitive(v Value, hint Hint) (Value, error) {
	mustBeLanguageValue("ToPrimitive", v)
	if v.IsObject() {
		return v.AsObject().DefaultValue(hint)
	}
	return v, nil
}

// ToBoolean never fails.
func ToBoolean(v Value) bool {
	mustBeLanguageValue("ToBoolean", v)
	switch v.kind {
	case KindBoolean:
		return v.AsBool()
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindString:
		return v.str != ""
	case KindObject:
		return true
	}
	return false
}

// ToNumber converts v to a number. Only objects can fail.
func ToNumber(v Value) (float64, error) {
	mustBeLanguageValue("ToNumber", v)
	switch v.kind {
	case KindUndefined:
		return math.NaN(), nil
	case KindNull:
		return 0, nil
	case KindBoolean, KindNumber:
		return v.num, nil
	case KindString:
		return StringToNumber(v.str), nil
	}
	p, err := v.AsObject().DefaultValue(HintNumber)
	if err != nil {
		return math.NaN(), err
	}
	return ToNumber(p)
}

// ToString converts v to a string. Only objects can fail.
func ToString(v Value) (string, error) {
	mustBeLanguageValue("ToString", v)
	switch v.kind {
	case KindUndefined:
		return "undefined", nil
	case KindNull:
		return "null", nil
	case KindBoolean:
		if v.AsBool() {
			return "true", nil
		}
		return "false", nil
	case KindNumber:
		return NumberToString(v.num), nil
	case KindString:
		return v.str, nil
	}
	p, err := v.AsObject().DefaultValue(HintString)
	if err != nil {
		return "", err
	}
	return ToString(p)
}

// ToPropertyKey is ToString applied to a member expression's key.
func ToPropertyKey(v Value) (string, error) {
	if v.IsNumber() {
		f := v.num
		if f >= 0 && f < 1<<31 && f == math.Trunc(f) && !(f == 0 && math.Signbit(f)) {
			return strconv.FormatInt(int64(f), 10), nil
		}
	}
	return ToString(v)
}

// IntegerOf truncates a number toward zero, mapping NaN to 0.
func IntegerOf(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	if math.IsInf(f, 0) || f == 0 {
		return f
	}
	return math.Trunc(f)
}

func ToInteger(v Value) (float64, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return IntegerOf(f), nil
}

// uint32Of is the modular conversion shared by ToInt32 and ToUint32.
func uint32Of(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	f = math.Mod(math.Trunc(f), 1<<32)
	if f < 0 {
		f += 1 << 32
	}
	return uint32(f)
}

func Int32Of(f float64) int32   { return int32(uint32Of(f)) }
func Uint32Of(f float64) uint32 { return uint32Of(f) }
func Uint16Of(f float64) uint16 { return uint16(uint32Of(f)) }

func ToInt32(v Value) (int32, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return Int32Of(f), nil
}

func ToUint32(v Value) (uint32, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return Uint32Of(f), nil
}

func ToUint16(v Value) (uint16, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return Uint16Of(f), nil
}

// TypeOf returns the typeof operator's result for a language value.
func TypeOf(v Value) string {
	mustBeLanguageValue("typeof", v)
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	}
	if v.obj.IsCallable() {
		return "function"
	}
	return "object"
}

// CheckObjectCoercible rejects undefined and null.
func CheckObjectCoercible(v Value) error {
	if v.IsNullish() {
		return NewTypeError("cannot convert %s to object", v.kind)
	}
	return nil
}

// StrictEqual is the === comparison.
func StrictEqual(x, y Value) bool {
	mustBeLanguageValue("StrictEqual", x)
	mustBeLanguageValue("StrictEqual", y)
	if x.kind != y.kind {
		return false
	}
	switch x.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean, KindNumber:
		return x.num == y.num
	case KindString:
		return x.str == y.str
	}
	return x.obj == y.obj
}

// SameValue differs from StrictEqual for NaN and signed zeros.
func SameValue(x, y Value) bool {
	if x.kind != y.kind {
		return false
	}
	if x.kind == KindNumber {
		if math.IsNaN(x.num) && math.IsNaN(y.num) {
			return true
		}
		if x.num == 0 && y.num == 0 {
			return math.Signbit(x.num) == math.Signbit(y.num)
		}
		return x.num == y.num
	}
	return StrictEqual(x, y)
}

// AbstractEqual is the == comparison.
func AbstractEqual(x, y Value) (bool, error) {
	mustBeLanguageValue("AbstractEqual", x)
	mustBeLanguageValue("AbstractEqual", y)
	for {
		if x.kind == y.kind {
			return StrictEqual(x, y), nil
		}
		switch {
		case x.IsNullish() && y.IsNullish():
			return true, nil
		case x.IsNumber() && y.IsString():
			y = Num(StringToNumber(y.str))
		case x.IsString() && y.IsNumber():
			x = Num(StringToNumber(x.str))
		case x.IsBoolean():
			x = Num(x.num)
		case y.IsBoolean():
			y = Num(y.num)
		case (x.IsNumber() || x.IsString()) && y.IsObject():
			p, err := y.obj.DefaultValue(HintNone)
			if err != nil {
				return false, err
			}
			y = p
		case x.IsObject() && (y.IsNumber() || y.IsString()):
			p, err := x.obj.DefaultValue(HintNone)
			if err != nil {
				return false, err
			}
			x = p
		default:
			return false, nil
		}
	}
}

// Compare is the abstract relational comparison x < y. It returns
// undefined when either operand converts to NaN. leftFirst fixes the order
// in which the operands are converted to primitives.
func Compare(x, y Value, leftFirst bool) (Value, error) {
	var px, py Value
	var err error
	if leftFirst {
		if px, err = ToPrimitive(x, HintNumber); err != nil {
			return Undefined, err
		}
		if py, err = ToPrimitive(y, HintNumber); err != nil {
			return Undefined, err
		}
	} else {
		if py, err = ToPrimitive(y, HintNumber); err != nil {
			return Undefined, err
		}
		if px, err = ToPrimitive(x, HintNumber); err != nil {
			return Undefined, err
		}
	}
	if px.IsString() && py.IsString() {
		return Bool(CompareStrings(px.str, py.str) < 0), nil
	}
	nx, _ := ToNumber(px)
	ny, _ := ToNumber(py)
	if math.IsNaN(nx) || math.IsNaN(ny) {
		return Undefined, nil
	}
	return Bool(nx < ny), nil
}
