package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/example/es5go/runtime"
)

func (r *registry) createNumberConstructor() *runtime.Object {
	proto := r.realm.NumberPrototype

	r.setMethod(proto, "toString", 1, numberToString)
	r.setMethod(proto, "toLocaleString", 0, numberToLocaleString)
	r.setMethod(proto, "valueOf", 0, numberValueOf)
	r.setMethod(proto, "toFixed", 1, numberToFixed)
	r.setMethod(proto, "toExponential", 1, numberToExponential)
	r.setMethod(proto, "toPrecision", 1, numberToPrecision)

	ctor := r.newFuncObject("Number", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Zero, nil
		}
		n, err := runtime.ToNumber(args[0])
		return runtime.Num(n), err
	})
	ctor.Constructor = func(args []runtime.Value) (runtime.Value, error) {
		n := 0.0
		if len(args) > 0 {
			var err error
			if n, err = runtime.ToNumber(args[0]); err != nil {
				return runtime.Undefined, err
			}
		}
		return runtime.ObjectValue(r.realm.NewNumberObject(n)), nil
	}
	linkConstructor(ctor, proto)

	setConstant(ctor, "MAX_VALUE", runtime.Num(math.MaxFloat64))
	setConstant(ctor, "MIN_VALUE", runtime.Num(math.SmallestNonzeroFloat64))
	setConstant(ctor, "NaN", runtime.NaN)
	setConstant(ctor, "NEGATIVE_INFINITY", runtime.NegInf)
	setConstant(ctor, "POSITIVE_INFINITY", runtime.PosInf)
	return ctor
}

// thisNumberValue unwraps a number primitive or Number object.
func thisNumberValue(this runtime.Value, method string) (float64, error) {
	if this.IsNumber() {
		return this.AsNumber(), nil
	}
	if isClass(this, runtime.ClassNumber) {
		return this.AsObject().Primitive.AsNumber(), nil
	}
	return 0, runtime.NewTypeError("Number.prototype.%s requires that 'this' be a Number", method)
}

func numberToString(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	x, err := thisNumberValue(this, "toString")
	if err != nil {
		return runtime.Undefined, err
	}
	radix := 10.0
	if v := argAt(args, 0); !v.IsUndefined() {
		if radix, err = runtime.ToInteger(v); err != nil {
			return runtime.Undefined, err
		}
	}
	if radix < 2 || radix > 36 {
		return runtime.Undefined, runtime.NewRangeError("toString() radix must be between 2 and 36")
	}
	if radix == 10 {
		return runtime.Str(runtime.NumberToString(x)), nil
	}
	return runtime.Str(runtime.NumberToStringRadix(x, int(radix))), nil
}

func numberToLocaleString(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	x, err := thisNumberValue(this, "toLocaleString")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Str(runtime.NumberToString(x)), nil
}

func numberValueOf(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
	x, err := thisNumberValue(this, "valueOf")
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Num(x), nil
}

func numberToFixed(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	x, err := thisNumberValue(this, "toFixed")
	if err != nil {
		return runtime.Undefined, err
	}
	f, err := toIntegerArg(args, 0)
	if err != nil {
		return runtime.Undefined, err
	}
	if f < 0 || f > 20 {
		return runtime.Undefined, runtime.NewRangeError("toFixed() digits argument must be between 0 and 20")
	}
	if math.IsNaN(x) {
		return runtime.Str("NaN"), nil
	}
	if math.Abs(x) >= 1e21 {
		return runtime.Str(runtime.NumberToString(x)), nil
	}
	sign := ""
	if x < 0 {
		sign, x = "-", -x
	}
	digits, point := decimalDigits(x)
	digits, point = roundDigits(digits, point, point+int(f))
	return runtime.Str(sign + fixedNotation(digits, point, int(f))), nil
}

func numberToExponential(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	x, err := thisNumberValue(this, "toExponential")
	if err != nil {
		return runtime.Undefined, err
	}
	fd := argAt(args, 0)
	f, err := runtime.ToInteger(fd)
	if err != nil {
		return runtime.Undefined, err
	}
	if s, ok := nonFinite(x); ok {
		return runtime.Str(s), nil
	}
	if !fd.IsUndefined() && (f < 0 || f > 20) {
		return runtime.Undefined, runtime.NewRangeError("toExponential() argument must be between 0 and 20")
	}
	sign := ""
	if x < 0 {
		sign, x = "-", -x
	}
	var digits []byte
	point := 1
	switch {
	case x == 0:
		digits = []byte(strings.Repeat("0", int(f)+1))
	case fd.IsUndefined():
		digits, point = shortestDecimal(x)
	default:
		digits, point = decimalDigits(x)
		digits, point = roundSignificant(digits, point, int(f)+1)
	}
	return runtime.Str(sign + exponentialNotation(digits, point-1)), nil
}

func numberToPrecision(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	x, err := thisNumberValue(this, "toPrecision")
	if err != nil {
		return runtime.Undefined, err
	}
	pv := argAt(args, 0)
	if pv.IsUndefined() {
		return runtime.Str(runtime.NumberToString(x)), nil
	}
	p, err := runtime.ToInteger(pv)
	if err != nil {
		return runtime.Undefined, err
	}
	if s, ok := nonFinite(x); ok {
		return runtime.Str(s), nil
	}
	if p < 1 || p > 21 {
		return runtime.Undefined, runtime.NewRangeError("toPrecision() argument must be between 1 and 21")
	}
	precision := int(p)
	sign := ""
	if x < 0 {
		sign, x = "-", -x
	}
	var digits []byte
	point := 1
	if x == 0 {
		digits = []byte(strings.Repeat("0", precision))
	} else {
		digits, point = decimalDigits(x)
		digits, point = roundSignificant(digits, point, precision)
	}
	e := point - 1
	if e < -6 || e >= precision {
		return runtime.Str(sign + exponentialNotation(digits, e)), nil
	}
	return runtime.Str(sign + fixedNotation(digits, point, precision-point)), nil
}

func nonFinite(x float64) (string, bool) {
	switch {
	case math.IsNaN(x):
		return "NaN", true
	case math.IsInf(x, 1):
		return "Infinity", true
	case math.IsInf(x, -1):
		return "-Infinity", true
	}
	return "", false
}

// decimalDigits returns the exact decimal expansion of x > 0 as significant
// digits and the position of the decimal point relative to them.
func decimalDigits(x float64) ([]byte, int) {
	s := strconv.FormatFloat(x, 'f', 1100, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	all := strings.TrimRight(intPart+frac, "0")
	point := len(intPart)
	trimmed := strings.TrimLeft(all, "0")
	point -= len(all) - len(trimmed)
	return []byte(trimmed), point
}

// shortestDecimal is the shortest digit string that round-trips x > 0.
func shortestDecimal(x float64) ([]byte, int) {
	s := strconv.FormatFloat(x, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	return []byte(strings.Replace(mant, ".", "", 1)), e + 1
}

// roundDigits keeps the first n digits, rounding half up. The result may
// carry into a new leading digit, moving the point right by one. Fewer
// digits than n are padded with zeros.
func roundDigits(digits []byte, point, n int) ([]byte, int) {
	if n < 0 {
		return nil, point
	}
	if len(digits) <= n {
		return append(digits, strings.Repeat("0", n-len(digits))...), point
	}
	up := digits[n] >= '5'
	out := append([]byte(nil), digits[:n]...)
	if !up {
		return out, point
	}
	for i := n - 1; i >= 0; i-- {
		if out[i] != '9' {
			out[i]++
			return out, point
		}
		out[i] = '0'
	}
	return append([]byte{'1'}, out...), point + 1
}

// roundSignificant is roundDigits keeping exactly n significant digits.
func roundSignificant(digits []byte, point, n int) ([]byte, int) {
	digits, point = roundDigits(digits, point, n)
	return digits[:n], point
}

// fixedNotation renders digits with the decimal point at point and f
// fraction digits.
func fixedNotation(digits []byte, point, f int) string {
	if point < 0 {
		digits = append([]byte(strings.Repeat("0", -point)), digits...)
		point = 0
	}
	if need := point + f; len(digits) < need {
		digits = append(digits, strings.Repeat("0", need-len(digits))...)
	}
	intPart := "0"
	if point > 0 {
		intPart = string(digits[:point])
	}
	if f == 0 {
		return intPart
	}
	return intPart + "." + string(digits[point:point+f])
}

func exponentialNotation(digits []byte, e int) string {
	var b strings.Builder
	b.WriteByte(digits[0])
	if len(digits) > 1 {
		b.WriteByte('.')
		b.Write(digits[1:])
	}
	b.WriteByte('e')
	if e >= 0 {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(e))
	return b.String()
}
