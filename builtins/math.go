package builtins

import (
	"math"
	"math/rand"

	"github.com/example/es5go/runtime"
)

func (r *registry) createMathObject() *runtime.Object {
	m := runtime.NewObject(r.realm.ObjectPrototype)
	m.Class = runtime.ClassMath

	for _, c := range []struct {
		name  string
		value float64
	}{
		{"E", math.E},
		{"LN10", math.Ln10},
		{"LN2", math.Ln2},
		{"LOG2E", math.Log2E},
		{"LOG10E", math.Log10E},
		{"PI", math.Pi},
		{"SQRT1_2", math.Sqrt2 / 2},
		{"SQRT2", math.Sqrt2},
	} {
		setConstant(m, c.name, runtime.Num(c.value))
	}

	for _, f := range []struct {
		name string
		fn   func(float64) float64
	}{
		{"abs", math.Abs},
		{"acos", math.Acos},
		{"asin", math.Asin},
		{"atan", math.Atan},
		{"ceil", math.Ceil},
		{"cos", math.Cos},
		{"exp", math.Exp},
		{"floor", math.Floor},
		{"log", math.Log},
		{"round", mathRound},
		{"sin", math.Sin},
		{"sqrt", math.Sqrt},
		{"tan", math.Tan},
	} {
		fn := f.fn
		r.setMethod(m, f.name, 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			x, err := toNumberArg(args, 0)
			if err != nil {
				return runtime.Undefined, err
			}
			return runtime.Num(fn(x)), nil
		})
	}

	r.setMethod(m, "atan2", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		y, x, err := twoNumbers(args)
		return runtime.Num(math.Atan2(y, x)), err
	})
	r.setMethod(m, "pow", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		x, y, err := twoNumbers(args)
		return runtime.Num(mathPow(x, y)), err
	})
	r.setMethod(m, "max", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return mathExtremum(args, math.Inf(-1), math.Max)
	})
	r.setMethod(m, "min", 2, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return mathExtremum(args, math.Inf(1), math.Min)
	})
	r.setMethod(m, "random", 0, func(runtime.Value, []runtime.Value) (runtime.Value, error) {
		return runtime.Num(rand.Float64()), nil
	})
	return m
}

func twoNumbers(args []runtime.Value) (float64, float64, error) {
	a, err := toNumberArg(args, 0)
	if err != nil {
		return 0, 0, err
	}
	b, err := toNumberArg(args, 1)
	return a, b, err
}

// mathExtremum converts every argument before folding, so a NaN does not
// skip later conversions.
func mathExtremum(args []runtime.Value, start float64, pick func(a, b float64) float64) (runtime.Value, error) {
	result := start
	for _, a := range args {
		x, err := runtime.ToNumber(a)
		if err != nil {
			return runtime.Undefined, err
		}
		result = pick(result, x)
	}
	return runtime.Num(result), nil
}

// mathRound rounds half up; results in [-0.5, 0) are -0.
func mathRound(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x == 0 {
		return x
	}
	if x < 0 && x >= -0.5 {
		return math.Copysign(0, -1)
	}
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return f
}

// mathPow differs from math.Pow where a base of magnitude one meets a NaN
// or infinite exponent: the result is NaN.
func mathPow(x, y float64) float64 {
	if math.IsNaN(y) {
		return math.NaN()
	}
	if math.Abs(x) == 1 && math.IsInf(y, 0) {
		return math.NaN()
	}
	return math.Pow(x, y)
}
