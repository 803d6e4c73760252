package interpreter

import (
	"fmt"
	"math"

	"github.com/example/es5go/runtime"
)

// applyBinary applies a binary operator to two dereferenced operands.
func applyBinary(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return addValues(left, right)
	case "-", "*", "/", "%":
		return arithmetic(op, left, right)
	case "<<", ">>", ">>>":
		return shift(op, left, right)
	case "&", "|", "^":
		return bitwise(op, left, right)
	case "<", ">", "<=", ">=":
		return relational(op, left, right)
	case "==", "!=":
		eq, err := runtime.AbstractEqual(left, right)
		if err != nil {
			return runtime.Undefined, err
		}
		return runtime.Bool(eq == (op == "==")), nil
	case "===":
		return runtime.Bool(runtime.StrictEqual(left, right)), nil
	case "!==":
		return runtime.Bool(!runtime.StrictEqual(left, right)), nil
	case "instanceof":
		return instanceOf(left, right)
	case "in":
		if !right.IsObject() {
			return runtime.Undefined, runtime.NewTypeError("in requires object")
		}
		key, err := runtime.ToString(left)
		if err != nil {
			return runtime.Undefined, err
		}
		return runtime.Bool(right.AsObject().HasProperty(key)), nil
	}
	panic(fmt.Sprintf("interpreter: unknown binary operator %q", op))
}

// addValues concatenates when either primitive operand is a string and
// adds numerically otherwise.
func addValues(left, right runtime.Value) (runtime.Value, error) {
	lprim, err := runtime.ToPrimitive(left, runtime.HintNone)
	if err != nil {
		return runtime.Undefined, err
	}
	rprim, err := runtime.ToPrimitive(right, runtime.HintNone)
	if err != nil {
		return runtime.Undefined, err
	}
	if lprim.IsString() || rprim.IsString() {
		ls, err := runtime.ToString(lprim)
		if err != nil {
			return runtime.Undefined, err
		}
		rs, err := runtime.ToString(rprim)
		if err != nil {
			return runtime.Undefined, err
		}
		return runtime.Str(ls + rs), nil
	}
	ln, err := runtime.ToNumber(lprim)
	if err != nil {
		return runtime.Undefined, err
	}
	rn, err := runtime.ToNumber(rprim)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Num(ln + rn), nil
}

func toNumbers(left, right runtime.Value) (float64, float64, error) {
	ln, err := runtime.ToNumber(left)
	if err != nil {
		return 0, 0, err
	}
	rn, err := runtime.ToNumber(right)
	if err != nil {
		return 0, 0, err
	}
	return ln, rn, nil
}

func arithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	ln, rn, err := toNumbers(left, right)
	if err != nil {
		return runtime.Undefined, err
	}
	switch op {
	case "-":
		return runtime.Num(ln - rn), nil
	case "*":
		return runtime.Num(ln * rn), nil
	case "/":
		return runtime.Num(ln / rn), nil
	}
	return runtime.Num(math.Mod(ln, rn)), nil
}

// shift masks the shift count to five bits.
func shift(op string, left, right runtime.Value) (runtime.Value, error) {
	ln, rn, err := toNumbers(left, right)
	if err != nil {
		return runtime.Undefined, err
	}
	count := runtime.Uint32Of(rn) & 0x1f
	switch op {
	case "<<":
		return runtime.Num(float64(runtime.Int32Of(ln) << count)), nil
	case ">>":
		return runtime.Num(float64(runtime.Int32Of(ln) >> count)), nil
	}
	return runtime.Num(float64(runtime.Uint32Of(ln) >> count)), nil
}

func bitwise(op string, left, right runtime.Value) (runtime.Value, error) {
	ln, rn, err := toNumbers(left, right)
	if err != nil {
		return runtime.Undefined, err
	}
	l, r := runtime.Int32Of(ln), runtime.Int32Of(rn)
	switch op {
	case "&":
		return runtime.Num(float64(l & r)), nil
	case "|":
		return runtime.Num(float64(l | r)), nil
	}
	return runtime.Num(float64(l ^ r)), nil
}

// relational maps the four comparison operators onto Compare, keeping the
// left-to-right conversion order of the source operands. An undefined
// comparison result (NaN) is false for every operator.
func relational(op string, left, right runtime.Value) (runtime.Value, error) {
	var r runtime.Value
	var err error
	switch op {
	case "<", ">=":
		r, err = runtime.Compare(left, right, true)
	default:
		r, err = runtime.Compare(right, left, false)
	}
	if err != nil {
		return runtime.Undefined, err
	}
	if r.IsUndefined() {
		return runtime.False, nil
	}
	if op == "<=" || op == ">=" {
		return runtime.Bool(!r.AsBool()), nil
	}
	return r, nil
}

func instanceOf(left, right runtime.Value) (runtime.Value, error) {
	if !right.IsObject() {
		return runtime.Undefined, runtime.NewTypeError("instanceof requires object")
	}
	fn := right.AsObject()
	if !fn.IsCallable() {
		return runtime.Undefined, runtime.NewTypeError("instanceof requires constructor")
	}
	ok, err := fn.HasInstance(left)
	if err != nil {
		return runtime.Undefined, err
	}
	return runtime.Bool(ok), nil
}
