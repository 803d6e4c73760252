package builtins

import (
	"testing"

	"github.com/example/es5go/runtime"
)

// recorder returns a callable that reports its this value and arguments.
func (r *registry) recorder() (runtime.Value, *runtime.Value, *[]runtime.Value) {
	var gotThis runtime.Value
	var gotArgs []runtime.Value
	fn := r.native(func(this runtime.Value, a []runtime.Value) (runtime.Value, error) {
		gotThis, gotArgs = this, a
		return runtime.Num(float64(len(a))), nil
	})
	return fn, &gotThis, &gotArgs
}

func TestFunctionCallAndApply(t *testing.T) {
	r, _ := newTestRegistry(t)
	fn, gotThis, gotArgs := r.recorder()

	expectNum(t, mustCall(t, functionCall, fn, runtime.Str("self"), runtime.Num(1), runtime.Num(2)), 2)
	expectStr(t, *gotThis, "self")
	if len(*gotArgs) != 2 {
		t.Fatalf("expected 2 args, got %v", *gotArgs)
	}

	expectNum(t, mustCall(t, functionApply, fn, runtime.Null, r.array(nums(1, 2, 3)...)), 3)
	if !gotThis.IsNull() {
		t.Fatalf("expected null this, got %v", *gotThis)
	}

	arrayLike := r.realm.NewObject()
	arrayLike.Set("length", runtime.Num(2))
	arrayLike.Set("0", runtime.Str("a"))
	expectNum(t, mustCall(t, functionApply, fn, runtime.Undefined, runtime.ObjectValue(arrayLike)), 2)
	if !(*gotArgs)[1].IsUndefined() {
		t.Fatalf("missing element should read as undefined, got %v", (*gotArgs)[1])
	}

	expectNum(t, mustCall(t, functionApply, fn, runtime.Undefined, runtime.Undefined), 0)

	_, err := functionApply(fn, args(runtime.Undefined, runtime.Num(1)))
	expectKind(t, err, runtime.ErrType)
	_, err = functionCall(runtime.ObjectValue(r.realm.NewObject()), nil)
	expectKind(t, err, runtime.ErrType)
}

func TestFunctionBind(t *testing.T) {
	r, _ := newTestRegistry(t)
	target := r.newFuncObject("target", 3, func(this runtime.Value, a []runtime.Value) (runtime.Value, error) {
		s, err := runtime.ToString(this)
		if err != nil {
			return runtime.Undefined, err
		}
		for _, v := range a {
			vs, err := runtime.ToString(v)
			if err != nil {
				return runtime.Undefined, err
			}
			s += "," + vs
		}
		return runtime.Str(s), nil
	})

	bound := mustCall(t, r.functionBind, runtime.ObjectValue(target), runtime.Str("t"), runtime.Num(1))
	b := bound.AsObject()
	if b.BoundTarget != target {
		t.Fatal("bound function should record its target")
	}
	length, _ := b.Get("length")
	expectNum(t, length, 2)

	v, err := b.Call(runtime.Str("ignored"), nums(2))
	if err != nil {
		t.Fatal(err)
	}
	expectStr(t, v, "t,1,2")

	if b.Constructor != nil {
		t.Fatal("binding a non-constructor should not produce a constructor")
	}

	_, err = b.Get("caller")
	expectKind(t, err, runtime.ErrType)

	_, err = r.functionBind(runtime.Num(1), nil)
	expectKind(t, err, runtime.ErrType)
}

func TestFunctionBindConstructor(t *testing.T) {
	r, _ := newTestRegistry(t)
	arrayCtor := global(t, r, "Array")
	bound := mustCall(t, r.functionBind, arrayCtor, runtime.Null, runtime.Str("x"))

	v, err := bound.AsObject().Construct(args(runtime.Str("y")))
	if err != nil {
		t.Fatal(err)
	}
	if got := joined(t, v); got != "x,y" {
		t.Fatalf("expected x,y, got %s", got)
	}
}

func TestFunctionToString(t *testing.T) {
	r, _ := newTestRegistry(t)
	expectStr(t, mustCall(t, functionToString, global(t, r, "parseInt")), "function parseInt() { [native code] }")

	_, err := functionToString(runtime.Str("f"), nil)
	expectKind(t, err, runtime.ErrType)
}

func TestFunctionConstructorWithoutCompiler(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := r.functionConstruct(args(runtime.Str("a"), runtime.Str("return a")))
	expectKind(t, err, runtime.ErrEval)
}

func TestFunctionConstructorJoinsParameters(t *testing.T) {
	r, _ := newTestRegistry(t)
	var gotParams, gotBody string
	r.realm.CompileFunction = func(params, body string) (*runtime.Object, error) {
		gotParams, gotBody = params, body
		return r.newFuncObject("anonymous", 0, nil), nil
	}

	mustCall(t, global(t, r, "Function").AsObject().Call, runtime.Undefined, runtime.Str("a"), runtime.Str("b"), runtime.Str("return a+b"))
	if gotParams != "a,b" || gotBody != "return a+b" {
		t.Fatalf("unexpected compile input %q / %q", gotParams, gotBody)
	}

	if _, err := r.functionConstruct(nil); err != nil {
		t.Fatal(err)
	}
	if gotParams != "" || gotBody != "" {
		t.Fatalf("empty Function() should compile an empty body, got %q / %q", gotParams, gotBody)
	}
}
