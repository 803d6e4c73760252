package builtins

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/example/es5go/runtime"
)

func newTestRegistry(t *testing.T) (*registry, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return register(runtime.NewRealm(), &out, time.UTC), &out
}

func args(vs ...runtime.Value) []runtime.Value { return vs }

func mustCall(t *testing.T, fn runtime.NativeFunc, this runtime.Value, callArgs ...runtime.Value) runtime.Value {
	t.Helper()
	v, err := fn(this, callArgs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func expectStr(t *testing.T, v runtime.Value, want string) {
	t.Helper()
	if !v.IsString() || v.AsString() != want {
		t.Fatalf("expected %q, got %v", want, v)
	}
}

func expectNum(t *testing.T, v runtime.Value, want float64) {
	t.Helper()
	if !v.IsNumber() {
		t.Fatalf("expected number %v, got %v", want, v)
	}
	got := v.AsNumber()
	if math.IsNaN(want) && math.IsNaN(got) {
		return
	}
	if got != want || math.Signbit(got) != math.Signbit(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func expectBool(t *testing.T, v runtime.Value, want bool) {
	t.Helper()
	if !v.IsBoolean() || v.AsBool() != want {
		t.Fatalf("expected %v, got %v", want, v)
	}
}

// expectKind checks that err is a native error of the given kind.
func expectKind(t *testing.T, err error, kind runtime.ErrorKind) {
	t.Helper()
	var jsErr *runtime.Error
	if !errors.As(err, &jsErr) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	if jsErr.Kind != kind {
		t.Fatalf("expected %v, got %v", kind, jsErr)
	}
}

func (r *registry) array(vals ...runtime.Value) runtime.Value {
	return runtime.ObjectValue(r.realm.NewArray(vals))
}

func nums(fs ...float64) []runtime.Value {
	vals := make([]runtime.Value, len(fs))
	for i, f := range fs {
		vals[i] = runtime.Num(f)
	}
	return vals
}

// elements reads an array-like back into a slice.
func elements(t *testing.T, v runtime.Value) []runtime.Value {
	t.Helper()
	if !v.IsObject() {
		t.Fatalf("expected an object, got %v", v)
	}
	obj := v.AsObject()
	n, err := lengthOf(obj)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]runtime.Value, n)
	for i := range out {
		if out[i], err = obj.Get(indexKey(int64(i))); err != nil {
			t.Fatal(err)
		}
	}
	return out
}

// joined renders an array-like with ToString on each element, separated
// by commas.
func joined(t *testing.T, v runtime.Value) string {
	t.Helper()
	s := ""
	for i, e := range elements(t, v) {
		if i > 0 {
			s += ","
		}
		if e.IsNullish() {
			continue
		}
		es, err := runtime.ToString(e)
		if err != nil {
			t.Fatal(err)
		}
		s += es
	}
	return s
}

// global looks up a dotted path from the global object.
func global(t *testing.T, r *registry, path ...string) runtime.Value {
	t.Helper()
	v := runtime.ObjectValue(r.realm.Global)
	for _, p := range path {
		if !v.IsObject() {
			t.Fatalf("%v is not an object at %q", v, p)
		}
		var err error
		if v, err = v.AsObject().Get(p); err != nil {
			t.Fatal(err)
		}
	}
	return v
}

// native wraps a Go function as a callable object for callback arguments.
func (r *registry) native(fn runtime.NativeFunc) runtime.Value {
	return runtime.ObjectValue(r.newFuncObject("", 0, fn))
}

// invoke calls the global function at path with an undefined this.
func invoke(t *testing.T, r *registry, path []string, callArgs ...runtime.Value) (runtime.Value, error) {
	t.Helper()
	fn := global(t, r, path...)
	if !fn.IsCallable() {
		t.Fatalf("%v is not callable", path)
	}
	return fn.AsObject().Call(runtime.Undefined, callArgs)
}

func mustInvoke(t *testing.T, r *registry, path []string, callArgs ...runtime.Value) runtime.Value {
	t.Helper()
	v, err := invoke(t, r, path, callArgs...)
	if err != nil {
		t.Fatalf("%v: %v", path, err)
	}
	return v
}
