package builtins

import (
	"testing"

	"github.com/example/es5go/runtime"
)

func TestErrorConstructors(t *testing.T) {
	r, _ := newTestRegistry(t)
	for _, kind := range runtime.ErrorKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			ctor := global(t, r, kind.String()).AsObject()

			v, err := ctor.Construct(args(runtime.Str("boom")))
			if err != nil {
				t.Fatal(err)
			}
			obj := v.AsObject()
			if obj.Class != runtime.ClassError || obj.Prototype() != r.realm.ErrorPrototypes[kind] {
				t.Fatalf("unexpected error object %v", v)
			}
			msg, _ := obj.Get("message")
			expectStr(t, msg, "boom")
			name, _ := obj.Get("name")
			expectStr(t, name, kind.String())
			if p, _ := obj.GetOwnProperty("message"); p.Enumerable {
				t.Fatal("message should not be enumerable")
			}

			expectStr(t, mustCall(t, errorToString, v), kind.String()+": boom")

			// Calling without new behaves the same.
			called, err := ctor.Call(runtime.Undefined, nil)
			if err != nil {
				t.Fatal(err)
			}
			if called.AsObject().HasOwnProperty("message") {
				t.Fatal("an undefined message should not create an own property")
			}
			expectStr(t, mustCall(t, errorToString, called), kind.String())
		})
	}
}

func TestErrorPrototypeChain(t *testing.T) {
	r, _ := newTestRegistry(t)
	base := r.realm.ErrorPrototypes[runtime.ErrError]
	for _, kind := range runtime.ErrorKinds()[1:] {
		if r.realm.ErrorPrototypes[kind].Prototype() != base {
			t.Errorf("%v.prototype should inherit from Error.prototype", kind)
		}
	}
	if base.Prototype() != r.realm.ObjectPrototype {
		t.Error("Error.prototype should inherit from Object.prototype")
	}
}

func TestErrorToString(t *testing.T) {
	r, _ := newTestRegistry(t)
	tests := []struct {
		name, message runtime.Value
		want          string
	}{
		{runtime.Undefined, runtime.Undefined, "Error"},
		{runtime.Str("E"), runtime.Str(""), "E"},
		{runtime.Str(""), runtime.Str("only message"), "only message"},
		{runtime.Str("Custom"), runtime.Num(42), "Custom: 42"},
	}
	for _, tt := range tests {
		obj := r.realm.NewObject()
		if !tt.name.IsUndefined() {
			obj.Set("name", tt.name)
		}
		if !tt.message.IsUndefined() {
			obj.Set("message", tt.message)
		}
		expectStr(t, mustCall(t, errorToString, runtime.ObjectValue(obj)), tt.want)
	}

	_, err := errorToString(runtime.Str("x"), nil)
	expectKind(t, err, runtime.ErrType)
}

func TestThrownNativeErrorsMaterialize(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := numberToFixed(runtime.Num(1), nums(100))

	v, ok := r.realm.ThrowValue(err)
	if !ok {
		t.Fatalf("expected a throwable error, got %v", err)
	}
	name, _ := v.AsObject().Get("name")
	expectStr(t, name, "RangeError")
	s := mustCall(t, errorToString, v)
	expectStr(t, s, "RangeError: toFixed() digits argument must be between 0 and 20")
}
