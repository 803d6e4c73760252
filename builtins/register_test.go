package builtins

import (
	"testing"

	"github.com/example/es5go/runtime"
)

func TestRegisterDefinesGlobals(t *testing.T) {
	r, _ := newTestRegistry(t)
	names := []string{
		"Object", "Function", "Array", "String", "Number", "Boolean",
		"Error", "EvalError", "RangeError", "ReferenceError", "SyntaxError", "TypeError", "URIError",
		"RegExp", "Date", "Math", "JSON", "console",
		"parseInt", "parseFloat", "isNaN", "isFinite",
		"encodeURI", "encodeURIComponent", "decodeURI", "decodeURIComponent",
		"escape", "unescape", "print",
	}
	for _, name := range names {
		p, ok := r.realm.Global.GetOwnProperty(name)
		if !ok {
			t.Errorf("missing global %s", name)
			continue
		}
		if !p.Writable || p.Enumerable || !p.Configurable {
			t.Errorf("%s: expected writable, configurable, non-enumerable, got %+v", name, p)
		}
		if !p.Value.IsObject() {
			t.Errorf("%s: expected an object, got %v", name, p.Value)
		}
	}
	if keys := enumerableKeys(r.realm.Global); len(keys) != 0 {
		t.Errorf("the standard library should not be enumerable, got %v", keys)
	}
}

func enumerableKeys(obj *runtime.Object) []string {
	var keys []string
	for _, k := range obj.OwnKeys() {
		if p, ok := obj.GetOwnProperty(k); ok && p.Enumerable {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestRegisterLinksConstructors(t *testing.T) {
	r, _ := newTestRegistry(t)
	tests := []struct {
		name  string
		proto *runtime.Object
	}{
		{"Object", r.realm.ObjectPrototype},
		{"Function", r.realm.FunctionPrototype},
		{"Array", r.realm.ArrayPrototype},
		{"String", r.realm.StringPrototype},
		{"Number", r.realm.NumberPrototype},
		{"Boolean", r.realm.BooleanPrototype},
		{"Date", r.realm.DatePrototype},
		{"RegExp", r.realm.RegExpPrototype},
	}
	for _, kind := range runtime.ErrorKinds() {
		tests = append(tests, struct {
			name  string
			proto *runtime.Object
		}{kind.String(), r.realm.ErrorPrototypes[kind]})
	}

	for _, tt := range tests {
		ctor := global(t, r, tt.name).AsObject()
		if !ctor.IsCallable() {
			t.Errorf("%s should be callable", tt.name)
		}
		if ctor.Prototype() != r.realm.FunctionPrototype {
			t.Errorf("%s should inherit from Function.prototype", tt.name)
		}
		p, ok := ctor.GetOwnProperty("prototype")
		if !ok || p.Value.AsObject() != tt.proto {
			t.Errorf("%s.prototype is not the realm intrinsic", tt.name)
			continue
		}
		if p.Writable || p.Enumerable || p.Configurable {
			t.Errorf("%s.prototype should be fixed, got %+v", tt.name, p)
		}
		back, err := tt.proto.Get("constructor")
		if err != nil {
			t.Fatal(err)
		}
		if back.AsObject() != ctor {
			t.Errorf("%s.prototype.constructor does not point back", tt.name)
		}
	}
}

func TestRegisterFunctionLengths(t *testing.T) {
	r, _ := newTestRegistry(t)
	tests := []struct {
		path []string
		want float64
	}{
		{[]string{"Object"}, 1},
		{[]string{"Array"}, 1},
		{[]string{"String"}, 1},
		{[]string{"Date"}, 7},
		{[]string{"RegExp"}, 2},
		{[]string{"parseInt"}, 2},
		{[]string{"Object", "defineProperty"}, 3},
		{[]string{"Array", "prototype", "reduce"}, 1},
		{[]string{"Array", "prototype", "splice"}, 2},
		{[]string{"String", "prototype", "replace"}, 2},
		{[]string{"String", "fromCharCode"}, 1},
		{[]string{"Function", "prototype", "call"}, 1},
		{[]string{"Function", "prototype", "apply"}, 2},
		{[]string{"Math", "max"}, 2},
		{[]string{"JSON", "stringify"}, 3},
	}
	for _, tt := range tests {
		fn := global(t, r, tt.path...).AsObject()
		p, ok := fn.GetOwnProperty("length")
		if !ok {
			t.Errorf("%v: missing length", tt.path)
			continue
		}
		if p.Writable || p.Enumerable {
			t.Errorf("%v: length should be read-only and hidden", tt.path)
		}
		expectNum(t, p.Value, tt.want)
	}
}

func TestRegisterIsolatesRealms(t *testing.T) {
	a, _ := newTestRegistry(t)
	b, _ := newTestRegistry(t)
	if global(t, a, "Array").AsObject() == global(t, b, "Array").AsObject() {
		t.Fatal("each realm should get its own constructors")
	}
	if err := a.realm.ArrayPrototype.Put("extra", runtime.Num(1), true); err != nil {
		t.Fatal(err)
	}
	if b.realm.ArrayPrototype.HasOwnProperty("extra") {
		t.Fatal("prototype changes leaked across realms")
	}
}
