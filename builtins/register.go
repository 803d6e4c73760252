// Package builtins installs the ES5 standard library into a realm.
package builtins

import (
	"io"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/example/es5go/runtime"
)

// rootLocale selects the language-neutral case mappings.
var rootLocale = language.Und

// registry carries the realm being populated. Built-ins that allocate
// objects are methods on it so that every realm owns its own intrinsics.
type registry struct {
	realm    *runtime.Realm
	out      io.Writer
	locale   language.Tag
	collator *collate.Collator
	// loc is the local time zone of Date.
	loc *time.Location
	// joining holds the arrays whose join or toLocaleString is running.
	// A cyclic reference back to one of them joins as the empty string.
	joining map[*runtime.Object]bool
}

// Register fills the realm's intrinsics with methods and defines the global
// constructors and functions. print and console write to out.
//
// The Function constructor and eval are backed by realm hooks that the
// interpreter installs; Register only wires the library objects.
func Register(realm *runtime.Realm, out io.Writer) {
	register(realm, out, time.Local)
}

func register(realm *runtime.Realm, out io.Writer, loc *time.Location) *registry {
	r := &registry{
		realm:    realm,
		out:      out,
		locale:   language.Und,
		collator: collate.New(language.Und),
		loc:      loc,
		joining:  make(map[*runtime.Object]bool),
	}
	global := realm.Global

	// Object and Function first: every other constructor inherits from
	// their prototypes.
	r.defineGlobal(global, "Object", r.createObjectConstructor())
	r.defineGlobal(global, "Function", r.createFunctionConstructor())

	r.defineGlobal(global, "Array", r.createArrayConstructor())
	r.defineGlobal(global, "String", r.createStringConstructor())
	r.defineGlobal(global, "Number", r.createNumberConstructor())
	r.defineGlobal(global, "Boolean", r.createBooleanConstructor())

	for _, kind := range runtime.ErrorKinds() {
		r.defineGlobal(global, kind.String(), r.createErrorConstructor(kind))
	}

	r.defineGlobal(global, "RegExp", r.createRegExpConstructor())
	r.defineGlobal(global, "Date", r.createDateConstructor())
	r.defineGlobal(global, "Math", r.createMathObject())
	r.defineGlobal(global, "JSON", r.createJSONObject())
	r.defineGlobal(global, "console", r.createConsoleObject())

	r.registerGlobalFunctions(global)
	return r
}

// defineGlobal installs a global the way the standard library's own
// properties are: writable, configurable, not enumerable.
func (r *registry) defineGlobal(global *runtime.Object, name string, obj *runtime.Object) {
	setDataProp(global, name, runtime.ObjectValue(obj), true, false, true)
}
