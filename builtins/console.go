package builtins

import (
	"fmt"
	"strings"

	"github.com/example/es5go/runtime"
)

func (r *registry) createConsoleObject() *runtime.Object {
	console := runtime.NewObject(r.realm.ObjectPrototype)
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		r.setMethod(console, name, 0, r.printLine)
	}
	return console
}

// printLine writes its arguments converted with ToString, space separated
// and newline terminated. It backs print and the console methods.
func (r *registry) printLine(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		s, err := runtime.ToString(a)
		if err != nil {
			return runtime.Undefined, err
		}
		parts[i] = s
	}
	if _, err := fmt.Fprintln(r.out, strings.Join(parts, " ")); err != nil {
		return runtime.Undefined, runtime.NewError(runtime.ErrError, "write output: %v", err)
	}
	return runtime.Undefined, nil
}
