package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/example/es5go/ast"
	"github.com/example/es5go/builtins"
	"github.com/example/es5go/parser"
	"github.com/example/es5go/runtime"
)

// DefaultMaxCallDepth is the call depth limit used when none is configured.
const DefaultMaxCallDepth = 512

// Options configures an Interpreter.
type Options struct {
	// MaxCallDepth bounds nested function calls, built-in ones included.
	// Exceeding it throws a RangeError into the script.
	MaxCallDepth int
	// Timeout interrupts a Run that takes longer. Zero disables it.
	Timeout time.Duration
	Logger  *slog.Logger
	// Strict parses every program as strict mode code.
	Strict bool
	// Output receives print and console output.
	Output io.Writer
}

type Option func(*Options)

func WithMaxCallDepth(n int) Option {
	return func(o *Options) { o.MaxCallDepth = n }
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithStrict(strict bool) Option {
	return func(o *Options) { o.Strict = strict }
}

func WithOutput(w io.Writer) Option {
	return func(o *Options) { o.Output = w }
}

// InterruptedError is returned by Run when the evaluation was stopped by
// Interrupt. Script code cannot catch it.
type InterruptedError struct {
	Reason any
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("execution interrupted: %v", e.Reason)
}

// execContext is the running execution context: the environments that
// identifier resolution and var declarations use, and the this binding.
type execContext struct {
	lexEnv runtime.Environment
	varEnv runtime.Environment
	this   runtime.Value
	strict bool
}

func (ec *execContext) withLexEnv(env runtime.Environment) *execContext {
	c := *ec
	c.lexEnv = env
	return &c
}

// Interpreter evaluates ES5 programs by walking their AST. An Interpreter
// runs one evaluation at a time; only Interrupt may be called from other
// goroutines.
type Interpreter struct {
	opts   Options
	realm  *runtime.Realm
	logger *slog.Logger

	interrupt atomic.Pointer[InterruptedError]
}

// New creates an interpreter with a fresh realm and the standard built-in
// library installed.
func New(opts ...Option) *Interpreter {
	o := Options{MaxCallDepth: DefaultMaxCallDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxCallDepth <= 0 {
		o.MaxCallDepth = DefaultMaxCallDepth
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}

	interp := &Interpreter{
		opts:   o,
		realm:  runtime.NewRealm(),
		logger: o.Logger,
	}
	interp.realm.Calls.Limit = o.MaxCallDepth
	interp.realm.Calls.OnOverflow = func(limit int) {
		interp.logger.Debug("call depth limit reached", "limit", limit)
	}
	builtins.Register(interp.realm, o.Output)

	interp.realm.Eval = interp.realm.NewFunction("eval", 1, interp.indirectEval)
	interp.realm.Global.DefineProperty("eval", &runtime.Property{
		Value:        runtime.ObjectValue(interp.realm.Eval),
		Writable:     true,
		Configurable: true,
	})
	interp.realm.CompileFunction = interp.compileFunction
	return interp
}

// Realm returns the realm scripts run in.
func (interp *Interpreter) Realm() *runtime.Realm {
	return interp.realm
}

// Global returns the global object.
func (interp *Interpreter) Global() *runtime.Object {
	return interp.realm.Global
}

// SetGlobal defines or replaces a writable global property.
func (interp *Interpreter) SetGlobal(name string, v runtime.Value) {
	interp.realm.Global.DefineProperty(name, &runtime.Property{
		Value:        v,
		Writable:     true,
		Enumerable:   true,
		Configurable: true,
	})
}

// RegisterNative registers a native Go function as a global JS function.
func (interp *Interpreter) RegisterNative(name string, length int, fn runtime.NativeFunc) {
	f := interp.realm.NewFunction(name, length, fn)
	interp.realm.Global.DefineProperty(name, &runtime.Property{
		Value:        runtime.ObjectValue(f),
		Writable:     true,
		Configurable: true,
	})
}

// Interrupt stops the running evaluation at the next statement boundary.
// If nothing is running, the next Run stops immediately unless
// ClearInterrupt is called first. It is safe to call from any goroutine.
func (interp *Interpreter) Interrupt(reason any) {
	interp.interrupt.Store(&InterruptedError{Reason: reason})
}

// ClearInterrupt resets a pending Interrupt.
func (interp *Interpreter) ClearInterrupt() {
	interp.interrupt.Store(nil)
}

// Run parses and evaluates source as global code. It returns the
// completion value of the program. Syntax errors are returned as
// *parser.ErrorList and uncaught exceptions as *runtime.Exception.
func (interp *Interpreter) Run(source string) (runtime.Value, error) {
	var mode parser.Mode
	if interp.opts.Strict {
		mode |= parser.StrictMode
	}
	program, err := parser.NewWithMode(source, mode).ParseProgram()
	if err != nil {
		return runtime.Undefined, err
	}
	return interp.RunProgram(program)
}

// RunProgram evaluates an already parsed program as global code.
func (interp *Interpreter) RunProgram(program *ast.Program) (runtime.Value, error) {
	if interp.opts.Timeout > 0 {
		timer := time.AfterFunc(interp.opts.Timeout, func() {
			interp.Interrupt("timeout after " + interp.opts.Timeout.String())
		})
		defer func() {
			if !timer.Stop() {
				interp.ClearInterrupt()
			}
		}()
	}

	ec := &execContext{
		lexEnv: interp.realm.GlobalEnv,
		varEnv: interp.realm.GlobalEnv,
		this:   runtime.ObjectValue(interp.realm.Global),
		strict: program.Scope.Strict,
	}
	if err := interp.instantiateDeclarations(globalCode, program.Scope, ec, nil, nil); err != nil {
		return runtime.Undefined, interp.realm.Materialize(err)
	}

	c := interp.execStatements(program.Statements, ec)
	if c.Mode == Throw {
		var ie *InterruptedError
		if errors.As(c.Err, &ie) {
			interp.logger.Debug("evaluation interrupted", "reason", ie.Reason)
		}
		return runtime.Undefined, interp.realm.Materialize(c.Err)
	}
	if c.Empty {
		return runtime.Undefined, nil
	}
	return c.Value, nil
}

func (interp *Interpreter) checkInterrupt() error {
	if ie := interp.interrupt.Load(); ie != nil {
		return ie
	}
	return nil
}
