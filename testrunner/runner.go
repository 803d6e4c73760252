// Package testrunner runs the ES5 portion of a Test262 checkout against
// the interpreter.
package testrunner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/es5go/interpreter"
	"github.com/example/es5go/parser"
	"github.com/example/es5go/runtime"
)

// DefaultTimeout bounds a single test run when Config.Timeout is zero.
const DefaultTimeout = 5 * time.Second

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	Path    string
	Result  Result
	Message string
	Elapsed time.Duration
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

func (s *Summary) add(r Result) {
	switch r {
	case Pass:
		s.Passed++
	case Fail:
		s.Failed++
	case Skip:
		s.Skipped++
	case Error:
		s.Errors++
	}
}

type Config struct {
	Test262Dir string
	// Filter keeps tests whose path under test/ contains it.
	Filter string
	// Limit caps the number of tests run. Zero runs everything.
	Limit int
	// Timeout bounds each run of a test.
	Timeout time.Duration
	Skip    *SkipList
	Logger  *slog.Logger
}

// unsupportedFlags mark tests that need language machinery newer than ES5.
var unsupportedFlags = map[string]string{
	"module":          "module code",
	"async":           "asynchronous test",
	"CanBlockIsTrue":  "agent blocking",
	"CanBlockIsFalse": "agent blocking",
}

// Run discovers and runs Test262 tests, returning results in path order
// and a summary.
func Run(cfg Config) ([]TestResult, Summary, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	testDir := filepath.Join(cfg.Test262Dir, "test")
	h := &harness{dir: filepath.Join(cfg.Test262Dir, "harness"), files: map[string]string{}}
	if _, err := h.load("sta.js", "assert.js"); err != nil {
		return nil, Summary{}, err
	}

	var testFiles []string
	err := filepath.WalkDir(testDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".js") || strings.HasSuffix(path, "_FIXTURE.js") {
			return nil
		}
		if cfg.Filter != "" {
			rel, _ := filepath.Rel(testDir, path)
			if !strings.Contains(filepath.ToSlash(rel), cfg.Filter) {
				return nil
			}
		}
		testFiles = append(testFiles, path)
		return nil
	})
	if err != nil {
		return nil, Summary{}, fmt.Errorf("testrunner: walk %s: %w", testDir, err)
	}
	if cfg.Limit > 0 && len(testFiles) > cfg.Limit {
		testFiles = testFiles[:cfg.Limit]
	}

	start := time.Now()
	results := make([]TestResult, 0, len(testFiles))
	summary := Summary{Total: len(testFiles)}
	for _, path := range testFiles {
		rel, _ := filepath.Rel(cfg.Test262Dir, path)
		rel = filepath.ToSlash(rel)
		tr := runSingleTest(cfg, path, rel, h)
		results = append(results, tr)
		summary.add(tr.Result)
		cfg.Logger.Debug("test finished", "path", rel, "result", tr.Result.String(), "message", tr.Message, "elapsed", tr.Elapsed)
	}
	summary.Elapsed = time.Since(start)
	return results, summary, nil
}

// harness caches harness files by name.
type harness struct {
	dir   string
	files map[string]string
}

func (h *harness) load(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		src, ok := h.files[name]
		if !ok {
			data, err := os.ReadFile(filepath.Join(h.dir, name))
			if err != nil {
				return "", fmt.Errorf("testrunner: harness: %w", err)
			}
			src = string(data)
			h.files[name] = src
		}
		b.WriteString(src)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func runSingleTest(cfg Config, path, rel string, h *harness) TestResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: "read error: " + err.Error()}
	}
	meta, err := parseMetadata(string(source))
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: err.Error()}
	}

	if len(meta.Features) > 0 {
		// Test262 only tags features that postdate ES5.
		return TestResult{Path: rel, Result: Skip, Message: "unsupported feature: " + meta.Features[0]}
	}
	for _, flag := range meta.Flags {
		if reason, ok := unsupportedFlags[flag]; ok {
			return TestResult{Path: rel, Result: Skip, Message: reason}
		}
	}
	if reason, ok := cfg.Skip.match(rel, meta.Includes); ok {
		return TestResult{Path: rel, Result: Skip, Message: reason}
	}

	prelude := ""
	if !meta.HasFlag("raw") {
		names := append([]string{"sta.js", "assert.js"}, meta.Includes...)
		if prelude, err = h.load(names...); err != nil {
			return TestResult{Path: rel, Result: Error, Message: err.Error()}
		}
	}

	var modes []bool
	switch {
	case meta.HasFlag("raw"), meta.HasFlag("noStrict"):
		modes = []bool{false}
	case meta.HasFlag("onlyStrict"):
		modes = []bool{true}
	default:
		modes = []bool{false, true}
	}

	start := time.Now()
	for _, strict := range modes {
		src := prelude + string(source)
		if strict {
			src = "\"use strict\";\n" + src
		}
		res, msg := runSource(cfg, src, meta.Negative)
		if res != Pass {
			if strict {
				msg = "strict mode: " + msg
			}
			return TestResult{Path: rel, Result: res, Message: msg, Elapsed: time.Since(start)}
		}
	}
	return TestResult{Path: rel, Result: Pass, Elapsed: time.Since(start)}
}

// runSource evaluates one variant of a test in a fresh interpreter.
func runSource(cfg Config, src string, negative *Negative) (Result, string) {
	interp := interpreter.New(
		interpreter.WithTimeout(cfg.Timeout),
		interpreter.WithOutput(io.Discard),
		interpreter.WithLogger(cfg.Logger),
	)
	register262Object(interp)

	_, err := interp.Run(src)

	var ie *interpreter.InterruptedError
	if errors.As(err, &ie) {
		return Error, fmt.Sprintf("timeout (%s)", cfg.Timeout)
	}

	if negative != nil {
		if err == nil {
			return Fail, fmt.Sprintf("expected %s in %s phase", negative.Type, negative.Phase)
		}
		got := errorName(err)
		if got != negative.Type {
			return Fail, fmt.Sprintf("expected %s in %s phase, got %s", negative.Type, negative.Phase, err)
		}
		return Pass, ""
	}
	if err != nil {
		return Fail, err.Error()
	}
	return Pass, ""
}

// errorName is the constructor name of the thrown value, or SyntaxError
// for parse failures.
func errorName(err error) string {
	var list *parser.ErrorList
	if errors.As(err, &list) {
		return "SyntaxError"
	}
	var exc *runtime.Exception
	if !errors.As(err, &exc) || !exc.Value.IsObject() {
		return ""
	}
	ctor, err := exc.Value.AsObject().Get("constructor")
	if err != nil || !ctor.IsObject() {
		return ""
	}
	name, err := ctor.AsObject().Get("name")
	if err != nil || !name.IsString() {
		return ""
	}
	return name.AsString()
}

// register262Object installs the $262 host object. Only the parts an
// ES5 test can reach are provided.
func register262Object(interp *interpreter.Interpreter) {
	realm := interp.Realm()
	obj := realm.NewObject()
	method := func(name string, length int, fn runtime.NativeFunc) {
		obj.DefineProperty(name, &runtime.Property{
			Value:        runtime.ObjectValue(realm.NewFunction(name, length, fn)),
			Writable:     true,
			Configurable: true,
		})
	}
	obj.Set("global", runtime.ObjectValue(interp.Global()))
	method("gc", 0, func(runtime.Value, []runtime.Value) (runtime.Value, error) {
		return runtime.Undefined, nil
	})
	method("evalScript", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Undefined, nil
		}
		src, err := runtime.ToString(args[0])
		if err != nil {
			return runtime.Undefined, err
		}
		program, err := parser.New(src).ParseProgram()
		if err != nil {
			var list *parser.ErrorList
			if errors.As(err, &list) {
				return runtime.Undefined, runtime.NewSyntaxError("%s", list.First())
			}
			return runtime.Undefined, err
		}
		return interp.RunProgram(program)
	})
	interp.SetGlobal("$262", runtime.ObjectValue(obj))
}
