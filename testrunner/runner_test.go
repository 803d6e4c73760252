package testrunner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSta = `
function Test262Error(message) { this.message = message || ""; }
Test262Error.prototype.toString = function () { return "Test262Error: " + this.message; };
function $DONOTEVALUATE() { throw "Test262: This statement should not be evaluated."; }
`

const testAssert = `
function assert(mustBeTrue, message) {
  if (mustBeTrue !== true) { throw new Test262Error(message); }
}
assert.sameValue = function (actual, expected, message) {
  if (actual !== expected) { throw new Test262Error(message); }
};
`

// writeTree lays out a miniature Test262 checkout under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	all := map[string]string{
		"harness/sta.js":    testSta,
		"harness/assert.js": testAssert,
		"harness/twice.js":  "function twice(x) { return x * 2; }",
	}
	for name, src := range files {
		all[name] = src
	}
	for name, src := range all {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func frontMatter(yaml string) string {
	return "/*---\n" + yaml + "\n---*/\n"
}

func runTree(t *testing.T, cfg Config) (map[string]TestResult, Summary) {
	t.Helper()
	results, summary, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	byPath := make(map[string]TestResult, len(results))
	for _, r := range results {
		byPath[r.Path] = r
	}
	return byPath, summary
}

func TestRunOutcomes(t *testing.T) {
	root := writeTree(t, map[string]string{
		"test/pass.js": frontMatter("description: passes") +
			`assert.sameValue(1 + 1, 2, "sum");`,
		"test/fail.js": `assert(false, "boom");`,
		"test/negative/parse.js": frontMatter("negative:\n  phase: parse\n  type: SyntaxError") +
			"$DONOTEVALUATE();\nvar = 1;",
		"test/negative/runtime.js": frontMatter("negative:\n  phase: runtime\n  type: TypeError") +
			"null.x;",
		"test/negative/wrong.js": frontMatter("negative:\n  phase: runtime\n  type: ReferenceError") +
			"null.x;",
		"test/negative/missing.js": frontMatter("negative:\n  phase: runtime\n  type: TypeError") +
			"1;",
		"test/include.js": frontMatter("includes: [twice.js]") +
			"assert.sameValue(twice(2), 4);",
		"test/host.js": `assert.sameValue($262.global, this); assert.sameValue($262.evalScript("1 + 2"), 3);`,
		"test/helper_FIXTURE.js": "throw 1;",
	})

	got, summary := runTree(t, Config{Test262Dir: root})
	want := map[string]Result{
		"test/pass.js":             Pass,
		"test/fail.js":             Fail,
		"test/negative/parse.js":   Pass,
		"test/negative/runtime.js": Pass,
		"test/negative/wrong.js":   Fail,
		"test/negative/missing.js": Fail,
		"test/include.js":          Pass,
		"test/host.js":             Pass,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %v", len(want), got)
	}
	for path, res := range want {
		if got[path].Result != res {
			t.Errorf("%s: expected %s, got %s (%s)", path, res, got[path].Result, got[path].Message)
		}
	}
	if summary.Total != 8 || summary.Passed != 5 || summary.Failed != 3 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestRunStrictModes(t *testing.T) {
	thisIsUndefined := "assert.sameValue((function () { return this; })(), undefined);"
	root := writeTree(t, map[string]string{
		"test/only_strict.js": frontMatter("flags: [onlyStrict]") + thisIsUndefined,
		"test/both.js":        thisIsUndefined,
		"test/no_strict.js":   frontMatter("flags: [noStrict]") + "with ({a: 1}) { assert.sameValue(a, 1); }",
		"test/raw.js": frontMatter("flags: [raw]") +
			`if (typeof assert !== "undefined") { throw 1; }`,
	})

	got, _ := runTree(t, Config{Test262Dir: root})
	for path, res := range map[string]Result{
		"test/only_strict.js": Pass,
		"test/both.js":        Fail,
		"test/no_strict.js":   Pass,
		"test/raw.js":         Pass,
	} {
		if got[path].Result != res {
			t.Errorf("%s: expected %s, got %s (%s)", path, res, got[path].Result, got[path].Message)
		}
	}
	if msg := got["test/both.js"].Message; strings.HasPrefix(msg, "strict mode") {
		t.Errorf("the sloppy run should fail first, got %q", msg)
	}
}

func TestRunSkips(t *testing.T) {
	root := writeTree(t, map[string]string{
		"test/feature.js":      frontMatter("features: [Symbol]") + "Symbol();",
		"test/module.js":       frontMatter("flags: [module]") + "export var x;",
		"test/async.js":        frontMatter("flags: [async]") + "$DONE();",
		"test/listed/a.js":     "throw 1;",
		"test/uses_include.js": frontMatter("includes: [twice.js]") + "throw 1;",
	})
	skip := &SkipList{
		Paths:    map[string]string{"test/listed/": "known failure"},
		Includes: []string{"twice.js"},
	}

	got, summary := runTree(t, Config{Test262Dir: root, Skip: skip})
	for path, r := range got {
		if r.Result != Skip {
			t.Errorf("%s: expected SKIP, got %s (%s)", path, r.Result, r.Message)
		}
	}
	if summary.Skipped != 5 {
		t.Errorf("expected 5 skipped, got %+v", summary)
	}
	if msg := got["test/listed/a.js"].Message; msg != "known failure" {
		t.Errorf("expected the skip-list reason, got %q", msg)
	}
}

func TestRunTimeout(t *testing.T) {
	root := writeTree(t, map[string]string{
		"test/loop.js": "while (true) {}",
	})
	got, _ := runTree(t, Config{Test262Dir: root, Timeout: 50 * time.Millisecond})
	r := got["test/loop.js"]
	if r.Result != Error || !strings.HasPrefix(r.Message, "timeout") {
		t.Fatalf("expected a timeout error, got %s (%s)", r.Result, r.Message)
	}
}

func TestRunFilterAndLimit(t *testing.T) {
	root := writeTree(t, map[string]string{
		"test/a/one.js": "1;",
		"test/a/two.js": "2;",
		"test/b/one.js": "3;",
	})
	got, _ := runTree(t, Config{Test262Dir: root, Filter: "a/"})
	if len(got) != 2 {
		t.Fatalf("expected 2 filtered tests, got %v", got)
	}
	got, _ = runTree(t, Config{Test262Dir: root, Limit: 1})
	if _, ok := got["test/a/one.js"]; !ok || len(got) != 1 {
		t.Fatalf("expected only the first test, got %v", got)
	}
}

func TestRunMissingHarness(t *testing.T) {
	if _, _, err := Run(Config{Test262Dir: t.TempDir()}); err == nil {
		t.Fatal("expected an error without a harness directory")
	}
}
