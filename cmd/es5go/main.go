package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/example/es5go/interpreter"
	"github.com/example/es5go/parser"
	"github.com/example/es5go/runtime"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit status.
func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("es5go", flag.ContinueOnError)
	fs.SetOutput(stderr)
	evalCode := fs.String("e", "", "evaluate inline JavaScript code")
	configPath := fs.String("config", "", "YAML configuration file")
	dumpAST := fs.Bool("ast", false, "dump the AST as JSON")
	timeout := fs.Duration("timeout", 0, "interrupt the script after this long (0 = no limit)")
	maxDepth := fs.Int("max-depth", interpreter.DefaultMaxCallDepth, "maximum call depth")
	strict := fs.Bool("strict", false, "run the script as strict mode code")
	verbose := fs.Bool("v", false, "debug logging on stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: es5go [options] <file.js>\n")
		fmt.Fprintf(stderr, "       es5go -e \"code\"\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	cfg := &config{MaxCallDepth: interpreter.DefaultMaxCallDepth}
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timeout":
			cfg.Timeout = *timeout
		case "max-depth":
			cfg.MaxCallDepth = *maxDepth
		case "strict":
			cfg.Strict = *strict
		case "v":
			if *verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var source string
	switch {
	case *evalCode != "":
		source = *evalCode
	case fs.NArg() > 0:
		data, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "Error reading file: %v\n", err)
			return 1
		}
		source = string(data)
	default:
		fs.Usage()
		return 1
	}

	if *dumpAST {
		var mode parser.Mode
		if cfg.Strict {
			mode |= parser.StrictMode
		}
		program, err := parser.NewWithMode(source, mode).ParseProgram()
		if err != nil {
			reportError(stderr, err)
			return 1
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(program); err != nil {
			fmt.Fprintf(stderr, "Error encoding AST: %v\n", err)
			return 1
		}
		return 0
	}

	interp := interpreter.New(
		interpreter.WithMaxCallDepth(cfg.MaxCallDepth),
		interpreter.WithTimeout(cfg.Timeout),
		interpreter.WithStrict(cfg.Strict),
		interpreter.WithLogger(logger),
		interpreter.WithOutput(stdout),
	)

	for _, path := range cfg.Preload {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading preload: %v\n", err)
			return 1
		}
		logger.Debug("preloading script", "path", path)
		if _, err := interp.Run(string(data)); err != nil {
			reportError(stderr, fmt.Errorf("%s: %w", path, err))
			return 1
		}
	}

	result, err := interp.Run(source)
	if err != nil {
		reportError(stderr, err)
		return 1
	}
	if !result.IsUndefined() {
		s, err := runtime.ToString(result)
		if err != nil {
			reportError(stderr, interp.Realm().Materialize(err))
			return 1
		}
		fmt.Fprintln(stdout, s)
	}
	return 0
}

// reportError prints a script failure the way an engine console does:
// "Uncaught TypeError: ..." for exceptions, "SyntaxError: ..." for parse
// failures.
func reportError(w io.Writer, err error) {
	var list *parser.ErrorList
	if errors.As(err, &list) {
		for _, e := range list.Errors {
			fmt.Fprintf(w, "SyntaxError: %v\n", e)
		}
		return
	}
	fmt.Fprintln(w, err)
}
