package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/example/es5go/testrunner"
)

func main() {
	test262Dir := flag.String("dir", "test262", "path to test262 checkout")
	filter := flag.String("filter", "", "filter tests by path substring")
	limit := flag.Int("limit", 0, "maximum number of tests to run (0 = all)")
	timeout := flag.Duration("timeout", testrunner.DefaultTimeout, "per-test time limit")
	skipFile := flag.String("skip", "", "YAML file listing tests to skip")
	verbose := flag.Bool("v", false, "verbose output (log each test result)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if _, err := os.Stat(*test262Dir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: test262 directory not found at %s\n", *test262Dir)
		fmt.Fprintf(os.Stderr, "Clone it with: git clone --depth 1 https://github.com/tc39/test262 %s\n", *test262Dir)
		os.Exit(1)
	}

	cfg := testrunner.Config{
		Test262Dir: *test262Dir,
		Filter:     *filter,
		Limit:      *limit,
		Timeout:    *timeout,
		Logger:     logger,
	}
	if *skipFile != "" {
		skip, err := testrunner.LoadSkipList(*skipFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		cfg.Skip = skip
	}

	results, summary, err := testrunner.Run(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if !*verbose {
		for _, r := range results {
			if r.Result == testrunner.Pass || r.Result == testrunner.Skip {
				continue
			}
			fmt.Printf("%s %s %s\n", r.Result, r.Path, r.Message)
		}
	}

	ran := summary.Total - summary.Skipped
	rate := 0.0
	if ran > 0 {
		rate = float64(summary.Passed) / float64(ran) * 100
	}
	logger.Info("test262 summary",
		"total", summary.Total,
		"passed", summary.Passed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
		"pass_rate", fmt.Sprintf("%.1f%%", rate),
		"elapsed", summary.Elapsed,
	)

	if summary.Failed > 0 || summary.Errors > 0 {
		os.Exit(1)
	}
}
