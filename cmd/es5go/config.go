package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// config is the optional YAML file given with -config. Flags set on the
// command line override its values.
type config struct {
	MaxCallDepth int           `yaml:"max_call_depth"`
	Timeout      time.Duration `yaml:"timeout"`
	Strict       bool          `yaml:"strict"`
	LogLevel     string        `yaml:"log_level"`
	// Preload lists scripts evaluated before the main one. Relative
	// paths are resolved against the config file's directory.
	Preload []string `yaml:"preload"`
}

func loadConfig(path string) (*config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var cfg config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.MaxCallDepth < 0 {
		return nil, fmt.Errorf("config: max_call_depth must not be negative")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("config: timeout must not be negative")
	}
	if _, err := cfg.level(); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i, p := range cfg.Preload {
		if !filepath.IsAbs(p) {
			cfg.Preload[i] = filepath.Join(dir, p)
		}
	}
	return &cfg, nil
}

// level parses LogLevel, defaulting to warnings only.
func (c *config) level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}
