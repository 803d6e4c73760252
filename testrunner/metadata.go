package testrunner

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the YAML front-matter of a Test262 test, found between
// "/*---" and "---*/".
type Metadata struct {
	Description string    `yaml:"description"`
	Info        string    `yaml:"info"`
	ES5ID       string    `yaml:"es5id"`
	Features    []string  `yaml:"features"`
	Flags       []string  `yaml:"flags"`
	Includes    []string  `yaml:"includes"`
	Negative    *Negative `yaml:"negative"`
}

// Negative describes the error a negative test must produce.
type Negative struct {
	// Phase is "parse", "resolution" or "runtime".
	Phase string `yaml:"phase"`
	// Type is the name of the expected error constructor.
	Type string `yaml:"type"`
}

func (m *Metadata) HasFlag(flag string) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// parseMetadata extracts and decodes the front-matter of source. A test
// without front-matter has zero metadata.
func parseMetadata(source string) (Metadata, error) {
	var meta Metadata
	start := strings.Index(source, "/*---")
	if start < 0 {
		return meta, nil
	}
	end := strings.Index(source[start:], "---*/")
	if end < 0 {
		return meta, fmt.Errorf("metadata: unterminated front-matter")
	}
	block := source[start+len("/*---") : start+end]
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return meta, fmt.Errorf("metadata: %w", err)
	}
	return meta, nil
}
