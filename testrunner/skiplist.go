package testrunner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SkipList names tests that are known not to apply to this engine. It is
// read from a YAML file of the form:
//
//	paths:
//	  test/built-ins/Date/S15.9.3.1_A5_T1.js: depends on the host time zone
//	includes:
//	  - compareArray.js
type SkipList struct {
	// Paths maps a path prefix, relative to the Test262 root, to the
	// reason it is skipped.
	Paths map[string]string `yaml:"paths"`
	// Includes lists harness files that need a newer language. Tests
	// including them are skipped.
	Includes []string `yaml:"includes"`
}

// LoadSkipList reads a skip list from path.
func LoadSkipList(path string) (*SkipList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("skip list: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var list SkipList
	if err := dec.Decode(&list); err != nil {
		if errors.Is(err, io.EOF) {
			return &list, nil
		}
		return nil, fmt.Errorf("skip list: parse %s: %w", path, err)
	}
	return &list, nil
}

// match returns the reason rel or one of the includes is skipped.
func (s *SkipList) match(rel string, includes []string) (string, bool) {
	if s == nil {
		return "", false
	}
	rel = strings.ReplaceAll(rel, "\\", "/")
	for prefix, reason := range s.Paths {
		if strings.HasPrefix(rel, prefix) {
			if reason == "" {
				reason = "skip list"
			}
			return reason, true
		}
	}
	for _, inc := range includes {
		for _, skipped := range s.Includes {
			if inc == skipped {
				return "include " + inc + " is skipped", true
			}
		}
	}
	return "", false
}
