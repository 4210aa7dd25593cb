// Package lintconfig builds typed file-filter rules from the declarative
// configuration files of the lint tools themselves. Rules are constructed
// once at startup and treated as plain immutable data afterwards.
package lintconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/calloway/checkmate/internal/runner"
)

// excludeSplit separates the comma-delimited exclude list, tolerating
// whitespace after each comma.
var excludeSplit = regexp.MustCompile(`,\s*`)

// Flake8Excludes reads the exclude patterns from a flake8-style INI
// config. A malformed or unreadable config is a configuration error that
// aborts the run.
func Flake8Excludes(path string) ([]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// No config means the tool declares no excludes.
		return nil, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lint config %s: %w", path, err)
	}

	section := cfg.Section("flake8")
	if !section.HasKey("exclude") {
		return nil, nil
	}

	raw := strings.TrimSpace(section.Key("exclude").String())
	var excludes []string
	for _, part := range excludeSplit.Split(raw, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			excludes = append(excludes, part)
		}
	}
	return excludes, nil
}

// Flake8Rule builds the style check's filter rule from the tool's own
// config file.
func Flake8Rule(path string) (runner.Rule, error) {
	excludes, err := Flake8Excludes(path)
	if err != nil {
		return runner.Rule{}, err
	}

	rule := runner.Rule{Extensions: []string{".py"}, Excludes: excludes}
	if err := rule.Validate(); err != nil {
		return runner.Rule{}, fmt.Errorf("malformed filter config %s: %w", path, err)
	}
	return rule, nil
}
