package runner

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule declares which files a check cares about. Extensions are matched
// exactly, including the leading dot. Exclude patterns come from the
// tool's own configuration and mix shell-glob and plain path-prefix
// styles, so both interpretations are tried for every pattern.
type Rule struct {
	Extensions []string
	Excludes   []string
}

// Validate rejects malformed exclude patterns. Filter rules are built once
// at startup; a bad pattern means the configuration is unusable.
func (r Rule) Validate() error {
	for _, pattern := range r.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Relevant narrows files to those the rule cares about. It is a pure
// function, order-preserving and idempotent: filtering an already-filtered
// list is a no-op.
func Relevant(files []string, rule Rule) []string {
	relevant := make([]string, 0, len(files))
	for _, f := range files {
		if !matchesExtension(f, rule.Extensions) {
			continue
		}
		if excluded(f, rule.Excludes) {
			continue
		}
		relevant = append(relevant, f)
	}
	return relevant
}

func matchesExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// excluded reports whether any pattern matches name, either as a glob or
// as a path prefix (verbatim or relative to the repository root). Patterns
// are checked in declared order but any single match excludes.
func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
		if hasPathPrefix(name, pattern) || hasPathPrefix("./"+name, pattern) {
			return true
		}
	}
	return false
}

func hasPathPrefix(name, prefix string) bool {
	return len(name) >= len(prefix) && name[:len(prefix)] == prefix
}
