// Package fileutil provides file discovery helpers for the check runner.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// ScanOptions configures directory scanning behavior.
type ScanOptions struct {
	// Pattern is a regex matched against the base filename.
	Pattern string
	// Extensions restricts results to these extensions (e.g. ".sh").
	Extensions []string
	// Recursive enables recursive directory scanning.
	Recursive bool
	// ExcludeDirs lists directory names to skip (e.g. ".git", "build").
	ExcludeDirs []string
}

// ScanDirectory scans a directory for files matching the options, returning
// paths relative to dir in sorted order.
func ScanDirectory(dir string, opts ScanOptions) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	var patternRegex *regexp.Regexp
	if opts.Pattern != "" {
		patternRegex, err = regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}

	extMap := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extMap[ext] = true
	}
	excludeMap := make(map[string]bool, len(opts.ExcludeDirs))
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if !opts.Recursive || excludeMap[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(extMap) > 0 && !extMap[filepath.Ext(d.Name())] {
			return nil
		}
		if patternRegex != nil && !patternRegex.MatchString(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Profiles returns the configuration profiles at the root of dir matching
// a shell glob, e.g. "mypy*.ini". Paths are relative to dir.
func Profiles(dir, glob string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return nil, fmt.Errorf("invalid profile glob %q: %w", glob, err)
	}

	profiles := make([]string, 0, len(matches))
	for _, match := range matches {
		rel, err := filepath.Rel(dir, match)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, rel)
	}
	sort.Strings(profiles)
	return profiles, nil
}
