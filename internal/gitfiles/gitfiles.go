// Package gitfiles discovers the set of repository files believed to have
// changed, by querying version-control status and diffs. It is the
// change-set provider for quick-mode orchestration; any failure of the
// underlying queries is downgraded to "unknown" so the caller can fall
// back to full-repository mode instead of aborting.
package gitfiles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/calloway/checkmate/internal/runner"
)

// Provider queries git for changed files.
type Provider struct {
	// Runner executes the git commands.
	Runner runner.CommandRunner

	// Root is the repository root; discovered paths must exist beneath it.
	Root string

	// Upstream is the remote default branch used as the merge base for
	// committed-but-unpushed changes, e.g. "origin/master".
	Upstream string
}

// NewProvider creates a Provider over the given executor.
func NewProvider(exec *runner.Executor, upstream string) *Provider {
	return &Provider{Runner: exec, Root: exec.Root, Upstream: upstream}
}

// git runs a git query and returns its trimmed output lines. A non-zero
// exit is an error here; callers decide whether to downgrade it.
func (p *Provider) git(ctx context.Context, args ...string) ([]string, error) {
	result, err := p.Runner.Run(ctx, runner.Spec{
		Args:    append([]string{"git"}, args...),
		Capture: true,
		Check:   true,
	})
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines, nil
}

// ChangedFiles returns the deduplicated, sorted list of repository-relative
// paths that are untracked, unstaged, staged, or committed past the merge
// base with the upstream default branch, restricted to paths that
// currently exist on disk.
func (p *Provider) ChangedFiles(ctx context.Context) ([]string, error) {
	var candidates []string

	status, err := p.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status failed: %w", err)
	}
	for _, line := range status {
		if strings.HasPrefix(line, "?? ") {
			candidates = append(candidates, strings.TrimPrefix(line, "?? "))
		}
	}

	unstaged, err := p.git(ctx, "diff", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	candidates = append(candidates, unstaged...)

	staged, err := p.git(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("git diff --cached failed: %w", err)
	}
	candidates = append(candidates, staged...)

	mergeBase, err := p.git(ctx, "merge-base", p.Upstream, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git merge-base failed: %w", err)
	}
	if len(mergeBase) > 0 && mergeBase[0] != "" {
		committed, err := p.git(ctx, "diff", "--name-only", mergeBase[0], "HEAD")
		if err != nil {
			return nil, fmt.Errorf("git diff against merge base failed: %w", err)
		}
		candidates = append(candidates, committed...)
	}

	seen := make(map[string]bool)
	var files []string
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true
		if _, err := os.Stat(filepath.Join(p.Root, candidate)); err != nil {
			continue
		}
		files = append(files, candidate)
	}
	sort.Strings(files)
	return files, nil
}

// Changed wraps ChangedFiles with the downgrade policy: on any query
// failure it reports false so the orchestration falls back to testing
// everything, logging the reason to the diagnostic stream.
func (p *Provider) Changed(ctx context.Context) ([]string, bool) {
	files, err := p.ChangedFiles(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not query git for changed files, falling back to testing all files instead (%v)\n", err)
		return nil, false
	}
	return files, true
}
