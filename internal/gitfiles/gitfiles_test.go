package gitfiles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/checkmate/internal/runner"
)

// fakeGit answers git queries from a canned table keyed on the joined
// argument list.
type fakeGit struct {
	outputs map[string]string
	fail    map[string]bool
	calls   []string
}

func (f *fakeGit) Run(_ context.Context, spec runner.Spec) (runner.Result, error) {
	key := strings.Join(spec.Args, " ")
	f.calls = append(f.calls, key)
	if f.fail[key] {
		result := runner.Result{Passed: false, Stderr: "fatal: not a git repository"}
		return result, &runner.CommandFailedError{Command: key, Result: result}
	}
	return runner.Result{Passed: true, Stdout: f.outputs[key]}, nil
}

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
}

func TestChangedFilesMergesAllSources(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "untracked.py", "unstaged.py", "staged.sh", "committed.cpp")

	git := &fakeGit{outputs: map[string]string{
		"git status --porcelain":            "?? untracked.py\n M ignored-modified.py",
		"git diff --name-only":              "unstaged.py",
		"git diff --cached --name-only":     "staged.sh",
		"git merge-base origin/master HEAD": "abc123",
		"git diff --name-only abc123 HEAD":  "committed.cpp",
	}}
	p := &Provider{Runner: git, Root: root, Upstream: "origin/master"}

	files, err := p.ChangedFiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"committed.cpp", "staged.sh", "unstaged.py", "untracked.py"}, files)
}

func TestChangedFilesDeduplicatesAndSorts(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.py", "a.py")

	git := &fakeGit{outputs: map[string]string{
		"git status --porcelain":            "?? b.py",
		"git diff --name-only":              "b.py\na.py",
		"git diff --cached --name-only":     "a.py",
		"git merge-base origin/master HEAD": "abc123",
		"git diff --name-only abc123 HEAD":  "b.py",
	}}
	p := &Provider{Runner: git, Root: root, Upstream: "origin/master"}

	files, err := p.ChangedFiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "b.py"}, files)
}

func TestChangedFilesDropsDeletedPaths(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "exists.py")

	git := &fakeGit{outputs: map[string]string{
		"git status --porcelain":            "",
		"git diff --name-only":              "exists.py\ndeleted.py",
		"git diff --cached --name-only":     "",
		"git merge-base origin/master HEAD": "abc123",
		"git diff --name-only abc123 HEAD":  "",
	}}
	p := &Provider{Runner: git, Root: root, Upstream: "origin/master"}

	files, err := p.ChangedFiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"exists.py"}, files)
}

func TestChangedFilesQueryFailure(t *testing.T) {
	git := &fakeGit{fail: map[string]bool{"git status --porcelain": true}}
	p := &Provider{Runner: git, Root: t.TempDir(), Upstream: "origin/master"}

	_, err := p.ChangedFiles(context.Background())
	require.Error(t, err)

	var failed *runner.CommandFailedError
	assert.True(t, errors.As(err, &failed))
}

func TestChangedDowngradesOnFailure(t *testing.T) {
	git := &fakeGit{fail: map[string]bool{"git diff --name-only": true}, outputs: map[string]string{
		"git status --porcelain": "",
	}}
	p := &Provider{Runner: git, Root: t.TempDir(), Upstream: "origin/master"}

	files, ok := p.Changed(context.Background())
	assert.False(t, ok, "query failure must downgrade, not abort")
	assert.Nil(t, files)
}

func TestChangedReportsKnownChangeSet(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.py")

	git := &fakeGit{outputs: map[string]string{
		"git status --porcelain":            "?? a.py",
		"git diff --name-only":              "",
		"git diff --cached --name-only":     "",
		"git merge-base origin/master HEAD": "abc123",
		"git diff --name-only abc123 HEAD":  "",
	}}
	p := &Provider{Runner: git, Root: root, Upstream: "origin/master"}

	files, ok := p.Changed(context.Background())
	assert.True(t, ok)
	assert.Equal(t, []string{"a.py"}, files)
}
