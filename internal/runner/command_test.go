package runner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorRunCapturesAndTrims(t *testing.T) {
	exec := NewExecutor(t.TempDir())

	result, err := exec.Run(context.Background(), Spec{
		Script:  "echo '  hello  '; echo 'warn' >&2",
		Capture: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Equal(t, "hello", result.Stdout)
	assert.Equal(t, "warn", result.Stderr)
}

func TestExecutorRunNonZeroExitFailsResult(t *testing.T) {
	exec := NewExecutor(t.TempDir())

	result, err := exec.Run(context.Background(), Spec{
		Script:  "echo 'found problems'; exit 3",
		Capture: true,
	})
	require.NoError(t, err, "a tool that ran and found problems is not a fatal error")

	assert.False(t, result.Passed)
	assert.Equal(t, "found problems", result.Stdout)
}

func TestExecutorRunArgsForm(t *testing.T) {
	exec := NewExecutor(t.TempDir())

	result, err := exec.Run(context.Background(), Spec{
		Args:    []string{"echo", "a", "b"},
		Capture: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Equal(t, "a b", result.Stdout)
}

func TestExecutorRunEnvOverlay(t *testing.T) {
	exec := NewExecutor(t.TempDir())

	result, err := exec.Run(context.Background(), Spec{
		Script:  `echo "$CHECK_TOOLCHAIN"`,
		Env:     []string{"CHECK_TOOLCHAIN=clang"},
		Capture: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "clang", result.Stdout)
}

func TestExecutorRunWorkingDirectory(t *testing.T) {
	root := t.TempDir()
	exec := NewExecutor(root)

	result, err := exec.Run(context.Background(), Spec{Script: "pwd", Capture: true})
	require.NoError(t, err)

	// Some systems resolve the temp dir through symlinks; compare base names.
	assert.Equal(t, filepath.Base(root), filepath.Base(result.Stdout))
}

func TestExecutorRunMissingExecutableIsFatal(t *testing.T) {
	exec := NewExecutor(t.TempDir())

	_, err := exec.Run(context.Background(), Spec{
		Args:    []string{"definitely-not-a-real-tool-xyz"},
		Capture: true,
	})
	require.Error(t, err)

	var notFound *ExecNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, "definitely-not-a-real-tool-xyz", notFound.Name)
}

func TestExecutorRunCheckModePromotesFailure(t *testing.T) {
	exec := NewExecutor(t.TempDir())

	_, err := exec.Run(context.Background(), Spec{
		Script:  "echo 'setup broke' >&2; exit 1",
		Capture: true,
		Check:   true,
	})
	require.Error(t, err)

	var failed *CommandFailedError
	require.True(t, errors.As(err, &failed))
	assert.Contains(t, failed.Error(), "setup broke")
}

func TestExecutorRunNoCaptureReportsEmptyStreams(t *testing.T) {
	exec := NewExecutor(t.TempDir())

	result, err := exec.Run(context.Background(), Spec{
		Script:  "exit 0",
		Capture: false,
	})
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Empty(t, result.Stdout)
	assert.Empty(t, result.Stderr)
}

func TestExecutorRunEmptySpec(t *testing.T) {
	exec := NewExecutor(t.TempDir())

	_, err := exec.Run(context.Background(), Spec{})
	assert.Error(t, err)
}

func TestSpecDisplay(t *testing.T) {
	assert.Equal(t, "flake8 --config .flake8", Spec{Args: []string{"flake8", "--config", ".flake8"}}.Display())
	assert.Equal(t, "set -eu\nmake lint", Spec{Script: "set -eu\nmake lint"}.Display())
}
