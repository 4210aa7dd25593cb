package filelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	lock, err := NewRunLock(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, lock.Acquire())
	require.NoError(t, lock.Release())
}

func TestNewRunLockCreatesStateDirectory(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), ".checkmate")

	_, err := NewRunLock(stateDir)
	require.NoError(t, err)

	info, err := os.Stat(stateDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSecondAcquireFails(t *testing.T) {
	stateDir := t.TempDir()

	first, err := NewRunLock(stateDir)
	require.NoError(t, err)
	require.NoError(t, first.Acquire())
	defer first.Release()

	second, err := NewRunLock(stateDir)
	require.NoError(t, err)

	err = second.Acquire()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another run holds")
}

func TestReacquireAfterRelease(t *testing.T) {
	stateDir := t.TempDir()

	first, err := NewRunLock(stateDir)
	require.NoError(t, err)
	require.NoError(t, first.Acquire())
	require.NoError(t, first.Release())

	second, err := NewRunLock(stateDir)
	require.NoError(t, err)
	require.NoError(t, second.Acquire())
	assert.NoError(t, second.Release())
}
