// Package filelock coordinates exclusive access to the runner's generated
// artifacts across processes.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// RunLock is an advisory lock preventing two concurrent runs from racing
// on the same repository's generated build tree.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// NewRunLock creates the lock file under the runner's state directory.
func NewRunLock(stateDir string) (*RunLock, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	path := filepath.Join(stateDir, "run.lock")
	return &RunLock{flock: flock.New(path), path: path}, nil
}

// Acquire takes the lock without blocking. It fails if another run holds
// it, naming the lock path so the operator can find the competing run.
func (rl *RunLock) Acquire() error {
	acquired, err := rl.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", rl.path, err)
	}
	if !acquired {
		return fmt.Errorf("another run holds %s", rl.path)
	}
	return nil
}

// Release drops the lock.
func (rl *RunLock) Release() error {
	if err := rl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", rl.path, err)
	}
	return nil
}
