package runner

import (
	"fmt"
	"strings"
)

// ExecNotFoundError reports that a required executable could not be
// resolved on the search path. This is a configuration error: the
// environment is unusable, as opposed to a tool that ran and found
// problems, so it aborts the run instead of counting as a failed check.
type ExecNotFoundError struct {
	Name string // Executable that could not be resolved
	Err  error  // Underlying lookup error
}

// Error implements the error interface for ExecNotFoundError.
func (e *ExecNotFoundError) Error() string {
	return fmt.Sprintf("unable to find %q executable: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ExecNotFoundError) Unwrap() error {
	return e.Err
}

// CommandFailedError is returned by the executor when a command run with
// Check set exits non-zero. It is used for setup steps that must never
// silently continue.
type CommandFailedError struct {
	Command string
	Result  Result
}

// Error implements the error interface for CommandFailedError.
func (e *CommandFailedError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%q failed", e.Command))
	if e.Result.Stdout != "" {
		sb.WriteString("\n" + e.Result.Stdout)
	}
	if e.Result.Stderr != "" {
		sb.WriteString("\n" + e.Result.Stderr)
	}
	return sb.String()
}
