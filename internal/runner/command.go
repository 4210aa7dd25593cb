package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Spec describes one external command invocation. Exactly one of Args or
// Script must be set: Args is an argv vector whose first element is
// resolved on the search path, Script is a raw shell script handed to bash
// verbatim. Specs are immutable once constructed.
type Spec struct {
	Args    []string
	Script  string
	Env     []string // KEY=VALUE overlay appended to the inherited environment
	Capture bool     // Drain and report output; false inherits the process streams
	Check   bool     // Treat a non-zero exit as an error instead of a failed Result
}

// Display renders the spec for logging.
func (s Spec) Display() string {
	if s.Script != "" {
		return s.Script
	}
	return strings.Join(s.Args, " ")
}

// DebugLogger receives command trace output from the executor.
type DebugLogger interface {
	LogDebug(message string)
}

// Executor spawns external processes rooted at the repository under check.
// It is safe for concurrent use; every invocation carries its own
// environment overlay so concurrent checks cannot interfere with each
// other's toolchain selection.
type Executor struct {
	// Root is the repository root used as the working directory for every
	// spawned process.
	Root string

	// Logger receives "Running ..." trace lines. Can be nil.
	Logger DebugLogger
}

// NewExecutor creates an Executor rooted at the given repository path.
func NewExecutor(root string) *Executor {
	return &Executor{Root: root}
}

// Path resolves a repository-relative path against the executor root.
func (e *Executor) Path(rel string) string {
	return filepath.Join(e.Root, rel)
}

// Run spawns the command described by spec and waits for it to exit.
//
// With Capture set both streams are drained fully, decoded, and trimmed of
// surrounding whitespace; otherwise the child inherits the parent streams
// and the reported streams are empty. Passed reflects a zero exit status
// in both cases.
//
// An unresolvable executable is returned as *ExecNotFoundError rather than
// a failed Result: the tool not being installed is a configuration error,
// not a check failure. With Check set a non-zero exit is promoted to a
// *CommandFailedError.
func (e *Executor) Run(ctx context.Context, spec Spec) (Result, error) {
	var cmd *exec.Cmd
	switch {
	case spec.Script != "":
		shell, err := exec.LookPath("bash")
		if err != nil {
			return Result{}, &ExecNotFoundError{Name: "bash", Err: err}
		}
		cmd = exec.CommandContext(ctx, shell, "-c", spec.Script)
	case len(spec.Args) > 0:
		path, err := exec.LookPath(spec.Args[0])
		if err != nil {
			return Result{}, &ExecNotFoundError{Name: spec.Args[0], Err: err}
		}
		cmd = exec.CommandContext(ctx, path, spec.Args[1:]...)
	default:
		return Result{}, errors.New("empty command spec")
	}

	cmd.Dir = e.Root
	cmd.Env = append(os.Environ(), spec.Env...)

	var stdout, stderr bytes.Buffer
	if spec.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if e.Logger != nil {
		e.Logger.LogDebug("Running " + spec.Display())
	}

	err := cmd.Run()
	passed := err == nil
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process never ran; surface spawn failures loudly.
			return Result{}, fmt.Errorf("failed to run %q: %w", spec.Display(), err)
		}
	}

	result := Result{Passed: passed}
	if spec.Capture {
		result.Stdout = strings.TrimSpace(stdout.String())
		result.Stderr = strings.TrimSpace(stderr.String())
	}

	if spec.Check && !passed {
		return result, &CommandFailedError{Command: spec.Display(), Result: result}
	}

	return result, nil
}

// CommandRunner is the executor behavior checks depend on. It exists so
// tests can substitute fakes for real process spawning.
type CommandRunner interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}
