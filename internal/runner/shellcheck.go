package runner

import (
	"context"
)

// shellcheckScript is the repository wrapper that knows how to invoke the
// tool with the project's shared options. With no arguments it scans the
// whole repository.
const shellcheckScript = "tools/run_shellcheck.sh"

// ShellCheck is the shell-script static-analysis check. Quick mode batches
// the relevant scripts into one invocation; full mode is a developer-facing
// long-running scan, so it runs with capture disabled and streams output
// live instead of buffering and replaying it.
type ShellCheck struct {
	baseCheck
}

// NewShellCheck builds the shell-script check.
func NewShellCheck(exec *Executor) *ShellCheck {
	return &ShellCheck{baseCheck: baseCheck{exec: exec}}
}

// Name identifies the check in reports.
func (s *ShellCheck) Name() string { return "shellcheck" }

// FilterFiles narrows files to shell scripts.
func (s *ShellCheck) FilterFiles(files []string) []string {
	return Relevant(files, Rule{Extensions: []string{".sh"}})
}

// Quick runs one batched invocation over the relevant scripts.
func (s *ShellCheck) Quick(ctx context.Context, files []string) (Result, error) {
	args := []string{shellcheckScript}
	for _, f := range files {
		args = append(args, s.exec.Path(f))
	}
	return s.exec.Run(ctx, Spec{Args: args, Capture: true})
}

// Full scans the whole repository with live output.
func (s *ShellCheck) Full(ctx context.Context) (Result, error) {
	return s.exec.Run(ctx, Spec{Args: []string{shellcheckScript}, Capture: false})
}
