package runner

import (
	"context"
	"regexp"
	"strings"

	"github.com/calloway/checkmate/internal/workflow"
)

// timePrefix matches a timing-wrapper invocation at the start of a script
// line.
var timePrefix = regexp.MustCompile(`(?m)^time `)

// WorkflowStep wraps one externally-resolved CI step and runs its shell
// script verbatim. In verbose mode the script is rewritten to behave more
// informatively when run interactively: the strict-shell flag is relaxed
// so individual command failures don't abort the whole script, and leading
// timing wrappers are stripped.
type WorkflowStep struct {
	baseCheck
	job     string
	step    workflow.Step
	verbose bool
}

// NewWorkflowStep builds a check around a resolved workflow step.
func NewWorkflowStep(exec *Executor, job string, step workflow.Step, verbose bool) *WorkflowStep {
	return &WorkflowStep{
		baseCheck: baseCheck{exec: exec},
		job:       job,
		step:      step,
		verbose:   verbose,
	}
}

// Name identifies the check as "job: step".
func (w *WorkflowStep) Name() string {
	return w.job + ": " + w.step.Name
}

// FilterFiles passes every file through: a verbatim step has no per-file
// notion of relevance.
func (w *WorkflowStep) FilterFiles(files []string) []string {
	return files
}

// Quick runs the same script as full mode; the step itself decides what to
// look at.
func (w *WorkflowStep) Quick(ctx context.Context, files []string) (Result, error) {
	return w.Full(ctx)
}

// Full executes the step script.
func (w *WorkflowStep) Full(ctx context.Context) (Result, error) {
	script := w.step.Run
	if w.verbose {
		script = RewriteScript(script)
	}
	return w.exec.Run(ctx, Spec{
		Script:  script,
		Env:     []string{"GITHUB_WORKSPACE=/tmp"},
		Capture: true,
	})
}

// RewriteScript applies the verbose-mode textual rewrites, leaving every
// other line unmodified.
func RewriteScript(script string) string {
	script = strings.ReplaceAll(script, "set -eux", "set -eu")
	return timePrefix.ReplaceAllString(script, "")
}
