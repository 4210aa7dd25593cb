// Package runner implements the check orchestration engine: a polymorphic
// Check contract over external validation tools, a command executor that
// spawns and captures those tools, and an orchestrator that runs every
// registered check concurrently in either quick (changed files) or full
// (whole repository) mode.
package runner

// Result is the outcome of one or more external command invocations.
// Results are value types; callers combine them rather than mutating.
type Result struct {
	Passed bool
	Stdout string
	Stderr string
}

// PassedResult is the identity element for Combine.
func PassedResult() Result {
	return Result{Passed: true}
}

// Combine merges two results: the pass flags AND together and the output
// streams concatenate. An empty side is dropped so a command with no output
// on one stream never contributes a stray blank line.
func (r Result) Combine(other Result) Result {
	return Result{
		Passed: r.Passed && other.Passed,
		Stdout: combineStreams(r.Stdout, other.Stdout),
		Stderr: combineStreams(r.Stderr, other.Stderr),
	}
}

func combineStreams(a, b string) string {
	switch {
	case a == "" && b == "":
		return ""
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n" + b
}
