package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllFullModeRunsEveryCheckOnce(t *testing.T) {
	checks := []*fakeCheck{
		{name: "a", fullResult: PassedResult()},
		{name: "b", fullResult: PassedResult()},
		{name: "c", fullResult: PassedResult()},
	}
	orch := NewOrchestrator(NewExecutor(t.TempDir()), nil)

	report, err := orch.RunAll(context.Background(), asChecks(checks), FullRequest())
	require.NoError(t, err)

	assert.True(t, report.Passed)
	require.Len(t, report.Outcomes, 3)
	for _, c := range checks {
		assert.Equal(t, 1, c.fullCalls)
	}
	// Outcomes keep the declared check order regardless of completion order.
	assert.Equal(t, "a", report.Outcomes[0].Name)
	assert.Equal(t, "b", report.Outcomes[1].Name)
	assert.Equal(t, "c", report.Outcomes[2].Name)
}

func TestRunAllQuickModeRoutesFilesByFilter(t *testing.T) {
	py := &fakeCheck{name: "python", extensions: []string{".py"}, quickResult: PassedResult()}
	sh := &fakeCheck{name: "shell", extensions: []string{".sh"}, quickResult: PassedResult()}
	cpp := &fakeCheck{name: "native", extensions: []string{".cpp"}, quickResult: PassedResult()}
	orch := NewOrchestrator(NewExecutor(t.TempDir()), nil)

	report, err := orch.RunAll(context.Background(), asChecks([]*fakeCheck{py, sh, cpp}), QuickRequest([]string{"a.py", "b.sh"}))
	require.NoError(t, err)

	assert.True(t, report.Passed)
	require.Len(t, py.quickFiles, 1)
	assert.Equal(t, []string{"a.py"}, py.quickFiles[0])
	require.Len(t, sh.quickFiles, 1)
	assert.Equal(t, []string{"b.sh"}, sh.quickFiles[0])
	assert.Empty(t, cpp.quickFiles, "check with no relevant files passes vacuously")
	assert.True(t, report.Outcomes[2].Passed)
}

func TestRunAllOneFailureFailsReportButRunsSiblings(t *testing.T) {
	checks := []*fakeCheck{
		{name: "ok", fullResult: PassedResult()},
		{name: "bad", fullResult: Result{Passed: false, Stdout: "problems"}},
		{name: "also-ok", fullResult: PassedResult()},
	}
	orch := NewOrchestrator(NewExecutor(t.TempDir()), nil)

	report, err := orch.RunAll(context.Background(), asChecks(checks), FullRequest())
	require.NoError(t, err, "a failed check is a result, not an error")

	assert.False(t, report.Passed)
	for _, c := range checks {
		assert.Equal(t, 1, c.fullCalls, "sibling checks must still run to completion")
	}
}

func TestRunAllFatalErrorAbortsRun(t *testing.T) {
	fatal := errors.New("workflow file unreadable")
	checks := []*fakeCheck{
		{name: "ok", fullResult: PassedResult()},
		{name: "broken", fullErr: fatal},
	}
	orch := NewOrchestrator(NewExecutor(t.TempDir()), nil)

	_, err := orch.RunAll(context.Background(), asChecks(checks), FullRequest())
	require.ErrorIs(t, err, fatal)
}

func TestRunAllEmptyQuickRequestPassesEverything(t *testing.T) {
	checks := []*fakeCheck{
		{name: "python", extensions: []string{".py"}},
		{name: "shell", extensions: []string{".sh"}},
	}
	orch := NewOrchestrator(NewExecutor(t.TempDir()), nil)

	report, err := orch.RunAll(context.Background(), asChecks(checks), QuickRequest(nil))
	require.NoError(t, err)

	assert.True(t, report.Passed)
	for _, c := range checks {
		assert.Empty(t, c.quickFiles)
		assert.Equal(t, 0, c.fullCalls)
	}
}

func TestNewOrchestratorRequiresExecutor(t *testing.T) {
	assert.Panics(t, func() { NewOrchestrator(nil, nil) })
}

func asChecks(fakes []*fakeCheck) []Check {
	checks := make([]Check, len(fakes))
	for i, f := range fakes {
		checks[i] = f
	}
	return checks
}
