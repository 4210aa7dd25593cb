package runner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Request selects the orchestration mode. FilesGiven false means full
// mode on everything; FilesGiven true with an empty Files slice means
// quick mode where no files are relevant to any check, so every check
// trivially passes.
type Request struct {
	Files      []string
	FilesGiven bool
}

// QuickRequest builds a quick-mode request for the given changed files.
func QuickRequest(files []string) Request {
	return Request{Files: files, FilesGiven: true}
}

// FullRequest builds a full-repository request.
func FullRequest() Request {
	return Request{}
}

// Report aggregates the outcomes of one orchestration run. Passed is the
// logical AND across every executed check.
type Report struct {
	Passed   bool
	Outcomes []CheckOutcome
	Duration time.Duration
}

// Orchestrator runs a set of checks concurrently and aggregates their
// outcomes. Checks are side-effect-independent by design, so no ordering
// is guaranteed or required between them; ordering only exists inside each
// check's own setup phases.
type Orchestrator struct {
	exec    CommandRunner
	printer ResultPrinter
}

// NewOrchestrator creates an Orchestrator. The printer can be nil to
// suppress per-check reporting.
func NewOrchestrator(exec CommandRunner, printer ResultPrinter) *Orchestrator {
	if exec == nil {
		panic("orchestrator requires a command runner")
	}
	return &Orchestrator{exec: exec, printer: printer}
}

// RunAll launches every check concurrently, routed to quick or full mode
// by the request, and waits for all of them. Check-level failures are
// collected into the report while sibling checks run to completion; a
// fatal configuration error (missing executable, unusable inputs) cancels
// the remaining checks and aborts the run.
func (o *Orchestrator) RunAll(ctx context.Context, checks []Check, req Request) (Report, error) {
	start := time.Now()
	outcomes := make([]CheckOutcome, len(checks))

	g, ctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			outcome, err := RunCheck(ctx, o.exec, check, req, o.printer)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Passed: true, Outcomes: outcomes, Duration: time.Since(start)}
	for _, outcome := range outcomes {
		if !outcome.Passed {
			report.Passed = false
		}
	}
	return report, nil
}
