package runner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SetupStep is one labeled pre-step a check needs before its main
// operation is valid, such as artifact generation or dependency sync.
type SetupStep struct {
	Label string
	Spec  Spec
}

// SetupPhase groups setup steps by concurrency class. A single-step phase
// is sequential: it must complete successfully before the next phase
// starts. A multi-step phase is a parallel group: members run concurrently
// with no interdependency and the phase joins at a barrier, waiting for
// every member even when one fails.
type SetupPhase struct {
	Steps []SetupStep
}

// Sequential wraps a single step in its own phase.
func Sequential(step SetupStep) SetupPhase {
	return SetupPhase{Steps: []SetupStep{step}}
}

// ParallelGroup batches independent steps into one concurrently-run phase.
func ParallelGroup(steps ...SetupStep) SetupPhase {
	return SetupPhase{Steps: steps}
}

// runSetupPhases executes phases in declared order, accumulating output.
// A failing phase short-circuits the remaining phases; the combined result
// carries everything produced up to and including the failure. Fatal
// executor errors (missing executables) abort immediately.
func runSetupPhases(ctx context.Context, exec CommandRunner, phases []SetupPhase) (Result, error) {
	combined := PassedResult()

	for _, phase := range phases {
		var phaseResult Result
		var err error
		if len(phase.Steps) == 1 {
			phaseResult, err = exec.Run(ctx, captured(phase.Steps[0].Spec))
		} else {
			phaseResult, err = runParallelGroup(ctx, exec, phase.Steps)
		}
		if err != nil {
			return combined, err
		}

		combined = combined.Combine(phaseResult)
		if !combined.Passed {
			return combined, nil
		}
	}

	return combined, nil
}

// runParallelGroup runs every member step concurrently and waits for all
// of them before reporting. The group deliberately does not cancel
// siblings on failure: a half-finished generation step must still drain so
// nothing is left orphaned before the failure is reported.
func runParallelGroup(ctx context.Context, exec CommandRunner, steps []SetupStep) (Result, error) {
	results := make([]Result, len(steps))

	var g errgroup.Group
	for i, step := range steps {
		g.Go(func() error {
			result, err := exec.Run(ctx, captured(step.Spec))
			results[i] = result
			return err
		})
	}

	err := g.Wait()

	combined := PassedResult()
	for _, r := range results {
		combined = combined.Combine(r)
	}
	if err != nil {
		return combined, err
	}
	return combined, nil
}

// captured forces output capture on setup specs so a multi-step setup
// reports as one outcome.
func captured(spec Spec) Spec {
	spec.Capture = true
	return spec
}
