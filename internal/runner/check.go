package runner

import (
	"context"
	"time"
)

// Mode selects between quick execution over a filtered file list and full
// execution over the whole repository.
type Mode int

const (
	// ModeFull runs a check against the entire repository.
	ModeFull Mode = iota
	// ModeQuick runs a check against a filtered changed-file list.
	ModeQuick
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	if m == ModeQuick {
		return "quick"
	}
	return "full"
}

// State tracks a check through its lifecycle. Checks are constructed once
// per orchestration run and hold no state between runs.
type State int

const (
	// StateIdle is the initial state before a check is driven.
	StateIdle State = iota
	// StateSettingUp covers the ordered/parallel setup phases.
	StateSettingUp
	// StateRunning covers the main quick or full operation.
	StateRunning
	// StateDone is terminal, reached on completion or setup failure.
	StateDone
)

// Check is one pluggable validation unit wrapping an external tool. The
// variant set is closed and known at build time; there is no plugin
// loading.
type Check interface {
	// Name identifies the check in reports.
	Name() string

	// FilterFiles narrows a candidate file list to the files this check
	// cares about.
	FilterFiles(files []string) []string

	// Setup returns the ordered pre-phases required before the main
	// operation is valid, or nil when the check has none.
	Setup() []SetupPhase

	// SetupForQuick reports whether quick mode also depends on the
	// generated artifacts the setup phases produce.
	SetupForQuick() bool

	// Quick runs the check on exactly the given relevant files.
	Quick(ctx context.Context, files []string) (Result, error)

	// Full runs the check against the whole repository.
	Full(ctx context.Context) (Result, error)
}

// Hinter is implemented by checks that print an extra diagnostic hint
// after a failure.
type Hinter interface {
	FailureHint() string
}

// ResultPrinter renders the outcome of a single check. Implementations
// must write each check's block atomically so concurrent checks cannot
// garble each other's output.
type ResultPrinter interface {
	PrintResult(name string, passed bool, streams []string)
	PrintHint(hint string)
}

// CheckOutcome is the terminal record of driving one check.
type CheckOutcome struct {
	Name     string
	Mode     Mode
	State    State
	Passed   bool
	Result   Result
	Duration time.Duration
}

// RunCheck drives a check through Idle, SettingUp, Running and Done.
//
// Quick mode filters the candidate files first; an empty relevant set
// short-circuits to a pass with no output, so a tool is never invoked
// with zero targets. Setup phases run when declared and required by the
// mode; any setup failure skips the main operation entirely and reports
// the accumulated setup output. Fatal errors (unresolvable executables)
// propagate instead of becoming failed outcomes.
func RunCheck(ctx context.Context, exec CommandRunner, check Check, req Request, printer ResultPrinter) (CheckOutcome, error) {
	outcome := CheckOutcome{Name: check.Name(), State: StateIdle, Mode: ModeFull}
	if req.FilesGiven {
		outcome.Mode = ModeQuick
	}
	start := time.Now()

	var relevant []string
	if outcome.Mode == ModeQuick {
		relevant = check.FilterFiles(req.Files)
		if len(relevant) == 0 {
			outcome.State = StateDone
			outcome.Passed = true
			outcome.Result = PassedResult()
			outcome.Duration = time.Since(start)
			report(printer, check, outcome)
			return outcome, nil
		}
	}

	setupResult := PassedResult()
	if phases := check.Setup(); len(phases) > 0 && (outcome.Mode == ModeFull || check.SetupForQuick()) {
		outcome.State = StateSettingUp
		var err error
		setupResult, err = runSetupPhases(ctx, exec, phases)
		if err != nil {
			return outcome, err
		}
		if !setupResult.Passed {
			outcome.State = StateDone
			outcome.Result = setupResult
			outcome.Duration = time.Since(start)
			report(printer, check, outcome)
			return outcome, nil
		}
	}

	outcome.State = StateRunning
	var result Result
	var err error
	if outcome.Mode == ModeQuick {
		result, err = check.Quick(ctx, relevant)
	} else {
		// Setup output stays part of the full-mode report.
		result, err = check.Full(ctx)
		result = setupResult.Combine(result)
	}
	if err != nil {
		return outcome, err
	}

	outcome.State = StateDone
	outcome.Passed = result.Passed
	outcome.Result = result
	outcome.Duration = time.Since(start)
	report(printer, check, outcome)
	return outcome, nil
}

func report(printer ResultPrinter, check Check, outcome CheckOutcome) {
	if printer == nil {
		return
	}

	var streams []string
	if !outcome.Passed {
		// stderr first: diagnostic tools put the actionable error there.
		streams = []string{outcome.Result.Stderr, outcome.Result.Stdout}
	}
	printer.PrintResult(outcome.Name, outcome.Passed, streams)

	if !outcome.Passed {
		if h, ok := check.(Hinter); ok {
			if hint := h.FailureHint(); hint != "" {
				printer.PrintHint(hint)
			}
		}
	}
}
