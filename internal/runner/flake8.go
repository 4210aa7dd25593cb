package runner

import (
	"context"
)

// pythonBin is the interpreter used for repository tooling invocations.
const pythonBin = "python3"

// baseCheck supplies the no-setup defaults shared by variants without a
// generation phase.
type baseCheck struct {
	exec *Executor
}

func (b baseCheck) Setup() []SetupPhase { return nil }
func (b baseCheck) SetupForQuick() bool { return false }

// Flake8 is the style check: it filters to Python sources, honoring the
// exclude rules declared in the tool's own config file, and batches the
// relevant paths into a single invocation. Full mode passes no file
// arguments so the tool falls back to its own whole-repository default.
type Flake8 struct {
	baseCheck
	rule       Rule
	configPath string
}

// NewFlake8 builds the style check. The rule carries exclude patterns
// sourced from configPath, typically via lintconfig.
func NewFlake8(exec *Executor, configPath string, rule Rule) *Flake8 {
	rule.Extensions = []string{".py"}
	return &Flake8{
		baseCheck:  baseCheck{exec: exec},
		rule:       rule,
		configPath: configPath,
	}
}

// Name identifies the check in reports.
func (f *Flake8) Name() string { return "flake8" }

// FilterFiles narrows files to non-excluded Python sources.
func (f *Flake8) FilterFiles(files []string) []string {
	return Relevant(files, f.rule)
}

func (f *Flake8) command(files []string) Spec {
	args := []string{"flake8", "--config", f.configPath}
	return Spec{Args: append(args, files...), Capture: true}
}

// Quick runs one invocation over exactly the relevant files.
func (f *Flake8) Quick(ctx context.Context, files []string) (Result, error) {
	return f.exec.Run(ctx, f.command(files))
}

// Full runs the tool with no file arguments.
func (f *Flake8) Full(ctx context.Context) (Result, error) {
	return f.exec.Run(ctx, f.command(nil))
}
