package runner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/calloway/checkmate/internal/fileutil"
)

// Mypy is the type check. Its data can depend on generated stubs, so it
// optionally declares one parallel setup group of three generators. The
// generators write to disjoint output locations and read only static
// inputs, which is what makes the group safe to run concurrently.
type Mypy struct {
	exec *Executor

	// GenerateStubs enables the stub-generation setup group.
	GenerateStubs bool

	// ForceColor sets the tool's color override when reporting to a TTY.
	ForceColor bool
}

// NewMypy builds the type check.
func NewMypy(exec *Executor, generateStubs bool) *Mypy {
	return &Mypy{exec: exec, GenerateStubs: generateStubs}
}

// Name identifies the check in reports.
func (m *Mypy) Name() string { return "mypy" }

// FilterFiles narrows files to Python sources and stub files.
func (m *Mypy) FilterFiles(files []string) []string {
	return Relevant(files, Rule{Extensions: []string{".py", ".pyi"}})
}

// Setup declares the stub generators as a single parallel group.
func (m *Mypy) Setup() []SetupPhase {
	if !m.GenerateStubs {
		return nil
	}
	return []SetupPhase{
		ParallelGroup(
			SetupStep{
				Label: "generate version metadata",
				Spec:  Spec{Args: []string{pythonBin, "-m", "tools.generate_version", "--is-debug=false"}},
			},
			SetupStep{
				Label: "generate native functions",
				Spec:  Spec{Args: []string{pythonBin, "-m", "tools.codegen.gen", "-s", "src/native", "-d", "build/src/native"}},
			},
			SetupStep{
				Label: "generate stubs",
				Spec: Spec{Args: []string{
					pythonBin, "-m", "tools.gen_stubs",
					"--native-functions-path", "src/native/native_functions.yaml",
					"--deprecated-functions-path", "tools/deprecated.yaml",
				}},
			},
		),
	}
}

// SetupForQuick is true: quick mode checks against the generated stubs.
func (m *Mypy) SetupForQuick() bool { return true }

func (m *Mypy) env() []string {
	if m.ForceColor {
		return []string{"MYPY_FORCE_COLOR=1"}
	}
	return nil
}

// Quick delegates to the wrapper script with the relevant files resolved
// to absolute paths.
func (m *Mypy) Quick(ctx context.Context, files []string) (Result, error) {
	args := []string{pythonBin, "tools/mypy_wrapper.py"}
	for _, f := range files {
		args = append(args, m.exec.Path(f))
	}
	return m.exec.Run(ctx, Spec{Args: args, Env: m.env(), Capture: true})
}

// Full discovers every mypy*.ini configuration profile at the repository
// root and runs one invocation per profile concurrently, combining the
// per-profile results into one aggregate.
func (m *Mypy) Full(ctx context.Context) (Result, error) {
	profiles, err := fileutil.Profiles(m.exec.Root, "mypy*.ini")
	if err != nil {
		return Result{}, fmt.Errorf("failed to discover mypy profiles: %w", err)
	}

	results := make([]Result, len(profiles))
	var g errgroup.Group
	for i, profile := range profiles {
		g.Go(func() error {
			result, err := m.exec.Run(ctx, Spec{
				Args:    []string{"mypy", "--config", profile},
				Env:     m.env(),
				Capture: true,
			})
			results[i] = result
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	combined := PassedResult()
	for _, r := range results {
		combined = combined.Combine(r)
	}
	return combined, nil
}

// FailureHint suggests regenerating stubs after a failure.
func (m *Mypy) FailureHint() string {
	return "mypy failed, you may need to run again with --generate-stubs"
}
