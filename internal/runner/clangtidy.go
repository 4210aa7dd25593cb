package runner

import (
	"context"
)

// ClangTidy is the native-code static-analysis check. Its setup phases are
// strictly sequential: submodule sync, build-description generation under
// a pinned toolchain, then two chained codegen steps where the second
// consumes an artifact of the first. Unlike the type check's generator
// trio, none of these may be parallelized.
type ClangTidy struct {
	exec *Executor

	// Exe is the tool binary to use, typically a custom build.
	Exe string

	// GenerateBuild enables the build-generation setup phases.
	GenerateBuild bool
}

// NewClangTidy builds the native analysis check.
func NewClangTidy(exec *Executor, exe string, generateBuild bool) *ClangTidy {
	if exe == "" {
		exe = "clang-tidy"
	}
	return &ClangTidy{exec: exec, Exe: exe, GenerateBuild: generateBuild}
}

// Name identifies the check in reports.
func (c *ClangTidy) Name() string { return "clang-tidy" }

// FilterFiles narrows files to C and C++ sources.
func (c *ClangTidy) FilterFiles(files []string) []string {
	return Relevant(files, Rule{Extensions: []string{".c", ".cc", ".cpp"}})
}

// Setup declares the sequential build-generation phases. The environment
// overlay disables the collective-comms backend, enables the deploy
// backend, and pins the compiler identity; it is scoped to the generation
// step rather than the whole process so concurrent checks cannot observe
// it.
func (c *ClangTidy) Setup() []SetupPhase {
	if !c.GenerateBuild {
		return nil
	}
	return []SetupPhase{
		Sequential(SetupStep{
			Label: "update submodules",
			Spec:  Spec{Args: []string{"git", "submodule", "update", "--init", "--recursive"}},
		}),
		Sequential(SetupStep{
			Label: "generate build",
			Spec: Spec{
				Args: []string{pythonBin, "setup.py", "--cmake-only", "build"},
				Env:  []string{"USE_NCCL=0", "USE_DEPLOY=1", "CC=clang", "CXX=clang++"},
			},
		}),
		Sequential(SetupStep{
			Label: "generate native functions",
			Spec:  Spec{Args: []string{pythonBin, "-m", "tools.codegen.gen", "-s", "src/native", "-d", "build/src/native"}},
		}),
		Sequential(SetupStep{
			// Consumes the declarations artifact of the previous step.
			Label: "generate bindings",
			Spec: Spec{Args: []string{
				pythonBin, "tools/generate_code.py",
				"--declarations-path", "build/src/native/declarations.yaml",
				"--native-functions-path", "src/native/native_functions.yaml",
			}},
		}),
	}
}

// SetupForQuick is true: the tool needs the generated compile commands in
// both modes.
func (c *ClangTidy) SetupForQuick() bool { return true }

// Quick runs the tool driver over exactly the relevant files.
func (c *ClangTidy) Quick(ctx context.Context, files []string) (Result, error) {
	args := []string{pythonBin, "-m", "tools.clang_tidy", "--paths"}
	for _, f := range files {
		args = append(args, c.exec.Path(f))
	}
	args = append(args, "--clang-tidy-exe", c.Exe)
	return c.exec.Run(ctx, Spec{Args: args, Capture: true})
}

// Full scans the whole repository with live output.
func (c *ClangTidy) Full(ctx context.Context) (Result, error) {
	return c.exec.Run(ctx, Spec{
		Args:    []string{pythonBin, "-m", "tools.clang_tidy", "--clang-tidy-exe", c.Exe},
		Capture: false,
	})
}
