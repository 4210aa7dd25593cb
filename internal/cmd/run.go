package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/calloway/checkmate/internal/config"
	"github.com/calloway/checkmate/internal/display"
	"github.com/calloway/checkmate/internal/filelock"
	"github.com/calloway/checkmate/internal/gitfiles"
	"github.com/calloway/checkmate/internal/history"
	"github.com/calloway/checkmate/internal/lintconfig"
	"github.com/calloway/checkmate/internal/logger"
	"github.com/calloway/checkmate/internal/runner"
)

// stateDir holds the run lock, logs, and history database.
const stateDir = ".checkmate"

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the registered checks",
		Long: `Run every registered check concurrently.

By default checks run in full mode against the whole repository. With
--changed-only, the changed files are discovered from version control and
each check runs only on the subset it cares about; if the version-control
query fails, the run falls back to full mode.

Configuration is loaded from .checkmate/config.yaml if present. CLI flags
override configuration file settings.

Examples:
  checkmate run                       # Full scan
  checkmate run --changed-only        # Only changed files
  checkmate run --generate-stubs      # Regenerate type stubs first
  checkmate run --timeout 30m --verbose`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .checkmate/config.yaml)")
	cmd.Flags().Bool("changed-only", false, "Run only on files changed since the upstream branch")
	cmd.Flags().Bool("verbose", false, "Show detailed execution information")
	cmd.Flags().Bool("generate-stubs", false, "Run the stub generators before type checking")
	cmd.Flags().Bool("generate-build", false, "Regenerate the native build description before analysis")
	cmd.Flags().String("timeout", "", "Maximum execution time (e.g., 30m, 2h)")
	cmd.Flags().String("clang-tidy-exe", "", "Path to the clang-tidy binary")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}

	changedOnly, _ := cmd.Flags().GetBool("changed-only")
	verbose, _ := cmd.Flags().GetBool("verbose")
	generateStubs, _ := cmd.Flags().GetBool("generate-stubs")
	generateBuild, _ := cmd.Flags().GetBool("generate-build")

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve repository root: %w", err)
	}

	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}
	consoleLog := logger.NewConsoleLogger(os.Stdout, logLevel)

	runID := uuid.NewString()
	fileLog, err := logger.NewFileLogger(cfg.LogDir, runID, logLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()

	// Setup phases write generated artifacts; two concurrent runs would
	// race on them.
	lock, err := filelock.NewRunLock(stateDir)
	if err != nil {
		return err
	}
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	exec := runner.NewExecutor(root)
	exec.Logger = consoleLog

	flakeRule, err := lintconfig.Flake8Rule(exec.Path(cfg.FlakeConfig))
	if err != nil {
		return err
	}

	checks := []runner.Check{
		runner.NewFlake8(exec, cfg.FlakeConfig, flakeRule),
		newMypy(exec, generateStubs),
		runner.NewShellCheck(exec),
		runner.NewClangTidy(exec, cfg.ClangTidyExe, generateBuild),
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	req := runner.FullRequest()
	if changedOnly {
		provider := gitfiles.NewProvider(exec, cfg.Upstream)
		if files, ok := provider.Changed(ctx); ok {
			req = runner.QuickRequest(files)
			consoleLog.LogDebug(fmt.Sprintf("Discovered %d changed file(s)", len(files)))
		}
	}

	printer := display.NewPrinter(os.Stdout)
	orch := runner.NewOrchestrator(exec, printer)

	report, err := orch.RunAll(ctx, checks, req)
	if err != nil {
		return err
	}

	fileLog.LogInfo(fmt.Sprintf("Run %s finished in %s, passed=%t", runID, report.Duration.Round(time.Millisecond), report.Passed))

	recordHistory(cmd.Context(), cfg, consoleLog, runID, report)

	if !report.Passed {
		failed := 0
		for _, outcome := range report.Outcomes {
			if !outcome.Passed {
				failed++
			}
		}
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

// newMypy wires TTY detection into the type check's color override.
func newMypy(exec *runner.Executor, generateStubs bool) *runner.Mypy {
	m := runner.NewMypy(exec, generateStubs)
	m.ForceColor = display.StdoutIsTerminal()
	return m
}

// recordHistory persists outcomes; storage failures are logged and
// ignored so they never fail a run.
func recordHistory(ctx context.Context, cfg *config.Config, log *logger.ConsoleLogger, runID string, report runner.Report) {
	if !cfg.History.Enabled {
		return
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("history disabled: %v", err))
		return
	}
	defer store.Close()

	if err := store.RecordReport(ctx, runID, report); err != nil {
		log.LogWarn(fmt.Sprintf("failed to record run history: %v", err))
	}
}

// loadMergedConfig loads the config file and applies flag overrides.
func loadMergedConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var timeoutPtr *time.Duration
	if cmd.Flags().Changed("timeout") {
		timeoutStr, _ := cmd.Flags().GetString("timeout")
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", timeoutStr, err)
		}
		timeoutPtr = &timeout
	}

	var clangTidyPtr *string
	if cmd.Flags().Changed("clang-tidy-exe") {
		exe, _ := cmd.Flags().GetString("clang-tidy-exe")
		clangTidyPtr = &exe
	}

	cfg.MergeWithFlags(timeoutPtr, nil, nil, clangTidyPtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
