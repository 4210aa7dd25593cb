package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calloway/checkmate/internal/display"
	"github.com/calloway/checkmate/internal/runner"
	"github.com/calloway/checkmate/internal/workflow"
)

// NewStepCommand creates the step command
func NewStepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Run named steps from the CI pipeline definition",
		Long: `Pull one or more named steps out of a CI pipeline definition and run
their shell scripts locally, concurrently.

A step name that is not present in the job is a fatal error, not a failed
check. With --verbose, scripts are rewritten to behave better
interactively: the strict-shell flag is relaxed and timing wrappers are
stripped.

Examples:
  checkmate step --job quick-checks --step "Ensure no trailing spaces"
  checkmate step --job quick-checks --step "Lint YAML" --step "Lint docs" --verbose`,
		Args: cobra.NoArgs,
		RunE: stepCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .checkmate/config.yaml)")
	cmd.Flags().String("file", "", "Pipeline definition file (default from config)")
	cmd.Flags().String("job", "", "Job name to pull steps from")
	cmd.Flags().StringArray("step", nil, "Step name to run (repeatable, runs in order given)")
	cmd.Flags().Bool("verbose", false, "Rewrite scripts for interactive use")

	cobra.CheckErr(cmd.MarkFlagRequired("job"))
	cobra.CheckErr(cmd.MarkFlagRequired("step"))

	return cmd
}

// stepCommand implements the step command logic
func stepCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}

	job, _ := cmd.Flags().GetString("job")
	names, _ := cmd.Flags().GetStringArray("step")
	verbose, _ := cmd.Flags().GetBool("verbose")

	workflowFile := cfg.WorkflowFile
	if cmd.Flags().Changed("file") {
		workflowFile, _ = cmd.Flags().GetString("file")
	}

	pipeline, err := workflow.Load(workflowFile)
	if err != nil {
		return err
	}
	steps, err := pipeline.GrabSteps(job, names)
	if err != nil {
		return err
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve repository root: %w", err)
	}
	exec := runner.NewExecutor(root)

	checks := make([]runner.Check, 0, len(steps))
	for _, step := range steps {
		checks = append(checks, runner.NewWorkflowStep(exec, job, step, verbose))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	printer := display.NewPrinter(os.Stdout)
	orch := runner.NewOrchestrator(exec, printer)

	report, err := orch.RunAll(ctx, checks, runner.FullRequest())
	if err != nil {
		return err
	}
	if !report.Passed {
		return fmt.Errorf("step(s) failed")
	}
	return nil
}
