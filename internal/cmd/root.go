package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for checkmate
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkmate",
		Short: "Incremental concurrent check runner",
		Long: `Checkmate runs a repository's validation tools (linters, type checkers,
static analyzers) concurrently, either over the whole repository or only
over the files that changed since the upstream branch.

Checks that need generated artifacts run their setup steps first, with
real dependency ordering; independent setup steps run in parallel.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewStepCommand())
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
