package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calloway/checkmate/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded check outcomes",
		Long: `Show aggregate pass rates and durations for past runs, as recorded in
the history database after each run.`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .checkmate/config.yaml)")

	return cmd
}

// historyCommand implements the history command logic
func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%-16s %6s %6s %10s %s\n", "CHECK", "RUNS", "PASS", "AVG", "LAST RUN")
	for _, cs := range stats {
		lastRun := ""
		if !cs.LastRun.IsZero() {
			lastRun = cs.LastRun.Format(time.DateTime)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %6d %6d %10s %s\n",
			cs.CheckName, cs.Runs, cs.Passes, cs.AvgDuration.Round(time.Millisecond), lastRun)
	}
	return nil
}
