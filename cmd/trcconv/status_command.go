package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"trcconv/internal/journal"
)

// newStatusCommand shows recent batch runs from the journal.
func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			store, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No batch runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID[:8],
					run.StartedAt.Local().Format(time.DateTime),
					runState(run),
					run.TargetFormat,
					strconv.Itoa(run.Counts.Discovered),
					strconv.Itoa(run.Counts.Converted),
					strconv.Itoa(run.Counts.Skipped),
					strconv.Itoa(run.Counts.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "State", "Format", "Discovered", "Converted", "Skipped", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "Maximum number of runs to show")
	return cmd
}

func runState(run journal.Run) string {
	if run.FinishedAt == nil {
		return "running"
	}
	return "finished " + run.FinishedAt.Local().Format(time.DateTime)
}
