package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"trcconv/internal/report"
	"trcconv/internal/selection"
)

// newSelectCommand picks one recording per patient from Files_Info.csv.
func newSelectCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		dayFlag      int
		minHoursFlag float64
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pick one recording per patient from the metadata report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.logger()
			if err != nil {
				return err
			}

			reportPath := filepath.Join(cfg.Paths.OutputDir, report.FilesInfoFile)
			if _, err := os.Stat(reportPath); err != nil {
				return fmt.Errorf("no metadata report at %s; run `trcconv report` first", reportPath)
			}
			entries, err := report.LoadCSV(reportPath)
			if err != nil {
				return err
			}

			criteria := selection.Criteria{
				TargetDay:        cfg.Selection.Day,
				MinDurationHours: cfg.Selection.MinDurationHours,
			}
			if cmd.Flags().Changed("day") {
				criteria.TargetDay = dayFlag
			}
			if cmd.Flags().Changed("min-hours") {
				criteria.MinDurationHours = minHoursFlag
			}
			if criteria.TargetDay < 0 || criteria.MinDurationHours < 0 {
				return fmt.Errorf("selection criteria must not be negative")
			}

			picked := selection.Pick(entries, criteria, logger)

			selectedPath := filepath.Join(cfg.Paths.OutputDir, selection.SelectedFile)
			if err := report.WriteCSV(selectedPath, picked); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(picked) == 0 {
				fmt.Fprintln(out, "No recordings matched the selection criteria")
			} else {
				fmt.Fprintln(out, renderTable(reportHeaders(), reportRows(picked), reportAligns()))
			}
			fmt.Fprintf(out, "Selection written to %s\n", selectedPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&dayFlag, "day", 0, "Preferred monitoring day index (default from config)")
	cmd.Flags().Float64Var(&minHoursFlag, "min-hours", 0, "Minimum recording length in hours (default from config)")
	return cmd
}
