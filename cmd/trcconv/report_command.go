package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trcconv/internal/catalog"
	"trcconv/internal/report"
)

// newReportCommand builds Files_Info.csv from the accepted-file artifact.
func newReportCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize accepted recordings (rate, channels, duration, day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.logger()
			if err != nil {
				return err
			}
			toolbox, err := cmdCtx.toolbox()
			if err != nil {
				return err
			}

			cat := catalog.New(cfg.Paths.OutputDir)
			if !cat.Accepted.Exists() {
				return fmt.Errorf("no accepted-file artifact in %s; run `trcconv validate` or `trcconv run` first", cfg.Paths.OutputDir)
			}
			accepted, err := cat.Accepted.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			entries, err := report.Build(ctx, toolbox, accepted, logger)
			if err != nil {
				return err
			}

			reportPath := filepath.Join(cfg.Paths.OutputDir, report.FilesInfoFile)
			if err := report.WriteCSV(reportPath, entries); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(reportHeaders(), reportRows(entries), reportAligns()))
			fmt.Fprintf(out, "Report written to %s\n", reportPath)
			return nil
		},
	}
}

func reportHeaders() []string {
	return []string{"Patient", "File", "Recorded", "Rate (Hz)", "Duration (h)", "Channels", "Day"}
}

func reportAligns() []columnAlignment {
	return []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}
}

func reportRows(entries []report.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.PatientName(),
			entry.Name,
			entry.RecordedAt.UTC().Format(time.DateTime),
			strconv.FormatFloat(entry.SamplingRate, 'f', -1, 64),
			strconv.FormatFloat(entry.DurationHours, 'f', 2, 64),
			strconv.Itoa(entry.ChannelCount),
			strconv.Itoa(entry.Day),
		})
	}
	return rows
}
