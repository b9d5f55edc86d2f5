package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"trcconv/internal/batch"
	"trcconv/internal/config"
	"trcconv/internal/preflight"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		sourceFlag  string
		outputFlag  string
		extFlag     string
		formatFlag  string
		minRateFlag float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover, validate, and convert recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunOverrides(cfg, sourceFlag, outputFlag, extFlag, formatFlag, minRateFlag); err != nil {
				return err
			}

			if failed := preflight.Failures(preflight.RunAll(cfg)); len(failed) > 0 {
				return preflight.Summarize(failed)
			}

			logger, err := cmdCtx.logger()
			if err != nil {
				return err
			}
			toolbox, err := cmdCtx.toolbox()
			if err != nil {
				return err
			}
			store := cmdCtx.openJournal(logger)
			if store != nil {
				defer store.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := batch.New(cfg, toolbox, store, logger).Run(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Discovered", "Accepted", "Rejected", "Unreadable", "Converted", "Skipped", "Failed"},
				[][]string{{
					strconv.Itoa(summary.Discovered),
					strconv.Itoa(summary.Accepted),
					strconv.Itoa(summary.Rejected),
					strconv.Itoa(summary.Unreadable),
					strconv.Itoa(summary.Converted),
					strconv.Itoa(summary.Skipped),
					strconv.Itoa(summary.Failed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			if summary.Resumed {
				fmt.Fprintln(out, "Validation resumed from existing artifacts")
			}
			for _, failure := range summary.Failures {
				fmt.Fprintf(out, "failed: %s (%s)\n", failure.Source, failure.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Directory to search for recordings")
	cmd.Flags().StringVar(&outputFlag, "output", "", "Directory for converted files and artifacts")
	cmd.Flags().StringVar(&extFlag, "ext", "", "Source file extension (default from config)")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Target container: edf or brainvision")
	cmd.Flags().Float64Var(&minRateFlag, "min-rate", 0, "Sampling-rate floor in Hz (default from config)")
	return cmd
}

func applyRunOverrides(cfg *config.Config, source, output, ext, format string, minRate float64) error {
	if source != "" {
		expanded, err := config.ExpandPath(source)
		if err != nil {
			return err
		}
		cfg.Paths.SourceDir = expanded
	}
	if output != "" {
		expanded, err := config.ExpandPath(output)
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = expanded
	}
	if ext != "" {
		cfg.Pipeline.SourceExtension = ext
	}
	if format != "" {
		cfg.Pipeline.TargetFormat = format
	}
	if minRate > 0 {
		cfg.Pipeline.MinSamplingRate = minRate
	}
	return cfg.Validate()
}
