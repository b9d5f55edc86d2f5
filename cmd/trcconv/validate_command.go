package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"trcconv/internal/catalog"
	"trcconv/internal/discovery"
	"trcconv/internal/validate"
)

// newValidateCommand classifies recordings and writes the validation
// artifacts without converting anything.
func newValidateCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Classify recordings by sampling rate without converting",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			files, err := discovery.Discover(cfg.Paths.SourceDir, cfg.Pipeline.SourceExtension)
			if err != nil {
				return err
			}
			sort.Strings(files)

			cat := catalog.New(cfg.Paths.OutputDir)
			validator := validate.New(toolbox, cat, cfg.Pipeline.MinSamplingRate, cfg.Pipeline.ProgressInterval, logger)
			result, err := validator.Run(ctx, files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Discovered", "Accepted", "Rejected", "Unreadable"},
				[][]string{{
					strconv.Itoa(len(files)),
					strconv.Itoa(len(result.Accepted)),
					strconv.Itoa(len(result.Rejected)),
					strconv.Itoa(len(result.Unreadable)),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))
			if result.Resumed {
				fmt.Fprintln(out, "Validation resumed from existing artifacts")
			}
			fmt.Fprintf(out, "Artifacts written to %s\n", cfg.Paths.OutputDir)
			return nil
		},
	}
}
