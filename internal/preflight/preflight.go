// Package preflight verifies the environment before a batch run starts.
// Failed checks are fatal to the run; nothing here is retried.
package preflight

import (
	"fmt"
	"strings"

	"trcconv/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckSourceDir(cfg.Paths.SourceDir),
		CheckOutputDir(cfg.Paths.OutputDir),
		CheckFreeSpace(cfg.Paths.OutputDir, cfg.Preflight.MinFreeSpaceGiB),
		CheckToolbox(cfg.Neurotool.Binary),
	}
}

// Failures filters results down to the failed checks.
func Failures(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Summarize renders failed checks as a single error message.
func Summarize(failed []Result) error {
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, result := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}
