// Package batch orchestrates one full pipeline pass: discovery,
// validation, and conversion. The pass is strictly sequential; the only
// shared state between files is the catalog artifacts and the journal.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gofrs/flock"

	"trcconv/internal/catalog"
	"trcconv/internal/config"
	"trcconv/internal/convert"
	"trcconv/internal/discovery"
	"trcconv/internal/journal"
	"trcconv/internal/sigio"
	"trcconv/internal/validate"
)

// ErrAlreadyRunning indicates another batch holds the output-root lock.
var ErrAlreadyRunning = errors.New("another trcconv batch is already running against this output directory")

// Summary aggregates one finished batch run.
type Summary struct {
	RunID      string
	Discovered int
	Accepted   int
	Rejected   int
	Unreadable int
	Converted  int
	Skipped    int
	Failed     int
	Resumed    bool
	Failures   []convert.Result
}

// Driver runs the pipeline.
type Driver struct {
	cfg     *config.Config
	toolbox sigio.Toolbox
	store   *journal.Store
	logger  *slog.Logger
}

// New constructs a driver. store may be nil, in which case no run history
// is kept.
func New(cfg *config.Config, toolbox sigio.Toolbox, store *journal.Store, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		cfg:     cfg,
		toolbox: toolbox,
		store:   store,
		logger:  logger.With("component", "batch"),
	}
}

// Run executes discovery, validation, and conversion. Per-file failures
// never abort the pass; they are aggregated into the failure artifact and
// the returned summary. Only setup errors (missing source root, lock
// contention, artifact persistence) are fatal.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	if err := d.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(d.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			d.logger.Warn("release batch lock", "error", unlockErr)
		}
	}()

	files, err := discovery.Discover(d.cfg.Paths.SourceDir, d.cfg.Pipeline.SourceExtension)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	d.logger.Info("discovery complete",
		"source", d.cfg.Paths.SourceDir,
		"extension", d.cfg.Pipeline.SourceExtension,
		"files", len(files),
	)

	runID := d.beginJournalRun(ctx)

	cat := catalog.New(d.cfg.Paths.OutputDir)
	validator := validate.New(d.toolbox, cat, d.cfg.Pipeline.MinSamplingRate, d.cfg.Pipeline.ProgressInterval, d.logger)
	partition, err := validator.Run(ctx, files)
	if err != nil {
		return nil, err
	}
	if !partition.Resumed {
		for _, path := range partition.Rejected {
			d.recordJournalEvent(ctx, runID, path, journal.OutcomeRejectedRate, "")
		}
		for _, path := range partition.Unreadable {
			d.recordJournalEvent(ctx, runID, path, journal.OutcomeUnreadable, "")
		}
	}

	summary := &Summary{
		RunID:      runID,
		Discovered: len(files),
		Accepted:   len(partition.Accepted),
		Rejected:   len(partition.Rejected),
		Unreadable: len(partition.Unreadable),
		Resumed:    partition.Resumed,
	}

	worker := convert.NewWorker(d.toolbox, d.cfg.Paths.OutputDir, d.cfg.TargetExtension(), d.cfg.Pipeline.MinSamplingRate, d.logger)
	total := len(partition.Accepted)
	for i, source := range partition.Accepted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := worker.Convert(ctx, source)
		switch result.Outcome {
		case convert.Converted:
			summary.Converted++
			d.recordJournalEvent(ctx, runID, source, journal.OutcomeConverted, "")
		case convert.SkippedExisting:
			summary.Skipped++
			d.recordJournalEvent(ctx, runID, source, journal.OutcomeSkippedExists, "")
		case convert.SkippedLowRate:
			summary.Skipped++
			d.recordJournalEvent(ctx, runID, source, journal.OutcomeSkippedRate, "")
		case convert.Failed:
			summary.Failed++
			summary.Failures = append(summary.Failures, result)
			d.recordJournalEvent(ctx, runID, source, journal.OutcomeFailed, result.Reason)
		}

		if every := d.cfg.Pipeline.ProgressInterval; every > 0 && (i+1)%every == 0 {
			d.logger.Info("conversion progress",
				"processed", i+1,
				"total", total,
				"percent", fmt.Sprintf("%.1f", float64(i+1)/float64(total)*100),
			)
		}
	}

	failedSources := make([]string, 0, len(summary.Failures))
	for _, failure := range summary.Failures {
		failedSources = append(failedSources, failure.Source)
	}
	if err := cat.FailedConversions.Write(failedSources); err != nil {
		return nil, fmt.Errorf("persist failure artifact: %w", err)
	}

	d.finishJournalRun(ctx, runID, summary)

	d.logger.Info("batch complete",
		"discovered", summary.Discovered,
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
		"unreadable", summary.Unreadable,
		"converted", summary.Converted,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// Journal trouble must never change batch outcome; every journal helper
// logs and carries on.

func (d *Driver) beginJournalRun(ctx context.Context) string {
	if d.store == nil {
		return ""
	}
	run, err := d.store.BeginRun(ctx, d.cfg.Paths.SourceDir, d.cfg.Paths.OutputDir, d.cfg.Pipeline.TargetFormat)
	if err != nil {
		d.logger.Warn("journal begin run", "error", err)
		return ""
	}
	return run.ID
}

func (d *Driver) recordJournalEvent(ctx context.Context, runID, path string, outcome journal.Outcome, reason string) {
	if d.store == nil || runID == "" {
		return
	}
	if err := d.store.RecordEvent(ctx, runID, path, outcome, reason); err != nil {
		d.logger.Warn("journal record event", "error", err)
	}
}

func (d *Driver) finishJournalRun(ctx context.Context, runID string, summary *Summary) {
	if d.store == nil || runID == "" {
		return
	}
	counts := journal.Counts{
		Discovered:   summary.Discovered,
		Accepted:     summary.Accepted,
		RejectedRate: summary.Rejected,
		Unreadable:   summary.Unreadable,
		Converted:    summary.Converted,
		Skipped:      summary.Skipped,
		Failed:       summary.Failed,
	}
	if err := d.store.FinishRun(ctx, runID, counts); err != nil {
		d.logger.Warn("journal finish run", "error", err)
	}
}
