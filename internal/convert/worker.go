// Package convert turns one accepted recording into a target container
// under a mirrored, sanitized output path.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"trcconv/internal/labels"
	"trcconv/internal/sanitize"
	"trcconv/internal/sigio"
)

// Worker converts accepted recordings one at a time.
type Worker struct {
	toolbox   sigio.Toolbox
	outputDir string
	targetExt string
	minRate   float64
	logger    *slog.Logger
}

// NewWorker constructs a conversion worker writing targetExt containers
// under outputDir.
func NewWorker(toolbox sigio.Toolbox, outputDir, targetExt string, minRate float64, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		toolbox:   toolbox,
		outputDir: outputDir,
		targetExt: targetExt,
		minRate:   minRate,
		logger:    logger.With("component", "convert"),
	}
}

// TargetPath derives the mirrored output location for a source recording:
// <outputDir>/<grandparent>/<parent>/<sanitized>.<ext>.
func (w *Worker) TargetPath(source string) (string, error) {
	identifier, err := sanitize.Identifier(source)
	if err != nil {
		return "", err
	}
	parent := filepath.Base(filepath.Dir(source))
	grandparent := filepath.Base(filepath.Dir(filepath.Dir(source)))
	for _, segment := range []string{parent, grandparent} {
		switch segment {
		case "", ".", string(filepath.Separator):
			return "", sanitize.ErrPathStructure
		}
	}
	return filepath.Join(w.outputDir, grandparent, parent, identifier+w.targetExt), nil
}

// Convert runs one conversion attempt. The target is written atomically: a
// partial file is renamed into place only after the toolbox finishes, so a
// rerun never mistakes an interrupted write for a completed conversion.
func (w *Worker) Convert(ctx context.Context, source string) Result {
	target, err := w.TargetPath(source)
	if err != nil {
		return w.failure(source, "", "derive output path", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return w.failure(source, target, "create output directory", err)
	}

	if _, err := os.Stat(target); err == nil {
		w.logger.Debug("target exists, skipping", "file", source, "target", target)
		return Result{Source: source, Target: target, Outcome: SkippedExisting}
	}

	// Defensive re-check: the accepted set may be stale relative to a
	// resumed run.
	header, err := w.toolbox.ReadHeader(ctx, source)
	if err != nil {
		return w.failure(source, target, "re-read header", err)
	}
	if header.SamplingRate < w.minRate {
		w.logger.Debug("sampling rate below floor on re-check, skipping",
			"file", source, "rate_hz", header.SamplingRate)
		return Result{Source: source, Target: target, Outcome: SkippedLowRate}
	}

	rec, err := w.toolbox.ReadFullRecording(ctx, source)
	if err != nil {
		return w.failure(source, target, "load payload", err)
	}
	rec.Header.ChannelLabels = labels.Rewrite(rec.Header.ChannelLabels)

	partial := partialPath(target, w.targetExt)
	if err := w.toolbox.WriteRecording(ctx, partial, rec); err != nil {
		_ = os.Remove(partial)
		return w.failure(source, target, "write container", err)
	}
	if err := os.Rename(partial, target); err != nil {
		_ = os.Remove(partial)
		return w.failure(source, target, "publish container", err)
	}

	w.logger.Info("converted",
		"file", source,
		"target", target,
		"channels", rec.Header.ChannelCount,
		"rate_hz", rec.Header.SamplingRate,
	)
	return Result{Source: source, Target: target, Outcome: Converted}
}

// partialPath keeps the container extension last so the toolbox still
// infers the format: x.edf -> x.partial.edf.
func partialPath(target, ext string) string {
	base := target[:len(target)-len(ext)]
	return base + ".partial" + ext
}

func (w *Worker) failure(source, target, step string, err error) Result {
	w.logger.Warn("conversion failed", "file", source, "step", step, "error", err)
	return Result{
		Source:  source,
		Target:  target,
		Outcome: Failed,
		Reason:  fmt.Sprintf("%s: %v", step, err),
		Err:     err,
	}
}
