// Package validate classifies discovered recordings against the
// sampling-rate policy and persists the partitions as catalog artifacts.
// The pass is read-only with respect to the source tree.
package validate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"trcconv/internal/catalog"
	"trcconv/internal/sigio"
)

// Result partitions the discovered set. Accepted, Rejected, and Unreadable
// are disjoint and their union is the full input set. Resumed reports that
// the partitions were loaded from prior artifacts without touching any
// source file.
type Result struct {
	Accepted   []string
	Rejected   []string
	Unreadable []string
	Resumed    bool
}

// Validator runs the classification pass.
type Validator struct {
	toolbox       sigio.Toolbox
	cat           *catalog.Catalog
	minRate       float64
	progressEvery int
	logger        *slog.Logger
}

// New constructs a validator. progressEvery controls how often a progress
// line is emitted; values below one disable progress logging.
func New(toolbox sigio.Toolbox, cat *catalog.Catalog, minRate float64, progressEvery int, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		toolbox:       toolbox,
		cat:           cat,
		minRate:       minRate,
		progressEvery: progressEvery,
		logger:        logger.With("component", "validate"),
	}
}

// Run classifies files and persists the partitions. When all three
// validation artifacts already exist their contents are returned verbatim;
// the artifacts are trusted and no header is re-read.
func (v *Validator) Run(ctx context.Context, files []string) (Result, error) {
	if v.cat.Accepted.Exists() && v.cat.InsufficientRate.Exists() && v.cat.Unreadable.Exists() {
		return v.resume()
	}

	var result Result
	total := len(files)
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		header, err := v.toolbox.ReadHeader(ctx, path)
		switch {
		case err != nil:
			v.logger.Warn("header unreadable", "file", path, "error", err)
			result.Unreadable = append(result.Unreadable, path)
		case header.SamplingRate < v.minRate:
			v.logger.Debug("sampling rate below floor", "file", path, "rate_hz", header.SamplingRate, "min_hz", v.minRate)
			result.Rejected = append(result.Rejected, path)
		default:
			result.Accepted = append(result.Accepted, path)
		}

		if v.progressEvery > 0 && (i+1)%v.progressEvery == 0 {
			v.logger.Info("validation progress",
				"processed", i+1,
				"total", total,
				"percent", fmt.Sprintf("%.1f", float64(i+1)/float64(total)*100),
			)
		}
	}

	sort.Strings(result.Accepted)
	sort.Strings(result.Rejected)
	sort.Strings(result.Unreadable)

	if err := v.cat.Accepted.Write(result.Accepted); err != nil {
		return Result{}, fmt.Errorf("persist accepted partition: %w", err)
	}
	if err := v.cat.InsufficientRate.Write(result.Rejected); err != nil {
		return Result{}, fmt.Errorf("persist rejected partition: %w", err)
	}
	if err := v.cat.Unreadable.Write(result.Unreadable); err != nil {
		return Result{}, fmt.Errorf("persist unreadable partition: %w", err)
	}

	v.logger.Info("validation complete",
		"accepted", len(result.Accepted),
		"rejected", len(result.Rejected),
		"unreadable", len(result.Unreadable),
	)
	return result, nil
}

func (v *Validator) resume() (Result, error) {
	accepted, err := v.cat.Accepted.Load()
	if err != nil {
		return Result{}, fmt.Errorf("load accepted partition: %w", err)
	}
	rejected, err := v.cat.InsufficientRate.Load()
	if err != nil {
		return Result{}, fmt.Errorf("load rejected partition: %w", err)
	}
	unreadable, err := v.cat.Unreadable.Load()
	if err != nil {
		return Result{}, fmt.Errorf("load unreadable partition: %w", err)
	}

	v.logger.Info("validation artifacts present, resuming",
		"accepted", len(accepted),
		"rejected", len(rejected),
		"unreadable", len(unreadable),
	)
	return Result{Accepted: accepted, Rejected: rejected, Unreadable: unreadable, Resumed: true}, nil
}
