// Package testsupport centralizes helpers shared by package tests: config
// builders seeded with temp directories, fixture writers, and an in-memory
// signal toolbox.
package testsupport

import (
	"path/filepath"
	"testing"

	"trcconv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "source")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Preflight.MinFreeSpaceGiB = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithMinRate overrides the sampling-rate floor on the test config.
func WithMinRate(rate float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.MinSamplingRate = rate
	}
}

// WithTargetFormat overrides the target container on the test config.
func WithTargetFormat(format string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.TargetFormat = format
	}
}
