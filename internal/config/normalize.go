package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeNeurotool()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePipeline() {
	ext := strings.TrimSpace(c.Pipeline.SourceExtension)
	if ext == "" {
		ext = defaultSourceExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Pipeline.SourceExtension = ext

	c.Pipeline.TargetFormat = strings.ToLower(strings.TrimSpace(c.Pipeline.TargetFormat))
	if c.Pipeline.TargetFormat == "" {
		c.Pipeline.TargetFormat = defaultTargetFormat
	}
	if c.Pipeline.ProgressInterval <= 0 {
		c.Pipeline.ProgressInterval = defaultProgressInterval
	}
}

func (c *Config) normalizeNeurotool() {
	c.Neurotool.Binary = strings.TrimSpace(c.Neurotool.Binary)
	if c.Neurotool.Binary == "" {
		c.Neurotool.Binary = defaultNeurotoolBinary
	}
	if c.Neurotool.ProbeTimeout < 0 {
		c.Neurotool.ProbeTimeout = defaultProbeTimeout
	}
	if c.Neurotool.TransferTimeout < 0 {
		c.Neurotool.TransferTimeout = defaultTransferTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
