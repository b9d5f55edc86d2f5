package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateNeurotool(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePipeline() error {
	switch c.Pipeline.TargetFormat {
	case FormatEDF, FormatBrainVision:
	default:
		return fmt.Errorf("pipeline.target_format must be %q or %q, got %q", FormatEDF, FormatBrainVision, c.Pipeline.TargetFormat)
	}
	if c.Pipeline.MinSamplingRate <= 0 {
		return errors.New("pipeline.min_sampling_rate must be positive")
	}
	return nil
}

func (c *Config) validateNeurotool() error {
	if c.Neurotool.Binary == "" {
		return errors.New("neurotool.binary must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.Day < 0 {
		return errors.New("selection.day must not be negative")
	}
	if c.Selection.MinDurationHours < 0 {
		return errors.New("selection.min_duration_hours must not be negative")
	}
	return nil
}
