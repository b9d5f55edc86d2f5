package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"trcconv/internal/config"
	"trcconv/internal/journal"
	"trcconv/internal/logging"
	"trcconv/internal/sigio"
	"trcconv/internal/sigio/neotool"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

func (c *commandContext) toolbox() (sigio.Toolbox, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := neotool.New(cfg.Neurotool.Binary, cfg.Neurotool.ProbeTimeout, cfg.Neurotool.TransferTimeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// openJournal returns nil when the journal cannot be opened; run history is
// an aid, never a reason to refuse a batch.
func (c *commandContext) openJournal(logger *slog.Logger) *journal.Store {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil
	}
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		if logger != nil {
			logger.Warn("journal unavailable, continuing without run history", "error", err)
		}
		return nil
	}
	return store
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
