package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Pipeline contains the batch conversion policy.
type Pipeline struct {
	SourceExtension  string  `toml:"source_extension"`
	TargetFormat     string  `toml:"target_format"`
	MinSamplingRate  float64 `toml:"min_sampling_rate"`
	ProgressInterval int     `toml:"progress_interval"`
}

// Neurotool contains configuration for the external signal toolbox helper.
type Neurotool struct {
	Binary          string `toml:"binary"`
	ProbeTimeout    int    `toml:"probe_timeout"`
	TransferTimeout int    `toml:"transfer_timeout"`
}

// Preflight contains thresholds for pre-run environment checks.
type Preflight struct {
	MinFreeSpaceGiB int `toml:"min_free_space_gib"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Selection contains the clip-selection policy applied by "trcconv select".
type Selection struct {
	Day              int     `toml:"day"`
	MinDurationHours float64 `toml:"min_duration_hours"`
}

// Config encapsulates all configuration values for trcconv.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Neurotool Neurotool `toml:"neurotool"`
	Preflight Preflight `toml:"preflight"`
	Logging   Logging   `toml:"logging"`
	Selection Selection `toml:"selection"`
}

// Supported target container formats.
const (
	FormatEDF         = "edf"
	FormatBrainVision = "brainvision"
)

// TargetExtension maps the configured target format to the file extension
// the signal toolbox uses to infer the container. BrainVision recordings
// are addressed by their .vhdr header file.
func (c *Config) TargetExtension() string {
	if c.Pipeline.TargetFormat == FormatBrainVision {
		return ".vhdr"
	}
	return ".edf"
}

// LockPath is the flock target guarding the output root against concurrent
// batch writers.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.OutputDir, ".trcconv.lock")
}

// JournalPath is the location of the SQLite batch-run journal.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.OutputDir, "trcconv.db")
}

// LogFilePath is the tee target for file logging, empty when log_dir is
// unset.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "trcconv.log")
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/trcconv/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("trcconv.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath expands a leading ~ and returns a cleaned absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
