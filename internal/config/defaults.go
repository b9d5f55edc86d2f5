package config

const (
	defaultOutputDir        = "~/trcconv/output"
	defaultLogDir           = "~/.local/share/trcconv/logs"
	defaultSourceExtension  = ".TRC"
	defaultTargetFormat     = FormatEDF
	defaultMinSamplingRate  = 1000
	defaultProgressInterval = 25
	defaultNeurotoolBinary  = "neurotool"
	defaultProbeTimeout     = 60
	defaultTransferTimeout  = 1800
	defaultMinFreeSpaceGiB  = 1
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultSelectionDay     = 3
	defaultSelectionMinHrs  = 4
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Pipeline: Pipeline{
			SourceExtension:  defaultSourceExtension,
			TargetFormat:     defaultTargetFormat,
			MinSamplingRate:  defaultMinSamplingRate,
			ProgressInterval: defaultProgressInterval,
		},
		Neurotool: Neurotool{
			Binary:          defaultNeurotoolBinary,
			ProbeTimeout:    defaultProbeTimeout,
			TransferTimeout: defaultTransferTimeout,
		},
		Preflight: Preflight{
			MinFreeSpaceGiB: defaultMinFreeSpaceGiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Selection: Selection{
			Day:              defaultSelectionDay,
			MinDurationHours: defaultSelectionMinHrs,
		},
	}
}
