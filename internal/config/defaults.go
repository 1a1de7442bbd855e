package config

const (
	defaultStateDir  = "~/.local/share/webpmill"
	defaultLogDir    = "~/.local/share/webpmill/logs"
	defaultQuality   = 82
	defaultEffort    = 6
	defaultJobs      = 1
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Encoder: Encoder{
			Quality: defaultQuality,
			Effort:  defaultEffort,
		},
		Pipeline: Pipeline{
			Jobs: defaultJobs,
		},
		Manifest: Manifest{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
