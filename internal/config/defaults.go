package config

const (
	defaultDataDir        = "~/.local/share/lexweave"
	defaultLogDir         = "~/.local/share/lexweave/logs"
	defaultSourceLanguage = "th"
	defaultTargetLanguage = "en"
	defaultMaxPasses      = 6
	defaultPassTimeout    = 120
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Languages: Languages{
			Source: defaultSourceLanguage,
			Target: defaultTargetLanguage,
		},
		Engine: Engine{
			MaxPasses:   defaultMaxPasses,
			PassTimeout: defaultPassTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
