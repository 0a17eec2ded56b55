package config

import "os"

// Environment overrides, applied after file parsing and before
// normalization. Only operational knobs are exposed this way; structural
// settings stay in the file.
const (
	envDataDir   = "LEXWEAVE_DATA_DIR"
	envLogDir    = "LEXWEAVE_LOG_DIR"
	envLogFormat = "LEXWEAVE_LOG_FORMAT"
	envLogLevel  = "LEXWEAVE_LOG_LEVEL"
	envSeedPath  = "LEXWEAVE_LEXICON_SEED"
)

func (c *Config) applyEnv() {
	if v := os.Getenv(envDataDir); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv(envLogDir); v != "" {
		c.Paths.LogDir = v
	}
	if v := os.Getenv(envLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envSeedPath); v != "" {
		c.Lexicon.SeedPath = v
	}
}
