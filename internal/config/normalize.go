package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLanguages()
	c.normalizeEngine()
	if err := c.normalizeLexicon(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLanguages() {
	c.Languages.Source = strings.TrimSpace(c.Languages.Source)
	if c.Languages.Source == "" {
		c.Languages.Source = defaultSourceLanguage
	}
	c.Languages.Target = strings.TrimSpace(c.Languages.Target)
	if c.Languages.Target == "" {
		c.Languages.Target = defaultTargetLanguage
	}
}

func (c *Config) normalizeEngine() {
	if c.Engine.MaxPasses <= 0 {
		c.Engine.MaxPasses = defaultMaxPasses
	}
	if c.Engine.PassTimeout < 0 {
		c.Engine.PassTimeout = defaultPassTimeout
	}
}

func (c *Config) normalizeLexicon() error {
	c.Lexicon.SeedPath = strings.TrimSpace(c.Lexicon.SeedPath)
	if c.Lexicon.SeedPath == "" {
		return nil
	}
	expanded, err := expandPath(c.Lexicon.SeedPath)
	if err != nil {
		return fmt.Errorf("lexicon.seed_path: %w", err)
	}
	c.Lexicon.SeedPath = expanded
	return nil
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
