package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLanguages() error {
	if _, err := language.Parse(c.Languages.Source); err != nil {
		return fmt.Errorf("languages.source: unknown language tag %q", c.Languages.Source)
	}
	if _, err := language.Parse(c.Languages.Target); err != nil {
		return fmt.Errorf("languages.target: unknown language tag %q", c.Languages.Target)
	}
	if c.Languages.Source == c.Languages.Target {
		return errors.New("languages.source and languages.target must differ")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.MaxPasses > 100 {
		return errors.New("engine.max_passes must be at most 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// SourceTag returns the parsed source language tag.
func (c *Config) SourceTag() language.Tag {
	tag, err := language.Parse(c.Languages.Source)
	if err != nil {
		return language.Thai
	}
	return tag
}

// TargetTag returns the parsed target language tag.
func (c *Config) TargetTag() language.Tag {
	tag, err := language.Parse(c.Languages.Target)
	if err != nil {
		return language.English
	}
	return tag
}
