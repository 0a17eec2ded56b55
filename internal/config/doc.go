// Package config loads, normalizes, and validates lexweave configuration.
//
// Configuration comes from a TOML file (~/.config/lexweave/config.toml or a
// project-local lexweave.toml), falling back to repository defaults. Load
// expands all path fields to absolute form, fills defaults for empty values,
// and rejects configurations the engine cannot run with (unknown language
// tags, nonsensical pass limits).
package config
