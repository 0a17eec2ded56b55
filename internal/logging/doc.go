// Package logging builds the slog loggers used across lexweave.
//
// Two output formats are supported: a compact console handler that prefixes
// records with a component label, and a JSON handler for machine-readable
// logs. Context helpers stamp bundle, capability, and pass identifiers onto
// loggers so every record produced during a pass can be correlated.
package logging
