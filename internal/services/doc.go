// Package services defines shared utilities consumed by the capability
// backends and the pass engine.
//
// Key responsibilities:
//   - Context helpers that stamp bundle IDs, capability names, and pass
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (capability failure, validation failure, configuration
//     problem) uniform across backends.
//
// Use these helpers when wiring new capability logic so operational
// behaviour (error handling, observability, retries) stays uniform across
// the pipeline.
package services
