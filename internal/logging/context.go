package logging

import (
	"context"
	"log/slog"

	"lexweave/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for
	// component names.
	FieldComponent = "component"
	// FieldBundleID is the standardized structured logging key for bundle
	// identifiers.
	FieldBundleID = "bundle_id"
	// FieldCapability is the standardized structured logging key for
	// capability names.
	FieldCapability = "capability"
	// FieldPassID is the standardized structured logging key for pass
	// correlation identifiers.
	FieldPassID = "pass_id"
	// FieldEventType categorizes log records for downstream filtering.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided
// context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.BundleIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBundleID, id))
	}
	if name, ok := services.CapabilityFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCapability, name))
	}
	if id, ok := services.PassIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPassID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
