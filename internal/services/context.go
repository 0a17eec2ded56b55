package services

import "context"

type contextKey string

const (
	bundleIDKey   contextKey = "bundle_id"
	capabilityKey contextKey = "capability"
	passIDKey     contextKey = "pass_id"
)

// WithBundleID annotates context with the bundle identifier.
func WithBundleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, bundleIDKey, id)
}

// BundleIDFromContext extracts the bundle identifier if present.
func BundleIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(bundleIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCapability annotates context with the capability name being invoked.
func WithCapability(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, capabilityKey, name)
}

// CapabilityFromContext returns the capability name if present.
func CapabilityFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(capabilityKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPassID annotates context with a per-pass correlation identifier.
func WithPassID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, passIDKey, id)
}

// PassIDFromContext extracts the pass correlation identifier if present.
func PassIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(passIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
