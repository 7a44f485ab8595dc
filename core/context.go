package core

import "context"

// Context keys for transform options
type contextKey string

const (
	quietKey contextKey = "quiet"
)

// WithQuiet marks the context so that transforms do not print progress lines
func WithQuiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey, true)
}

// isQuiet returns whether progress lines should be suppressed
func isQuiet(ctx context.Context) bool {
	val := ctx.Value(quietKey)
	if val == nil {
		return false // default: show progress
	}
	quiet, ok := val.(bool)
	return ok && quiet
}
