package services

import "context"

type contextKey string

const (
	mergeIDKey   contextKey = "merge_id"
	inputKey     contextKey = "input"
	requestIDKey contextKey = "request_id"
)

// WithMergeID annotates context with the merge run identifier.
func WithMergeID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, mergeIDKey, id)
}

// MergeIDFromContext extracts the merge run identifier if present.
func MergeIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(mergeIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithInput annotates context with the input container path.
func WithInput(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, inputKey, path)
}

// InputFromContext returns the input container path if present.
func InputFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(inputKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
