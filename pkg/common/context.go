package common

import (
	"context"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUserID        ContextKey = "user_id"
	ContextKeyCorrelationID ContextKey = "correlation_id"
)

// WithUserID adds the authenticated subject's ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetUserID extracts the authenticated subject's ID from the context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok
}

// WithCorrelationID adds the request correlation ID to the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, ContextKeyCorrelationID, correlationID)
}

// GetCorrelationID extracts the request correlation ID from the context.
func GetCorrelationID(ctx context.Context) (string, bool) {
	correlationID, ok := ctx.Value(ContextKeyCorrelationID).(string)
	return correlationID, ok
}

// CorrelationID returns the correlation ID or empty string when unset.
func CorrelationID(ctx context.Context) string {
	correlationID, _ := GetCorrelationID(ctx)
	return correlationID
}
