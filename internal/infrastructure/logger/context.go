package logger

import "context"

// contextKey is a private type for context keys used by this package
type contextKey string

// RequestIDKey carries the request ID across layer boundaries
const RequestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the request ID. Query logging
// picks it up so SQL entries correlate with the access log.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context, empty if unset
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
