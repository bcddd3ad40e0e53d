package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// ContextKey is the type for context values set by the API layer.
type ContextKey string

const (
	// UserUIDContextKey is the context key for the authenticated user's UID.
	UserUIDContextKey ContextKey = "userUID"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// traceIDLength is the number of random bytes in a trace ID.
	traceIDLength = 16
)

// SetTraceID adds a freshly generated trace ID to the context, used to
// correlate logs and error responses for one request.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// UserUID retrieves the authenticated user's UID from the context, as set by
// the auth middleware. The second return value reports whether a UID was
// present.
func UserUID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUIDContextKey).(string)
	return uid, ok && uid != ""
}

// WithUserUID returns a context carrying the authenticated user's UID.
func WithUserUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, UserUIDContextKey, uid)
}

func generateTraceID() string {
	b := make([]byte, traceIDLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is not worth failing the request over; an
		// empty trace ID just loses correlation.
		return ""
	}
	return hex.EncodeToString(b)
}
