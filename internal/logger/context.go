package logger

import (
	"context"

	"go.uber.org/zap"
)

// requestIDKey is unexported so nothing outside this package can
// collide with it in a context value.
type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// WithRequestID stores a request id on the context for later retrieval
// by FromCtx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom reports the request id carried by ctx, or "" when the
// request never passed through the request-id middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromCtx returns the global logger enriched with the context's
// request_id field when one is present.
func FromCtx(ctx context.Context) *zap.Logger {
	if id := RequestIDFrom(ctx); id != "" {
		return L().With(zap.String("request_id", id))
	}
	return L()
}
