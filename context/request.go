package context

import (
	"context"
)

type contextkey string

const (
	requestIDKey contextkey = "request_id"
)

// ContextSetRequestID binds the request ID to ctx so services
// can tag their logs with it.
func ContextSetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextGetRequestID retrieves the request ID from ctx.
// Returns "" if none was set (CLI runs, tests).
func ContextGetRequestID(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
