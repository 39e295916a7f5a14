package logging

import "context"

type ctxKey struct{}

// ContextWithRequestID returns a copy of ctx carrying the HTTP request id, so
// every line logged while serving that request can be correlated.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFrom returns the request id stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
