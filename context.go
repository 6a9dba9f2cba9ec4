package goAquao

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches the X-Request-ID value used for the next call made with
// ctx. Without one the client generates a random UUID per call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
