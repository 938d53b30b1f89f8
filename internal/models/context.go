package models

import "context"

type requestContextKey struct{}

// RequestContext carries per-request tracing data from the service layer down
// to the REST client without widening every method signature.
type RequestContext struct {
	RequestId string
	Operation string // e.g. "investment.create"
}

// WithRequestContext attaches request data to a context.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// GetRequestContext retrieves request data from context, or nil if absent.
func GetRequestContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc
}
