package middleware

import (
	"context"

	"github.com/calcuttafresh/storefront/internal/session"
)

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxSession   contextKey = "session"
	ctxLoading   contextKey = "session_loading"
)

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// SessionFromContext returns the settled session, or nil when the
// session could not be resolved this request.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return v
	}
	return nil
}

// SessionLoadingFromContext reports whether identity resolution is
// still undetermined for this request.
func SessionLoadingFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxLoading).(bool); ok {
		return v
	}
	return false
}

// WithSessionID injects the session identifier into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// WithSession injects the settled session into the context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}

// WithSessionLoading marks the session as not yet determined.
func WithSessionLoading(ctx context.Context, loading bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLoading, loading)
}
