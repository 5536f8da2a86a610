package utils

import (
	"context"
)

type key int

const (
	// CtxSession context key for page session data
	CtxSession key = iota
)

// SessionData keeps page session info passed down to the handler and diagnostics
type SessionData struct {
	ID string
}

// SessionContext returns session data from ctx or attaches a new empty one
func SessionContext(ctx context.Context) (context.Context, *SessionData) {
	res, ok := ctx.Value(CtxSession).(*SessionData)
	if ok {
		return ctx, res
	}
	res = &SessionData{}
	return context.WithValue(ctx, CtxSession, res), res
}

// SessionID returns session id stored in ctx or empty string
func SessionID(ctx context.Context) string {
	if res, ok := ctx.Value(CtxSession).(*SessionData); ok {
		return res.ID
	}
	return ""
}
