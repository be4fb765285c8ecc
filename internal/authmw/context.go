package authmw

import (
	"context"

	"lobbyd/internal/session"
	"lobbyd/internal/store"
)

type contextKey int

const (
	sessionKey contextKey = iota
	querierKey
)

// SessionFromContext returns the Session attached by the middleware, if any.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(session.Session)
	return sess, ok
}

func withSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// QuerierFromContext returns the per-request transaction the middleware
// opened, so downstream resolvers (the lobby state machine in particular)
// read and write inside the same atomic unit as the auth upgrade/refresh.
func QuerierFromContext(ctx context.Context) (store.Querier, bool) {
	q, ok := ctx.Value(querierKey).(store.Querier)
	return q, ok
}

func withQuerier(ctx context.Context, q store.Querier) context.Context {
	return context.WithValue(ctx, querierKey, q)
}
