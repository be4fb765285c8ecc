package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"lobbyd/internal/authmw"
	"lobbyd/internal/graphqlapi"
)

// newMux builds the HTTP surface described in spec §6: the GraphQL
// endpoint, the refresh/session exercise endpoints, the gated playground,
// and operational routes, each wrapped by the auth middleware where the
// spec calls for "optional" authentication.
func (a *App) newMux() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	mux.Handle("POST /api", a.authmw.Wrap(graphqlapi.Handler(a.schema)))
	mux.Handle("GET /refresh", a.authmw.Wrap(http.HandlerFunc(handleRefresh)))
	mux.Handle("DELETE /session", a.authmw.Wrap(http.HandlerFunc(a.handleDeleteSession)))
	mux.Handle("GET /pg", graphqlapi.PlaygroundHandler(a.cfg.GraphiQL))

	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	mux.Handle("GET /metrics", a.metrics.Handler())

	return mux, nil
}

// handleRefresh is a no-op whose sole purpose is to exercise the auth
// middleware's upgrade/refresh path (spec §6).
func handleRefresh(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleDeleteSession expires the bearer session if one was presented.
// Idempotent: an absent or already-gone session is not an error.
func (a *App) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	_, token, ok := strings.Cut(header, " ")
	if !ok || token == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	q, ok := authmw.QuerierFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := a.session.Expire(r.Context(), q, token); err != nil {
		a.log.Warn("session.expire.fail", "err", err)
	}
	w.WriteHeader(http.StatusOK)
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if a.cfg.ReadinessRequireDB {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.store.DB().PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
