package authmw

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"lobbyd/internal/adhoc"
	"lobbyd/internal/session"
	"lobbyd/internal/store"
)

// SessionTokenHeader is the response header carrying a newly minted or
// refreshed session token.
const SessionTokenHeader = "X-Session-Token"

// Middleware runs the per-request auth pipeline described in spec §4.5.
type Middleware struct {
	Store         *store.Store
	AdHoc         *adhoc.Service
	Sessions      *session.Service
	RefreshWindow time.Duration
	Log           *slog.Logger

	// Clock is overridable for tests; defaults to time.Now.
	Clock func() time.Time
}

func (m *Middleware) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now().UTC()
}

func (m *Middleware) logger() *slog.Logger {
	if m.Log != nil {
		return m.Log
	}
	return slog.Default()
}

// Wrap returns next wrapped in the auth pipeline: a per-request transaction,
// Authorization parsing, credential→session transition, near-expiry
// refresh, context attachment, and a response that only reaches the client
// once the transaction has committed.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tx, err := m.Store.Begin(ctx)
		if err != nil {
			m.logger().Error("authmw.begin.fail", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback()
			}
		}()

		header := r.Header.Get("Authorization")

		var sess session.Session
		var haveSession bool
		var newToken string

		if header != "" {
			cred, err := parseAuthorization(header)
			if err != nil {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}

			sess, newToken, err = m.authenticate(ctx, tx, cred)
			if err != nil {
				m.logger().Warn("authmw.authenticate.fail", "err", err)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			haveSession = true
		}

		reqCtx := withQuerier(ctx, tx)
		if haveSession {
			reqCtx = withSession(reqCtx, sess)
		}

		rec := newRecorder()
		next.ServeHTTP(rec, r.WithContext(reqCtx))

		if err := tx.Commit(); err != nil {
			m.logger().Error("authmw.commit.fail", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		committed = true

		if newToken != "" {
			w.Header().Set(SessionTokenHeader, newToken)
		}
		rec.flushTo(w)
	})
}

// authenticate runs the credential→session transition for cred and reports
// the resulting session plus, when a new token was minted (upgrade or
// refresh), that token's external string.
func (m *Middleware) authenticate(ctx context.Context, tx store.Querier, cred Credential) (session.Session, string, error) {
	now := m.now()

	switch cred.Scheme {
	case SchemeAdHoc:
		userID, err := m.AdHoc.Verify(ctx, tx, cred.Token)
		if err != nil {
			return session.Session{}, "", err
		}
		sess, err := m.Sessions.Create(ctx, tx, userID, now)
		if err != nil {
			return session.Session{}, "", err
		}
		return sess, sess.Token, nil

	case SchemeSession:
		sess, err := m.Sessions.Verify(ctx, tx, cred.Token)
		if err != nil {
			return session.Session{}, "", err
		}
		if sess.ExpiresAt.Before(now.Add(m.RefreshWindow)) {
			refreshed, err := m.Sessions.Refresh(ctx, tx, sess, now)
			if err != nil {
				return session.Session{}, "", err
			}
			return refreshed, refreshed.Token, nil
		}
		return sess, "", nil

	default:
		return session.Session{}, "", errors.New("authmw: unknown credential scheme")
	}
}

// recorder buffers a downstream handler's response so it can be discarded
// entirely if the enclosing transaction fails to commit.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header), status: http.StatusOK}
}

func (rec *recorder) Header() http.Header { return rec.header }

func (rec *recorder) Write(p []byte) (int, error) { return rec.body.Write(p) }

func (rec *recorder) WriteHeader(status int) { rec.status = status }

func (rec *recorder) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, vs := range rec.header {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
	w.WriteHeader(rec.status)
	_, _ = w.Write(rec.body.Bytes())
}
