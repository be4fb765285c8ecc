package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"

	"lobbyd/internal/adhoc"
	"lobbyd/internal/authmw"
	"lobbyd/internal/graphqlapi"
	"lobbyd/internal/identity"
	"lobbyd/internal/lobby"
	"lobbyd/internal/session"
	"lobbyd/internal/store"
)

// App is the lobbyd server runtime: it owns HTTP server wiring, the store,
// and the periodic session-cleanup sweep.
type App struct {
	cfg Config
	log *slog.Logger

	store *store.Store

	authmw  *authmw.Middleware
	session *session.Service
	schema  graphql.Schema

	metrics *Metrics
}

// New constructs a fully wired App from cfg.
func New(cfg Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	st, err := store.Open(context.Background(), store.Config{
		Path:     cfg.DBPath,
		MaxConns: cfg.DBMaxConns,
		Migrate:  cfg.DBMigrate,
	})
	if err != nil {
		return nil, err
	}

	metrics := NewMetrics()

	identityStore := identity.NewSQLiteStore()
	adhocSvc := adhoc.NewService(adhoc.NewSQLiteStore(), cfg.AppKey)
	sessionSvc := session.NewService(session.NewSQLiteStore(), []byte(cfg.SessionAppSecret), cfg.SessionTTL, metrics)
	lobbySvc := lobby.NewService(lobby.NewSQLiteStore())

	mw := &authmw.Middleware{
		Store:         st,
		AdHoc:         adhocSvc,
		Sessions:      sessionSvc,
		RefreshWindow: cfg.SessionRefreshAt,
		Log:           log,
	}

	api := &graphqlapi.API{
		Identity: identityStore,
		AdHoc:    adhocSvc,
		Lobby:    lobbySvc,
	}
	schema, err := graphqlapi.NewSchema(api)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		log:     log,
		store:   st,
		authmw:  mw,
		session: sessionSvc,
		schema:  schema,
		metrics: metrics,
	}, nil
}

// Run starts the HTTP server, the background session-cleanup sweep, and
// blocks until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	mux, err := a.newMux()
	if err != nil {
		return err
	}

	handler := WithSecurityHeaders(WithCORS(mux, a.cfg, a.log))
	handler = WithMetrics(handler, a.metrics)
	handler = WithRequestLogging(handler, a.log)
	handler = WithRequestID(handler)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go a.runCleanupLoop(cleanupCtx)

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_path", a.cfg.DBPath)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.store.Close(); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func (a *App) runCleanupLoop(ctx context.Context) {
	interval := a.cfg.CleanupInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := a.session.Cleanup(ctx, a.store.DB(), time.Now().UTC())
			if err != nil {
				a.log.Warn("session.cleanup.fail", "err", err)
				continue
			}
			if n > 0 {
				a.log.Info("session.cleanup.swept", "count", n)
			}
		}
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
