package app

import (
	"strings"
	"time"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// DBPath is the sqlite file path. Empty means an in-memory, shared-cache
	// database (always migrated), matching the embedded store's dev/test mode.
	DBPath     string
	DBMaxConns int
	DBMigrate  bool

	// Strict CORS allowlist for browser clients.
	//
	// Rules:
	// - exact origin: "https://app.example.com"
	// - wildcard port: "http://localhost:*"
	// - wildcard all: "*" (not recommended with credentials)
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// GraphiQL gates the /pg playground page (a static placeholder; see
	// graphqlapi.PlaygroundHandler).
	GraphiQL bool

	// ReadinessRequireDB: if true, /readyz returns 503 unless the store pings successfully.
	ReadinessRequireDB bool

	// AppKey and SessionAppSecret are the two domain constants mixed into
	// ad-hoc credential signatures and PASETO implicit assertions,
	// respectively. They are build/deploy-time secrets, not request input.
	AppKey           string
	SessionAppSecret string
	SessionTTL       time.Duration
	SessionRefreshAt time.Duration
	CleanupInterval  time.Duration
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	corsDefault := "http://localhost:*,http://127.0.0.1:*"
	corsRaw := EnvString("LOBBYD_HTTP_CORS_ALLOWED_ORIGINS", corsDefault)

	return Config{
		HTTPAddr:  EnvString("LOBBYD_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("LOBBYD_LOG_LEVEL", "info"),
		LogFormat: EnvString("LOBBYD_LOG_FORMAT", "auto"),

		ReadHeaderTimeout: EnvDuration("LOBBYD_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("LOBBYD_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("LOBBYD_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("LOBBYD_HTTP_IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    EnvInt("LOBBYD_HTTP_MAX_HEADER_BYTES", 1<<20),

		DBPath:     EnvString("LOBBYD_DB_PATH", ""),
		DBMaxConns: EnvInt("LOBBYD_DB_MAX_CONNS", 5),
		DBMigrate:  EnvBool("LOBBYD_DB_MIGRATE", false),

		CORSAllowedOrigins:   parseCSV(corsRaw),
		CORSAllowCredentials: EnvBool("LOBBYD_HTTP_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("LOBBYD_HTTP_CORS_MAX_AGE_SECONDS", 600),

		GraphiQL: EnvBool("LOBBYD_GRAPHIQL", false),

		ReadinessRequireDB: EnvBool("LOBBYD_READINESS_REQUIRE_DB", false),

		AppKey:           EnvString("LOBBYD_APP_KEY", "AsyncDeckbuilderAppTokenSecret"),
		SessionAppSecret: EnvString("LOBBYD_SESSION_APP_SECRET", "AsyncDeckbuilderAppSessionTokenSecret"),
		SessionTTL:       EnvDuration("LOBBYD_SESSION_TTL", 24*time.Hour),
		SessionRefreshAt: EnvDuration("LOBBYD_SESSION_REFRESH_WINDOW", 10*time.Minute),
		CleanupInterval:  EnvDuration("LOBBYD_SESSION_CLEANUP_INTERVAL", 15*time.Minute),
	}
}

// parseCSV splits a comma-separated list, trimming whitespace and dropping empties.
func parseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
