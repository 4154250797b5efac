package app

import (
	"time"

	"campfire/internal/access"
	"campfire/internal/auth/session"
	"campfire/internal/ice"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true, /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	SessionTTL time.Duration

	TURNSecret string
	TURNTTL    time.Duration
	TURNURLs   []string

	// If true, CAMPFIRE_TURN_SECRET MUST be set (>= 32 bytes) and at
	// least one TURN URL configured; startup fails otherwise.
	RequireTURNSecret bool

	PLCHost string

	// AdminToken guards the session-minting and allowlist endpoints;
	// empty disables them entirely.
	AdminToken string

	PruneInterval time.Duration
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("CAMPFIRE_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("CAMPFIRE_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("CAMPFIRE_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("CAMPFIRE_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("CAMPFIRE_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("CAMPFIRE_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("CAMPFIRE_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("CAMPFIRE_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("CAMPFIRE_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("CAMPFIRE_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("CAMPFIRE_READINESS_REQUIRE_DB", false),

		SessionTTL: EnvDuration("CAMPFIRE_SESSION_TTL", session.DefaultTTL),

		TURNSecret: EnvString("CAMPFIRE_TURN_SECRET", ""),
		TURNTTL:    EnvDuration("CAMPFIRE_TURN_TTL", ice.DefaultTTL),
		TURNURLs:   EnvCSV("CAMPFIRE_TURN_URLS", ""),

		RequireTURNSecret: EnvBool("CAMPFIRE_REQUIRE_TURN_SECRET", false),

		PLCHost: EnvString("CAMPFIRE_PLC_HOST", access.DefaultPLCHost),

		AdminToken: EnvString("CAMPFIRE_ADMIN_TOKEN", ""),

		PruneInterval: EnvDuration("CAMPFIRE_PRUNE_INTERVAL", 5*time.Minute),
	}
}
