// Package app wires the Campfire server runtime: config, logging, HTTP
// routes, the realtime gateway, and the access-control stores.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"campfire/internal/access"
	"campfire/internal/auth/session"
	"campfire/internal/ice"
	"campfire/internal/realtime"
)

// App is the Campfire server runtime: it owns HTTP server wiring and the
// realtime gateway's dependencies.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	sessions  *session.Store
	allowlist *access.Allowlist
	issuer    *ice.Issuer
	ws        *realtime.WSGateway

	metricsReg *prometheus.Registry

	admin *AdminHandler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	sessions, err := session.NewStore(session.Config{TTL: cfg.SessionTTL})
	if err != nil {
		return nil, err
	}

	issuer := ice.NewIssuer(log, ice.Config{
		SharedSecret: cfg.TURNSecret,
		TTL:          cfg.TURNTTL,
		URLs:         cfg.TURNURLs,
	})

	ageResolver := access.NewPLCResolver(log, cfg.PLCHost, nil)

	// Store selection: Postgres when configured, in-memory otherwise.
	// The in-memory stores start empty; rooms and the allowlist are
	// seeded through the admin surface.
	var (
		dbPool    *pgxpool.Pool
		dbEnabled bool
		bans      access.BanStore
		rooms     access.RoomStore
		alStore   access.AllowlistStore
		devStores *access.MemoryStores
	)

	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		devStores = access.NewMemoryStores()
		bans, rooms, alStore = devStores, devStores, devStores
	} else {
		pool, err := NewDBPool(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		pg, err := access.NewPostgresStores(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("db.enabled.postgres_store")
		dbPool, dbEnabled = pool, true
		bans, rooms, alStore = pg, pg, pg
	}

	allowlist := access.NewAllowlist(log, alStore)
	if dbEnabled {
		if err := allowlist.Load(context.Background()); err != nil {
			dbPool.Close()
			return nil, err
		}
	}

	gate := access.NewGate(log, bans, rooms, ageResolver)

	metricsReg := prometheus.NewRegistry()
	metricsReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ws := realtime.NewWSGateway(log, realtime.WSGatewayDeps{
		Sessions:  sessions,
		Gate:      gate,
		Allowlist: allowlist,
		Metrics:   realtime.NewMetrics(metricsReg),
	})

	admin := NewAdminHandler(log, cfg.AdminToken, sessions, allowlist, devStores)

	return &App{
		cfg:        cfg,
		log:        log,
		dbPool:     dbPool,
		dbEnabled:  dbEnabled,
		sessions:   sessions,
		allowlist:  allowlist,
		issuer:     issuer,
		ws:         ws,
		metricsReg: metricsReg,
		admin:      admin,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.ws, a.sessions, a.issuer, a.metricsReg, a.admin)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled, "ice_configured", a.issuer.Configured())

	pruneCtx, stopPrune := context.WithCancel(ctx)
	pruneDone := make(chan struct{})
	go a.pruneLoop(pruneCtx, pruneDone)

	// Every exit path, fatal server errors included, must drain the prune
	// loop and release the DB pool.
	defer func() {
		stopPrune()
		<-pruneDone
		if a.dbPool != nil {
			a.dbPool.Close()
		}
	}()

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

	a.log.Info("server.stopped")
	return nil
}

// pruneLoop periodically evicts expired sessions and stale rate-limit
// keys so idle entries do not accumulate between lookups.
func (a *App) pruneLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	t := time.NewTicker(nonZeroDuration(a.cfg.PruneInterval, 5*time.Minute))
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := time.Now().UTC()
			sessions := a.sessions.Prune(now)
			rateKeys := a.ws.RateLimiter().Prune(now)
			if sessions > 0 || rateKeys > 0 {
				a.log.Debug("prune", "sessions", sessions, "rate_keys", rateKeys)
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
