// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package app wires configuration, storage, services, and the HTTP
// server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/Hashmapw/claude-code-hub/internal/pkg/logger"
	"github.com/Hashmapw/claude-code-hub/internal/repository/postgres"
	redisrepo "github.com/Hashmapw/claude-code-hub/internal/repository/redis"
	"github.com/Hashmapw/claude-code-hub/internal/scheduler"
	"github.com/Hashmapw/claude-code-hub/internal/services/auth"
	"github.com/Hashmapw/claude-code-hub/internal/web"
)

// Application holds all application dependencies
type Application struct {
	Config *Config
	Logger *logger.Logger
	DB     *postgres.DB
	Redis  *redisrepo.Client

	scheduler *scheduler.Scheduler
	server    *http.Server
}

// Run starts the application with the given configuration
func Run(cfgFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting claude-code-hub",
		"version", Version,
		"commit", Commit,
	)
	if prefix := cfg.Proxy.PublicPrefix(); prefix != "" {
		log.Info("Development proxy prefix configured", "prefix", prefix)
	}

	// PostgreSQL
	log.Info("Connecting to PostgreSQL...")
	db, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Info("PostgreSQL connected")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	keyRepo := postgres.NewKeyRepository(db)
	providerRepo := postgres.NewProviderRepository(db)
	usageRepo := postgres.NewUsageRepository(db)

	// Redis session cache (optional)
	var (
		redisClient  *redisrepo.Client
		sessionCache auth.SessionCache
	)
	if cfg.Redis.URL != "" {
		log.Info("Connecting to Redis...")
		redisClient, err = redisrepo.New(ctx, cfg.Redis.URL, redisrepo.Options{
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()
		sessionCache = redisrepo.NewSessionCache(redisClient, cfg.Redis.SessionTTL)
		log.Info("Redis connected")
	} else {
		log.Warn("Redis not configured; session caching disabled")
	}

	// Services
	jwtCfg := auth.DefaultJWTConfig(cfg.Security.JWTSecret)
	if cfg.Security.JWTExpiry > 0 {
		jwtCfg.TokenTTL = cfg.Security.JWTExpiry
	}
	authSvc := auth.NewService(userRepo, keyRepo, sessionCache, auth.NewJWTService(jwtCfg), log)

	handler := web.NewHandler(web.Config{
		SecureCookies: cfg.Security.CookieSecure,
		AssetPrefix:   cfg.Proxy.PublicPrefix(),
		RelayTimeout:  cfg.Relay.Timeout,
	}, authSvc, providerRepo, usageRepo, keyRepo, log)

	// Maintenance jobs
	sched := scheduler.New(&scheduler.Config{
		UsageRetention:     cfg.Retention.UsageRetention,
		PruneSchedule:      cfg.Retention.PruneSchedule,
		QuotaResetSchedule: cfg.Retention.QuotaResetSchedule,
		JobTimeout:         10 * time.Minute,
	}, usageRepo, keyRepo, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      buildRouter(cfg, handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	app := &Application{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Redis:     redisClient,
		scheduler: sched,
		server:    srv,
	}
	return app.serve(ctx)
}

// buildRouter assembles the root router: global middleware plus every
// console route behind the edge gate.
func buildRouter(cfg *Config, handler *web.Handler) chi.Router {
	r := chi.NewRouter()

	// Request ID (must be first)
	r.Use(chimiddleware.RequestID)

	// Real IP extraction from proxy headers
	r.Use(chimiddleware.RealIP)

	// Panic recovery
	r.Use(chimiddleware.Recoverer)

	// CORS. The console itself is same-origin; CORS only turns on when
	// explicit cross-origin callers are configured, since a wildcard and
	// cookie credentials cannot be combined.
	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "x-api-key"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Per-IP rate limit
	if cfg.Server.RateLimitRPS > 0 {
		r.Use(httprate.LimitByIP(cfg.Server.RateLimitRPS, time.Minute))
	}

	r.Mount("/", handler.Routes())
	return r
}

// serve runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (app *Application) serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	app.Logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	app.Logger.Info("Server stopped")
	return nil
}
