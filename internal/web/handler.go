// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package web serves the admin console: the edge gate, the server-rendered
// pages, the auth API, and the versioned relay endpoints.
package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Hashmapw/claude-code-hub/internal/models"
	"github.com/Hashmapw/claude-code-hub/internal/pkg/logger"
	"github.com/Hashmapw/claude-code-hub/internal/services/auth"
)

// ProviderService lists upstream provider accounts.
type ProviderService interface {
	List(ctx context.Context) ([]*models.Provider, error)
	ListEnabled(ctx context.Context) ([]*models.Provider, error)
}

// UsageService records and reads usage logs.
type UsageService interface {
	Insert(ctx context.Context, l *models.UsageLog) error
	ListRecent(ctx context.Context, keyID uuid.UUID, limit int) ([]*models.UsageLog, error)
	SummarizeSince(ctx context.Context, keyID uuid.UUID, since time.Time) (*models.UsageSummary, error)
}

// KeyService reads and updates API keys for the quota pages and the relay.
type KeyService interface {
	List(ctx context.Context) ([]*models.APIKey, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.APIKey, error)
	AddUsage(ctx context.Context, id uuid.UUID, tokens int64) error
}

// Config configures the web handler.
type Config struct {
	// SecureCookies marks issued cookies Secure. Off for plain-HTTP dev.
	SecureCookies bool

	// AssetPrefix is prepended to static asset URLs at render time.
	// Assets sit under /_next/, which the client-side rewriters skip,
	// so behind a known proxy prefix the server must emit it itself.
	AssetPrefix string

	// RelayTimeout bounds one upstream relay request.
	RelayTimeout time.Duration
}

// Handler serves every route of the console.
type Handler struct {
	cfg       Config
	auth      *auth.Service
	providers ProviderService
	usage     UsageService
	keys      KeyService
	log       *logger.Logger
	hub       *usageHub
	relay     *http.Client
}

// NewHandler creates the web handler.
func NewHandler(cfg Config, authSvc *auth.Service, providers ProviderService, usage UsageService, keys KeyService, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.RelayTimeout == 0 {
		cfg.RelayTimeout = 5 * time.Minute
	}
	cfg.AssetPrefix = strings.TrimSuffix(cfg.AssetPrefix, "/")
	return &Handler{
		cfg:       cfg,
		auth:      authSvc,
		providers: providers,
		usage:     usage,
		keys:      keys,
		log:       log.Named("web"),
		hub:       newUsageHub(log),
		relay:     &http.Client{Timeout: cfg.RelayTimeout},
	}
}

// Routes mounts every route behind the edge gate.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(Gate(GateConfig{Auth: h.auth, Logger: h.log}))

	// Static assets. Served before locale handling ever applies.
	r.Get("/_next/static/chunks/gateway.js", h.handleGatewayScript)
	r.Get("/_next/static/css/console.css", h.handleStylesheet)
	r.Get("/favicon.ico", h.handleFavicon)

	// Versioned relay endpoints. Bearer-authenticated, locale-free.
	r.HandleFunc("/v1/*", h.handleRelay)
	r.HandleFunc("/v1beta/*", h.handleRelay)

	// JSON API.
	r.Get("/api/health", h.handleHealth)
	r.Post("/api/auth/login", h.handleAPILogin)
	r.Post("/api/auth/logout", h.handleAPILogout)
	r.Get("/api/usage/ws", h.handleUsageWS)

	// Server-rendered pages, always locale-prefixed past the gate.
	r.Route("/{locale}", func(r chi.Router) {
		r.Get("/", h.handleHome)
		r.Get("/login", h.handleLoginPage)
		r.Post("/login", h.handleLoginSubmit)
		r.Get("/logout", h.handleLogout)
		r.Get("/usage-doc", h.handleUsageDoc)
		r.Get("/my-usage", h.handleMyUsage)
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/dashboard/providers", h.handleProviders)
		r.Get("/dashboard/quotas/users", h.handleQuotas)
		r.Get("/dashboard/usage", h.handleUsageLogs)
	})

	return r
}
