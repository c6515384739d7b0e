// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hashmapw/claude-code-hub/internal/i18n"
	"github.com/Hashmapw/claude-code-hub/internal/models"
	"github.com/Hashmapw/claude-code-hub/internal/services/auth"
)

// summaryWindow is the aggregation window for the dashboard cards.
const summaryWindow = 30 * 24 * time.Hour

// safeFrom validates the post-login return path. Anything that is not a
// clean absolute path falls back to the dashboard, so the from parameter
// cannot be abused as an open redirect.
func safeFrom(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return "/dashboard"
	}
	if strings.ContainsAny(from, "\\\r\n") {
		return "/dashboard"
	}
	return from
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	// The gate's interceptor converts this into a self-resolving
	// document with the locale prefix restored.
	http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
}

// ============================================================================
// Login / Logout
// ============================================================================

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, i18n.T(LocaleFromContext(r.Context()), "login.title"), "login")
	data.Data = safeFrom(r.URL.Query().Get("from"))
	h.render(w, "login", data)
}

func (h *Handler) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	locale := LocaleFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	result, err := h.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		msgKey := "login.error.invalid"
		if err == auth.ErrWebLoginDenied {
			msgKey = "login.error.denied"
		}
		data := pageData(r, i18n.T(locale, "login.title"), "login")
		data.Error = i18n.T(locale, msgKey)
		data.Data = safeFrom(r.URL.Query().Get("from"))
		w.WriteHeader(http.StatusUnauthorized)
		h.render(w, "login", data)
		return
	}

	setAuthCookie(w, result.Token, result.ExpiresAt, h.cfg.SecureCookies)
	http.Redirect(w, r, safeFrom(r.URL.Query().Get("from")), http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), authToken(r))
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ============================================================================
// Dashboard pages
// ============================================================================

type dashboardView struct {
	Summary   *models.UsageSummary
	Providers []*models.Provider
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locale := LocaleFromContext(ctx)

	summary, err := h.usage.SummarizeSince(ctx, uuid.Nil, time.Now().Add(-summaryWindow))
	if err != nil {
		h.log.Error("dashboard summary", "error", err)
		summary = &models.UsageSummary{}
	}
	providers, err := h.providers.List(ctx)
	if err != nil {
		h.log.Error("dashboard providers", "error", err)
	}

	data := pageData(r, i18n.T(locale, "dashboard.title"), "dashboard")
	data.Data = &dashboardView{Summary: summary, Providers: providers}
	h.render(w, "dashboard", data)
}

func (h *Handler) handleProviders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	providers, err := h.providers.List(ctx)
	if err != nil {
		h.log.Error("list providers", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := pageData(r, i18n.T(LocaleFromContext(ctx), "providers.title"), "providers")
	data.Data = providers
	h.render(w, "providers", data)
}

func (h *Handler) handleQuotas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := SessionFromContext(ctx)

	var (
		keys []*models.APIKey
		err  error
	)
	if session.User.IsAdmin() {
		keys, err = h.keys.List(ctx)
	} else {
		keys, err = h.keys.ListByUser(ctx, session.User.ID)
	}
	if err != nil {
		h.log.Error("list keys", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := pageData(r, i18n.T(LocaleFromContext(ctx), "quotas.title"), "quotas")
	data.Data = keys
	h.render(w, "quotas", data)
}

func (h *Handler) handleUsageLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logs, err := h.usage.ListRecent(ctx, uuid.Nil, 100)
	if err != nil {
		h.log.Error("list usage logs", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := pageData(r, i18n.T(LocaleFromContext(ctx), "usage.title"), "usage")
	data.Data = logs
	h.render(w, "usage", data)
}

// ============================================================================
// Read-only pages
// ============================================================================

type myUsageView struct {
	Summary *models.UsageSummary
	Logs    []*models.UsageLog
}

func (h *Handler) handleMyUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := SessionFromContext(ctx)

	summary, err := h.usage.SummarizeSince(ctx, session.Key.ID, time.Now().Add(-summaryWindow))
	if err != nil {
		h.log.Error("my-usage summary", "error", err)
		summary = &models.UsageSummary{}
	}
	logs, err := h.usage.ListRecent(ctx, session.Key.ID, 50)
	if err != nil {
		h.log.Error("my-usage logs", "error", err)
	}

	data := pageData(r, i18n.T(LocaleFromContext(ctx), "usage.title"), "my-usage")
	data.Data = &myUsageView{Summary: summary, Logs: logs}
	h.render(w, "my-usage", data)
}

func (h *Handler) handleUsageDoc(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, i18n.T(LocaleFromContext(r.Context()), "usage.title"), "usage-doc")
	h.render(w, "usage-doc", data)
}
