// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"context"
	"net/http"

	"github.com/Hashmapw/claude-code-hub/internal/i18n"
	"github.com/Hashmapw/claude-code-hub/internal/models"
)

type contextKey string

const (
	sessionContextKey  contextKey = "session"
	localeContextKey   contextKey = "locale"
	readOnlyContextKey contextKey = "read_only"
)

// withSession stores the validated session on the request context.
func withSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the validated session, or nil on public pages.
func SessionFromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionContextKey).(*models.Session)
	return session
}

// withLocale stores the active locale on the request context.
func withLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey, locale)
}

// LocaleFromContext returns the active locale for the request.
func LocaleFromContext(ctx context.Context) string {
	locale, _ := ctx.Value(localeContextKey).(string)
	return locale
}

// withReadOnly marks the request as served under read-only access.
func withReadOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlyContextKey, true)
}

// IsReadOnly reports whether the request was admitted with a key that
// lacks the web login capability.
func IsReadOnly(ctx context.Context) bool {
	ro, _ := ctx.Value(readOnlyContextKey).(bool)
	return ro
}

// PageData contains the data passed to page templates.
type PageData struct {
	Title       string
	Active      string // active nav item
	Locale      string
	AssetPrefix string
	ReadOnly    bool
	Session     *models.Session
	Error       string
	Data        interface{}
}

// T translates a message key in the page's locale. Called from templates.
func (p *PageData) T(key string) string {
	return i18n.T(p.Locale, key)
}

// pageData assembles the common template fields from the request context.
func pageData(r *http.Request, title, active string) *PageData {
	ctx := r.Context()
	return &PageData{
		Title:    title,
		Active:   active,
		Locale:   LocaleFromContext(ctx),
		ReadOnly: IsReadOnly(ctx),
		Session:  SessionFromContext(ctx),
	}
}
