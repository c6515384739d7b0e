// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Hashmapw/claude-code-hub/internal/i18n"
	"github.com/Hashmapw/claude-code-hub/internal/pkg/logger"
	"github.com/Hashmapw/claude-code-hub/internal/routes"
	"github.com/Hashmapw/claude-code-hub/internal/services/auth"
)

// GateConfig configures the edge gate middleware.
type GateConfig struct {
	Auth   *auth.Service
	Logger *logger.Logger
}

// Gate is the edge middleware in front of every request. It decides, in
// order: relay and static passthrough, locale routing, access class,
// session validation, and deprecated-path redirects. Page redirects are
// emitted as self-resolving documents, never Location headers.
func Gate(cfg GateConfig) func(http.Handler) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("gate")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Relay and static traffic carries no locale and no
			// session cookie semantics.
			switch routes.ClassifyRaw(r.URL.Path) {
			case routes.ClassAPIProxy, routes.ClassStaticAsset:
				next.ServeHTTP(w, r)
				return
			}

			// Locale routing. Paths without a locale segment are
			// bounced to the negotiated locale.
			route := i18n.Route(r)
			if route.Redirect {
				if err := writeRedirectDoc(w, route.Locale, route.Location, false); err != nil {
					log.Error("write locale redirect", "error", err)
				}
				return
			}
			locale := route.Locale
			if c, err := r.Cookie(i18n.LocaleCookie); err != nil || c.Value != locale {
				setLocaleCookie(w, i18n.LocaleCookie, locale)
			}
			ctx := withLocale(r.Context(), locale)

			canonical := i18n.StripLocale(r.URL.Path)
			class := routes.Classify(canonical)

			if class == routes.ClassPublic {
				next.ServeHTTP(interceptRedirects(w, locale), r.WithContext(ctx))
				return
			}

			loginTarget := loginRedirectTarget(locale, canonical, r.URL.RawQuery)

			token := authToken(r)
			if token == "" {
				// No cookie to clear; just point at the login page.
				if err := writeRedirectDoc(w, locale, loginTarget, false); err != nil {
					log.Error("write login redirect", "error", err)
				}
				return
			}

			session, err := cfg.Auth.ValidateKey(ctx, token, auth.ValidateKeyOptions{
				AllowReadOnlyAccess: class == routes.ClassReadOnly,
				SkipQuotaCheck:      true,
			})
			if err != nil {
				if errors.Is(err, auth.ErrWebLoginDenied) {
					// The key is live, just not console-capable.
					// Send it to the read-only area instead of
					// killing the session.
					if err := writeRedirectDoc(w, locale, "/"+locale+"/my-usage", false); err != nil {
						log.Error("write read-only redirect", "error", err)
					}
					return
				}
				log.Info("session rejected", "path", canonical, "reason", err)
				if err := writeRedirectDoc(w, locale, loginTarget, true); err != nil {
					log.Error("write login redirect", "error", err)
				}
				return
			}

			// Authenticated. Retired paths redirect before rendering.
			if target := routes.DeprecatedTarget(canonical); target != "" {
				if err := writeRedirectDoc(w, locale, "/"+locale+target, false); err != nil {
					log.Error("write deprecated redirect", "error", err)
				}
				return
			}

			ctx = withSession(ctx, session)
			if class == routes.ClassReadOnly && !session.CanLoginWebUI() {
				ctx = withReadOnly(ctx)
			}

			next.ServeHTTP(interceptRedirects(w, locale), r.WithContext(ctx))
		})
	}
}

// loginRedirectTarget builds the locale-prefixed login path carrying the
// canonical origin so login can return the viewer where they started.
func loginRedirectTarget(locale, canonical, rawQuery string) string {
	from := canonical
	if rawQuery != "" {
		from += "?" + rawQuery
	}
	return "/" + locale + "/login?from=" + url.QueryEscape(from)
}

// interceptRedirects wraps the response writer so any Location-header
// redirect a downstream handler issues becomes a self-resolving document.
// A Location that is not a clean absolute path (external URL, protocol-
// relative, or empty) passes through untouched.
func interceptRedirects(w http.ResponseWriter, locale string) http.ResponseWriter {
	return &redirectInterceptor{ResponseWriter: w, locale: locale}
}

type redirectInterceptor struct {
	http.ResponseWriter
	locale      string
	intercepted bool
	wrote       bool
}

func (ri *redirectInterceptor) WriteHeader(code int) {
	if ri.wrote {
		return
	}
	ri.wrote = true

	if code >= http.StatusMovedPermanently && code <= http.StatusPermanentRedirect && code != http.StatusNotModified {
		loc := ri.Header().Get("Location")
		if strings.HasPrefix(loc, "/") && !strings.HasPrefix(loc, "//") {
			target := loc
			if i18n.LocaleFromPath(target) == "" {
				target = "/" + ri.locale + target
			}
			ri.Header().Del("Location")
			ri.intercepted = true
			_ = writeRedirectDoc(ri.ResponseWriter, ri.locale, target, false)
			return
		}
	}
	ri.ResponseWriter.WriteHeader(code)
}

func (ri *redirectInterceptor) Write(b []byte) (int, error) {
	if !ri.wrote {
		ri.WriteHeader(http.StatusOK)
	}
	if ri.intercepted {
		// Swallow the original redirect body; the document already
		// went out.
		return len(b), nil
	}
	return ri.ResponseWriter.Write(b)
}
