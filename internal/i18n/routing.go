// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package i18n

import (
	"net/http"
	"strings"
)

// RouteResult is the outcome of locale routing for one request: either the
// path already carries a locale segment (continue, with the locale filled
// in), or the viewer must be redirected to the locale-prefixed path.
type RouteResult struct {
	// Locale is the active locale for the request.
	Locale string

	// Redirect is true when the request path lacks a locale segment.
	Redirect bool

	// Location is the locale-prefixed path (with query preserved) to
	// redirect to. Only set when Redirect is true. It is expressed
	// relative to the application root; the caller is responsible for
	// making it survive any reverse-proxy prefix.
	Location string
}

// Route decides locale handling for a request.
func Route(r *http.Request) RouteResult {
	path := r.URL.Path

	if loc := LocaleFromPath(path); loc != "" {
		return RouteResult{Locale: loc}
	}

	// API endpoints are localeless; they only need the negotiated locale
	// for error bodies.
	if strings.HasPrefix(path, "/api/") {
		return RouteResult{Locale: Negotiate(r)}
	}

	loc := Negotiate(r)
	location := "/" + loc + path
	if path == "/" {
		location = "/" + loc
	}
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}
	return RouteResult{Locale: loc, Redirect: true, Location: location}
}
