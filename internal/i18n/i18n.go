// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package i18n provides the locale set, message catalogs, and the
// locale-prefixed routing used by every server-rendered page. A locale is
// always exactly one path segment immediately after the base path.
package i18n

import (
	"net/http"
	"strings"

	"github.com/Hashmapw/claude-code-hub/internal/basepath"
)

// LocaleCookie stores the viewer's locale preference.
const LocaleCookie = "hub_locale"

// Locales and DefaultLocale are shared with the base-path resolver so the
// routing layer and the generated client script agree on the enumerated set.
var Locales = basepath.Locales

// DefaultLocale is the fallback when negotiation finds nothing.
const DefaultLocale = basepath.DefaultLocale

// IsLocale reports whether s is a supported locale code.
func IsLocale(s string) bool {
	return basepath.IsLocale(s)
}

// LocaleFromPath extracts the locale from the first path segment, or ""
// when the path is not locale-prefixed.
func LocaleFromPath(path string) string {
	seg := firstSegment(path)
	if IsLocale(seg) {
		return seg
	}
	return ""
}

// StripLocale removes a leading locale segment, yielding the canonical
// application path. "/zh-CN/dashboard" becomes "/dashboard"; a bare locale
// becomes "/".
func StripLocale(path string) string {
	seg := firstSegment(path)
	if !IsLocale(seg) {
		return path
	}
	rest := strings.TrimPrefix(path, "/"+seg)
	if rest == "" {
		return "/"
	}
	return rest
}

// Negotiate picks a locale for the request: cookie first, then
// Accept-Language, then the default.
func Negotiate(r *http.Request) string {
	if c, err := r.Cookie(LocaleCookie); err == nil && IsLocale(c.Value) {
		return c.Value
	}
	if loc := matchAcceptLanguage(r.Header.Get("Accept-Language")); loc != "" {
		return loc
	}
	return DefaultLocale
}

// matchAcceptLanguage returns the first supported locale in the header's
// preference order. Matching is by exact tag, then by primary subtag
// ("zh-HK" falls back to the first zh-* locale in the enumerated order).
func matchAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if IsLocale(tag) {
			return tag
		}
		primary := strings.SplitN(tag, "-", 2)[0]
		for _, loc := range Locales {
			if loc == primary || strings.HasPrefix(loc, primary+"-") {
				return loc
			}
		}
	}
	return ""
}

func firstSegment(path string) string {
	seg := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	return seg
}

// T translates key for the given locale, falling back to the default
// locale's catalog and finally to the key itself.
func T(locale, key string) string {
	if cat, ok := catalogs[locale]; ok {
		if msg, ok := cat[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}
