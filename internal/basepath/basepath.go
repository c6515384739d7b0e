// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package basepath infers the reverse-proxy path prefix the dashboard is
// served under. The server never learns the externally visible prefix (the
// proxy strips it before forwarding), so the only hint is the pathname the
// browser observes. The same inference runs in two places: here, for
// server-side URL helpers and tests, and in the generated client script
// (see script.go), which is rendered from the same tables so the two copies
// cannot drift.
package basepath

import (
	"regexp"
	"strings"
	"sync"
)

// Locales enumerates the supported UI locales. The order is significant:
// when a pathname is scanned for a locale boundary, the earliest matching
// segment wins.
var Locales = []string{"en", "zh-CN", "zh-TW", "ja", "ru"}

// DefaultLocale is used when no locale can be derived from the request.
const DefaultLocale = "en"

// RouteKeywords are application route segments that must never appear inside
// a base path. A candidate containing one of them was corrupted by an earlier
// bad redirect and is truncated at the first occurrence (see Clean).
var RouteKeywords = []string{
	"dashboard",
	"settings",
	"login",
	"logout",
	"my-usage",
	"usage-doc",
	"internal",
	"api",
	"v1",
	"v1beta",
	"_next",
}

// apiMarkers are top-level path markers that terminate a base-path candidate.
var apiMarkers = []string{"/api/", "/v1/", "/_next/"}

// proxySegment matches the shortest prefix ending in a /proxy/<digits>
// segment, the pattern IDE preview proxies use for port forwarding.
var proxySegment = regexp.MustCompile(`^(.*?/proxy/\d+)(?:/|$)`)

// Resolve infers the base path from the given browser pathname. It never
// fails: when no pattern matches, the base path is empty and all URLs are
// treated as same-origin-root. The result is already cleaned.
func Resolve(pathname string) string {
	if pathname == "" || pathname == "/" {
		return ""
	}

	// 1. Proxy port segment is the strongest signal.
	if m := proxySegment.FindStringSubmatch(pathname); m != nil {
		return Clean(m[1])
	}

	// 2. Earliest locale segment marks the boundary.
	if idx := earliestLocaleIndex(pathname); idx >= 0 {
		return Clean(pathname[:idx])
	}

	// 3. Earliest API marker.
	if idx := earliestMarkerIndex(pathname); idx >= 0 {
		return Clean(pathname[:idx])
	}

	// 4. A bare prefix with no further segments: the whole path is the
	// candidate unless it already starts with a locale or app route.
	trimmed := strings.TrimSuffix(pathname, "/")
	if trimmed != "" && !startsWithKnownSegment(trimmed) {
		return Clean(trimmed)
	}

	return ""
}

// Clean truncates a base-path candidate at the earliest occurrence of an
// application-route keyword or locale segment. A corrupted URL (produced by
// an earlier buggy redirect) can leak app segments into the candidate;
// without this guard the corruption would be cached for the page lifetime.
// Clean is idempotent: Clean(Clean(p)) == Clean(p).
//
// Known ambiguity: a legitimate proxy prefix containing a guarded substring
// (a segment literally named "api", say) is truncated too. No such prefix
// has been observed in practice; the guard errs toward losing a prefix over
// caching a corrupt one.
func Clean(candidate string) string {
	if candidate == "" {
		return ""
	}

	cut := len(candidate)
	for _, kw := range RouteKeywords {
		if idx := strings.Index(candidate, kw); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	for _, loc := range Locales {
		if idx := localeSegmentIndex(candidate, loc); idx >= 0 && idx < cut {
			// Truncate before the "/" that opens the locale segment.
			cut = idx
		}
	}

	cleaned := candidate[:cut]
	return strings.TrimSuffix(cleaned, "/")
}

// earliestLocaleIndex returns the index of the earliest "/<locale>" segment
// that is followed by "/" or end of string, or -1.
func earliestLocaleIndex(pathname string) int {
	best := -1
	for _, loc := range Locales {
		if idx := localeSegmentIndex(pathname, loc); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}

// localeSegmentIndex finds "/<locale>" within p at a segment boundary.
func localeSegmentIndex(p, locale string) int {
	needle := "/" + locale
	from := 0
	for {
		idx := strings.Index(p[from:], needle)
		if idx < 0 {
			return -1
		}
		abs := from + idx
		end := abs + len(needle)
		if end == len(p) || p[end] == '/' {
			return abs
		}
		from = abs + 1
	}
}

func earliestMarkerIndex(pathname string) int {
	best := -1
	for _, m := range apiMarkers {
		if idx := strings.Index(pathname, m); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}

// startsWithKnownSegment reports whether the first path segment is a locale
// or an application route keyword.
func startsWithKnownSegment(p string) bool {
	seg := strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	for _, loc := range Locales {
		if seg == loc {
			return true
		}
	}
	for _, kw := range RouteKeywords {
		if seg == kw {
			return true
		}
	}
	return false
}

// IsLocale reports whether s is a supported locale code.
func IsLocale(s string) bool {
	for _, loc := range Locales {
		if s == loc {
			return true
		}
	}
	return false
}

// ============================================================================
// Cached resolver
// ============================================================================

// Resolver memoizes the first resolution for the lifetime of a page load.
// Once resolved the value is immutable: later calls return the cached value
// even if the observed pathname has changed. The explicit Reset/IsInitialized
// lifecycle exists for test isolation; production code never resets.
type Resolver struct {
	mu       sync.Mutex
	resolved bool
	value    string
}

// Resolve returns the cached base path, computing it from pathname on the
// first call only.
func (r *Resolver) Resolve(pathname string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.resolved {
		r.value = Resolve(pathname)
		r.resolved = true
	}
	return r.value
}

// IsInitialized reports whether a base path has been resolved and cached.
func (r *Resolver) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved
}

// Reset clears the cached value. Test isolation only.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = false
	r.value = ""
}
