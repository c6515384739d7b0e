// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package basepath

import (
	"strings"
)

// ShouldRewrite is the predicate half of the URL gateway: it decides whether
// a navigation or request target must be corrected for the resolved base
// path. The transform half is Rewrite. Both are pure so every rewrite
// decision is unit-testable without touching global state.
//
// A target is rewritten only when all of these hold:
//   - a non-empty base path has been resolved
//   - the target is a same-origin absolute path (starts with "/")
//   - it is not already prefixed with the base path
//   - it is not an internal asset path (/_next/...)
//   - it does not itself carry a /proxy/<digits> segment (double-prefix guard)
func ShouldRewrite(basePath, target string) bool {
	if basePath == "" || target == "" {
		return false
	}
	if !strings.HasPrefix(target, "/") {
		// Relative paths, fragments, and external URLs (https://...) pass
		// through untouched.
		return false
	}
	if strings.HasPrefix(target, "//") {
		// Protocol-relative URLs are external.
		return false
	}
	if target == basePath || strings.HasPrefix(target, basePath+"/") {
		return false
	}
	if strings.HasPrefix(target, "/_next/") {
		return false
	}
	if proxySegment.MatchString(target) {
		return false
	}
	return true
}

// Rewrite prepends the base path when ShouldRewrite allows it, and returns
// the target unchanged otherwise. Rewriting an already-rewritten target is a
// no-op, so repeated application never double-prepends.
func Rewrite(basePath, target string) string {
	if !ShouldRewrite(basePath, target) {
		return target
	}
	return basePath + target
}

// Join builds a prefix-aware application URL from the resolved base path, a
// locale, and a target path relative to the locale root. This is the
// server-side twin of the client's forced-redirect computation.
func Join(basePath, locale, target string) string {
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return basePath + "/" + locale + target
}
