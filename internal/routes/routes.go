// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package routes classifies request paths for the edge gate. Classification
// is derived per request from an ordered table of (matcher, class) pairs;
// nothing is stored.
package routes

import (
	"strings"
)

// Class is the access class of a request path.
type Class int

const (
	// ClassAPIProxy covers the versioned relay endpoints, which carry
	// their own bearer authentication and bypass locale and cookie
	// handling entirely.
	ClassAPIProxy Class = iota

	// ClassStaticAsset covers internal assets and the favicon.
	ClassStaticAsset

	// ClassPublic covers paths reachable without a session.
	ClassPublic

	// ClassReadOnly covers paths reachable by keys that lack the web
	// login capability.
	ClassReadOnly

	// ClassProtected covers everything else.
	ClassProtected
)

// String returns the class name for logging.
func (c Class) String() string {
	switch c {
	case ClassAPIProxy:
		return "api-proxy"
	case ClassStaticAsset:
		return "static-asset"
	case ClassPublic:
		return "public"
	case ClassReadOnly:
		return "read-only"
	default:
		return "protected"
	}
}

// matcher matches a canonical (locale-stripped) path.
type matcher func(path string) bool

func prefix(p string) matcher {
	return func(path string) bool {
		return path == p || strings.HasPrefix(path, p+"/")
	}
}

func rawPrefix(p string) matcher {
	return func(path string) bool { return strings.HasPrefix(path, p) }
}

func exact(p string) matcher {
	return func(path string) bool { return path == p }
}

// rawTable is evaluated against the request path before any locale
// handling. Order matters; first match wins.
var rawTable = []struct {
	match matcher
	class Class
}{
	{rawPrefix("/v1/"), ClassAPIProxy},
	{rawPrefix("/v1beta/"), ClassAPIProxy},
	{rawPrefix("/_next/"), ClassStaticAsset},
	{exact("/favicon.ico"), ClassStaticAsset},
}

// canonicalTable is evaluated against the locale-stripped path.
var canonicalTable = []struct {
	match matcher
	class Class
}{
	{prefix("/login"), ClassPublic},
	{prefix("/usage-doc"), ClassPublic},
	{prefix("/api/auth"), ClassPublic},
	{exact("/api/health"), ClassPublic},
	{prefix("/my-usage"), ClassReadOnly},
	// The live tail is readable by any valid key; the page embedding it
	// decides what else the viewer sees.
	{exact("/api/usage/ws"), ClassReadOnly},
}

// ClassifyRaw classifies a request path before locale resolution. It only
// ever returns ClassAPIProxy, ClassStaticAsset, or ClassProtected (meaning
// "continue with locale and auth handling").
func ClassifyRaw(path string) Class {
	for _, e := range rawTable {
		if e.match(path) {
			return e.class
		}
	}
	return ClassProtected
}

// Classify classifies a canonical (locale-stripped) path.
func Classify(canonicalPath string) Class {
	for _, e := range canonicalTable {
		if e.match(canonicalPath) {
			return e.class
		}
	}
	return ClassProtected
}

// deprecated maps retired page paths to their replacements. The gate emits
// a prefix-surviving redirect for these after the session check passes.
var deprecated = map[string]string{
	"/dashboard/quotas/keys": "/dashboard/quotas/users",
}

// DeprecatedTarget returns the replacement path for a retired page, or ""
// when the path is current.
func DeprecatedTarget(canonicalPath string) string {
	return deprecated[canonicalPath]
}
