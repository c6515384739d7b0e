// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package basepath

import (
	"testing"
)

func TestRewrite(t *testing.T) {
	const base = "/proxy/4000"

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"absolute app path", "/en/dashboard", base + "/en/dashboard"},
		{"path with query", "/zh-CN/login?from=/dashboard", base + "/zh-CN/login?from=/dashboard"},
		{"external https", "https://example.com/api", "https://example.com/api"},
		{"external protocol-relative", "//cdn.example.com/x.js", "//cdn.example.com/x.js"},
		{"fragment", "#usage", "#usage"},
		{"relative path", "settings", "settings"},
		{"already prefixed", base + "/en/dashboard", base + "/en/dashboard"},
		{"exactly base path", base, base},
		{"internal asset", "/_next/static/app.js", "/_next/static/app.js"},
		{"carries own proxy segment", "/proxy/3000/en/login", "/proxy/3000/en/login"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rewrite(base, tt.target); got != tt.want {
				t.Fatalf("Rewrite(%q, %q) = %q, want %q", base, tt.target, got, tt.want)
			}
		})
	}
}

func TestRewriteEmptyBasePathIsNoop(t *testing.T) {
	for _, target := range []string{"/en/dashboard", "/v1/models", "https://example.com"} {
		if got := Rewrite("", target); got != target {
			t.Fatalf("Rewrite with empty base changed %q to %q", target, got)
		}
	}
}

func TestRewriteIdempotent(t *testing.T) {
	const base = "/proxy/4000"
	targets := []string{"/en/dashboard", "/zh-TW/my-usage", "/api/health"}
	for _, target := range targets {
		once := Rewrite(base, target)
		twice := Rewrite(base, once)
		if once != twice {
			t.Fatalf("double rewrite of %q: first %q, second %q", target, once, twice)
		}
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		base   string
		locale string
		target string
		want   string
	}{
		{"/proxy/4000", "zh-CN", "/login?from=/dashboard", "/proxy/4000/zh-CN/login?from=/dashboard"},
		{"", "en", "/dashboard/quotas/users", "/en/dashboard/quotas/users"},
		{"", "en", "dashboard", "/en/dashboard"},
	}
	for _, tt := range tests {
		if got := Join(tt.base, tt.locale, tt.target); got != tt.want {
			t.Fatalf("Join(%q, %q, %q) = %q, want %q", tt.base, tt.locale, tt.target, got, tt.want)
		}
	}
}
