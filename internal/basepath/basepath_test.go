// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package basepath

import (
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		pathname string
		want     string
	}{
		{"empty", "", ""},
		{"root", "/", ""},
		{"proxy port segment", "/proxy/4000/zh-CN/dashboard", "/proxy/4000"},
		{"proxy port segment at end", "/proxy/8080", "/proxy/8080"},
		{"proxy port with trailing slash", "/proxy/8080/", "/proxy/8080"},
		{"nested proxy prefix", "/workspace/abc/proxy/3000/en/login", "/workspace/abc/proxy/3000"},
		{"locale at root", "/en/dashboard", ""},
		{"locale zh-CN at root", "/zh-CN/dashboard/quotas", ""},
		{"prefix before locale", "/preview-9f2c/en/dashboard", "/preview-9f2c"},
		{"prefix before zh-TW", "/u/42/zh-TW/my-usage", "/u/42"},
		{"locale-like segment not a locale", "/envs/en/dashboard", "/envs"},
		{"api marker", "/some-prefix/v1/chat/completions", "/some-prefix"},
		{"next marker", "/some-prefix/_next/static/chunk.js", "/some-prefix"},
		{"whole path fallback", "/preview-9f2c", "/preview-9f2c"},
		{"whole path fallback trailing slash", "/preview-9f2c/", "/preview-9f2c"},
		{"known route at root", "/dashboard", ""},
		{"known route login", "/login", ""},
		{"bare locale", "/ja", ""},
		{"bare locale trailing slash", "/ja/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.pathname); got != tt.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tt.pathname, got, tt.want)
			}
		})
	}
}

func TestResolvePollutionCleanup(t *testing.T) {
	tests := []struct {
		name     string
		pathname string
		want     string
	}{
		// A keyword leaked into the candidate by a corrupted redirect is
		// truncated, keeping only what strictly precedes it.
		{"keyword before locale", "/foo/login/en/dashboard", "/foo"},
		{"dashboard before locale", "/dashboard/en/settings", ""},
		{"api inside candidate", "/srv/api-gw/en/dashboard", "/srv"},
		{"keyword in fallback candidate", "/foo/logout-now", "/foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.pathname); got != tt.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tt.pathname, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	candidates := []string{
		"",
		"/proxy/4000",
		"/foo/login",
		"/foo/en/bar",
		"/dashboard",
		"/preview-9f2c",
	}
	for _, c := range candidates {
		once := Clean(c)
		twice := Clean(once)
		if once != twice {
			t.Fatalf("Clean not idempotent for %q: first %q, second %q", c, once, twice)
		}
	}
}

func TestResolverCachesFirstResult(t *testing.T) {
	r := &Resolver{}

	if r.IsInitialized() {
		t.Fatal("resolver should not be initialized before first Resolve")
	}

	first := r.Resolve("/proxy/4000/en/dashboard")
	if first != "/proxy/4000" {
		t.Fatalf("first Resolve = %q, want %q", first, "/proxy/4000")
	}
	if !r.IsInitialized() {
		t.Fatal("resolver should be initialized after first Resolve")
	}

	// The location has "changed": the cached value must win.
	second := r.Resolve("/other/zh-CN/login")
	if second != first {
		t.Fatalf("second Resolve = %q, want cached %q", second, first)
	}

	r.Reset()
	if r.IsInitialized() {
		t.Fatal("resolver should not be initialized after Reset")
	}
	third := r.Resolve("/other/zh-CN/login")
	if third != "/other" {
		t.Fatalf("Resolve after Reset = %q, want %q", third, "/other")
	}
}

func TestIsLocale(t *testing.T) {
	for _, loc := range Locales {
		if !IsLocale(loc) {
			t.Fatalf("IsLocale(%q) = false, want true", loc)
		}
	}
	for _, not := range []string{"", "de", "zh", "EN", "en-US"} {
		if IsLocale(not) {
			t.Fatalf("IsLocale(%q) = true, want false", not)
		}
	}
}
