// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package i18n

import (
	"net/http/httptest"
	"testing"
)

func TestLocaleFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/en/dashboard", "en"},
		{"/zh-CN/login", "zh-CN"},
		{"/zh-TW", "zh-TW"},
		{"/dashboard", ""},
		{"/", ""},
		{"/english/dashboard", ""},
	}
	for _, tt := range tests {
		if got := LocaleFromPath(tt.path); got != tt.want {
			t.Fatalf("LocaleFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestStripLocale(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/en/dashboard", "/dashboard"},
		{"/zh-CN/login", "/login"},
		{"/zh-TW", "/"},
		{"/dashboard", "/dashboard"},
		{"/ja/my-usage/logs", "/my-usage/logs"},
	}
	for _, tt := range tests {
		if got := StripLocale(tt.path); got != tt.want {
			t.Fatalf("StripLocale(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNegotiate(t *testing.T) {
	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.Header.Set("Cookie", LocaleCookie+"=zh-TW")
	r.Header.Set("Accept-Language", "ja")
	if got := Negotiate(r); got != "zh-TW" {
		t.Fatalf("Negotiate with cookie = %q, want zh-TW", got)
	}

	r = httptest.NewRequest("GET", "/dashboard", nil)
	r.Header.Set("Accept-Language", "fr-FR, ja;q=0.8, en;q=0.5")
	if got := Negotiate(r); got != "ja" {
		t.Fatalf("Negotiate via Accept-Language = %q, want ja", got)
	}

	r = httptest.NewRequest("GET", "/dashboard", nil)
	r.Header.Set("Accept-Language", "zh-HK, en;q=0.5")
	if got := Negotiate(r); got != "zh-CN" {
		t.Fatalf("Negotiate primary-subtag fallback = %q, want zh-CN", got)
	}

	r = httptest.NewRequest("GET", "/dashboard", nil)
	if got := Negotiate(r); got != DefaultLocale {
		t.Fatalf("Negotiate default = %q, want %q", got, DefaultLocale)
	}
}

func TestRoute(t *testing.T) {
	r := httptest.NewRequest("GET", "/en/dashboard", nil)
	res := Route(r)
	if res.Redirect {
		t.Fatal("locale-prefixed path should not redirect")
	}
	if res.Locale != "en" {
		t.Fatalf("Locale = %q, want en", res.Locale)
	}

	r = httptest.NewRequest("GET", "/dashboard?tab=keys", nil)
	r.Header.Set("Accept-Language", "zh-CN")
	res = Route(r)
	if !res.Redirect {
		t.Fatal("unprefixed path should redirect")
	}
	if res.Location != "/zh-CN/dashboard?tab=keys" {
		t.Fatalf("Location = %q, want /zh-CN/dashboard?tab=keys", res.Location)
	}

	r = httptest.NewRequest("GET", "/", nil)
	res = Route(r)
	if !res.Redirect || res.Location != "/"+DefaultLocale {
		t.Fatalf("root Location = %q, want /%s", res.Location, DefaultLocale)
	}
}

func TestT(t *testing.T) {
	if got := T("zh-CN", "login.title"); got != "登录" {
		t.Fatalf("T(zh-CN, login.title) = %q", got)
	}
	// Missing key falls back to English, then to the key itself.
	if got := T("ru", "login.title"); got == "login.title" {
		t.Fatal("ru catalog should translate login.title")
	}
	if got := T("ja", "no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown key should echo, got %q", got)
	}
	for _, loc := range Locales {
		if _, ok := catalogs[loc]; !ok {
			t.Fatalf("missing catalog for locale %q", loc)
		}
	}
}
