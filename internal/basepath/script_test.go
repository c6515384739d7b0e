// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package basepath

import (
	"strings"
	"testing"
)

func TestClientRuntimeContainsSharedTables(t *testing.T) {
	js := ClientRuntime()

	for _, loc := range Locales {
		if !strings.Contains(js, `"`+loc+`"`) {
			t.Fatalf("client runtime missing locale %q", loc)
		}
	}
	for _, kw := range RouteKeywords {
		if !strings.Contains(js, `"`+kw+`"`) {
			t.Fatalf("client runtime missing route keyword %q", kw)
		}
	}
	for _, fn := range []string{"hubResolveBasePath", "hubClean", "__hubGatewayInstalled", "__hubGatewayReset", "__hubForceRedirect"} {
		if !strings.Contains(js, fn) {
			t.Fatalf("client runtime missing %q", fn)
		}
	}
	// Exactly one serialization of the resolver per script.
	if n := strings.Count(js, "function hubResolveBasePath"); n != 1 {
		t.Fatalf("client runtime contains %d resolver copies, want 1", n)
	}
}

func TestClientRuntimeRewritesForms(t *testing.T) {
	js := ClientRuntime()

	// Forms navigate like anchors do: the initial pass, the observer, and
	// a submit-capture fallback all have to cover form[action].
	for _, fragment := range []string{
		"function rewriteForm",
		`"a[href], form[action]"`,
		`"action"`,
		`addEventListener("submit"`,
	} {
		if !strings.Contains(js, fragment) {
			t.Fatalf("client runtime missing form handling %q", fragment)
		}
	}
}

func TestClientRuntimeStable(t *testing.T) {
	if ClientRuntime() != ClientRuntime() {
		t.Fatal("ClientRuntime should return an identical script on every call")
	}
}

func TestRedirectScript(t *testing.T) {
	js, err := RedirectScript("/zh-TW/login?from=%2Fdashboard", false)
	if err != nil {
		t.Fatalf("RedirectScript: %v", err)
	}
	if !strings.Contains(js, `"/zh-TW/login?from=%2Fdashboard"`) {
		t.Fatalf("redirect script missing target, got:\n%s", js)
	}
	if !strings.Contains(js, "location.replace") {
		t.Fatal("redirect script must navigate via location.replace")
	}
	if strings.Contains(js, "auth-token=;") {
		t.Fatal("redirect script should not clear the cookie unless asked")
	}
	if n := strings.Count(js, "function hubResolveBasePath"); n != 1 {
		t.Fatalf("redirect script contains %d resolver copies, want 1", n)
	}
}

func TestRedirectScriptClearsCookie(t *testing.T) {
	js, err := RedirectScript("/en/login?from=%2Fdashboard", true)
	if err != nil {
		t.Fatalf("RedirectScript: %v", err)
	}
	if !strings.Contains(js, "auth-token=; Path=/; Expires=Thu, 01 Jan 1970") {
		t.Fatalf("redirect script missing cookie clear, got:\n%s", js)
	}
}
