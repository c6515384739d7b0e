// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package routes

import (
	"testing"
)

func TestClassifyRaw(t *testing.T) {
	tests := []struct {
		path string
		want Class
	}{
		{"/v1/chat/completions", ClassAPIProxy},
		{"/v1beta/models", ClassAPIProxy},
		{"/_next/static/app.js", ClassStaticAsset},
		{"/favicon.ico", ClassStaticAsset},
		{"/en/dashboard", ClassProtected},
		{"/login", ClassProtected}, // raw table does not know public paths
		{"/v1", ClassProtected},    // bare /v1 is not a relay endpoint
	}
	for _, tt := range tests {
		if got := ClassifyRaw(tt.path); got != tt.want {
			t.Fatalf("ClassifyRaw(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Class
	}{
		{"/login", ClassPublic},
		{"/login/totp", ClassPublic},
		{"/usage-doc", ClassPublic},
		{"/api/auth/login", ClassPublic},
		{"/api/health", ClassPublic},
		{"/my-usage", ClassReadOnly},
		{"/my-usage/logs", ClassReadOnly},
		{"/api/usage/ws", ClassReadOnly},
		{"/dashboard", ClassProtected},
		{"/dashboard/quotas/users", ClassProtected},
		{"/", ClassProtected},
		{"/loginx", ClassProtected}, // prefix match respects segment boundaries
	}
	for _, tt := range tests {
		if got := Classify(tt.path); got != tt.want {
			t.Fatalf("Classify(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestDeprecatedTarget(t *testing.T) {
	if got := DeprecatedTarget("/dashboard/quotas/keys"); got != "/dashboard/quotas/users" {
		t.Fatalf("DeprecatedTarget = %q", got)
	}
	if got := DeprecatedTarget("/dashboard"); got != "" {
		t.Fatalf("DeprecatedTarget for current path = %q, want empty", got)
	}
}
