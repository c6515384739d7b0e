// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Hashmapw/claude-code-hub/internal/models"
	"github.com/Hashmapw/claude-code-hub/internal/pkg/crypto"
	apperrors "github.com/Hashmapw/claude-code-hub/internal/pkg/errors"
	"github.com/Hashmapw/claude-code-hub/internal/services/auth"
)

// ============================================================================
// Fakes
// ============================================================================

type gateUserStore struct {
	user *models.User
}

func (s *gateUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, apperrors.NotFound("user")
}

func (s *gateUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if s.user != nil && s.user.Username == username {
		return s.user, nil
	}
	return nil, apperrors.NotFound("user")
}

func (s *gateUserStore) RecordLogin(_ context.Context, _ uuid.UUID) error { return nil }

type gateKeyStore struct {
	key *models.APIKey
}

func (s *gateKeyStore) GetByID(_ context.Context, id uuid.UUID) (*models.APIKey, error) {
	if s.key != nil && s.key.ID == id {
		return s.key, nil
	}
	return nil, apperrors.NotFound("api key")
}

func (s *gateKeyStore) GetByTokenHash(_ context.Context, hash string) (*models.APIKey, error) {
	if s.key != nil && s.key.TokenHash == hash {
		return s.key, nil
	}
	return nil, apperrors.NotFound("api key")
}

func (s *gateKeyStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.APIKey, error) {
	if s.key != nil && s.key.UserID == userID {
		return []*models.APIKey{s.key}, nil
	}
	return nil, nil
}

// ============================================================================
// Setup
// ============================================================================

const gateToken = "cch-gate-test-token"

func newGateFixture(t *testing.T, mutate func(*models.User, *models.APIKey)) func(http.Handler) http.Handler {
	t.Helper()

	user := &models.User{
		ID:       uuid.New(),
		Username: "alice",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	key := &models.APIKey{
		ID:            uuid.New(),
		UserID:        user.ID,
		Name:          "console",
		TokenHash:     crypto.HashToken(gateToken),
		CanLoginWebUI: true,
		IsEnabled:     true,
	}
	if mutate != nil {
		mutate(user, key)
	}

	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("gate-test-secret"))
	svc := auth.NewService(&gateUserStore{user: user}, &gateKeyStore{key: key}, nil, jwtSvc, nil)
	return Gate(GateConfig{Auth: svc})
}

func get(t *testing.T, gate func(http.Handler) http.Handler, path string, cookie string, next http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	if next == nil {
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	r := httptest.NewRequest("GET", path, nil)
	if cookie != "" {
		r.Header.Set("Cookie", AuthCookie+"="+cookie)
	}
	w := httptest.NewRecorder()
	gate(next).ServeHTTP(w, r)
	return w
}

func authCookieCleared(w *httptest.ResponseRecorder) bool {
	for _, c := range w.Result().Cookies() {
		if c.Name == AuthCookie && c.Value == "" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

// ============================================================================
// Scenarios
// ============================================================================

func TestGateAuthenticatedRequestPasses(t *testing.T) {
	gate := newGateFixture(t, nil)

	var gotSession *models.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = SessionFromContext(r.Context())
		if LocaleFromContext(r.Context()) != "zh-CN" {
			t.Errorf("locale = %q, want zh-CN", LocaleFromContext(r.Context()))
		}
		w.WriteHeader(http.StatusOK)
	})

	w := get(t, gate, "/zh-CN/dashboard", gateToken, next)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotSession == nil || gotSession.User.Username != "alice" {
		t.Fatal("expected session on request context")
	}
}

func TestGateLocaleRedirect(t *testing.T) {
	gate := newGateFixture(t, nil)

	w := get(t, gate, "/dashboard/quotas/users", gateToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 redirect document", w.Code)
	}
	if w.Header().Get("Location") != "" {
		t.Fatal("redirect document must not carry a Location header")
	}
	body := w.Body.String()
	if !strings.Contains(body, `"/en/dashboard/quotas/users"`) {
		t.Fatalf("body missing locale-prefixed target:\n%s", body)
	}
	if !strings.Contains(body, "hubResolveBasePath") {
		t.Fatal("redirect document missing the resolver script")
	}
}

func TestGateMissingTokenRedirectsToLogin(t *testing.T) {
	gate := newGateFixture(t, nil)

	w := get(t, gate, "/zh-TW/dashboard", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 redirect document", w.Code)
	}
	if !strings.Contains(w.Body.String(), `/zh-TW/login?from=%2Fdashboard`) {
		t.Fatalf("body missing login target:\n%s", w.Body.String())
	}
	// No cookie existed, so none is cleared.
	if authCookieCleared(w) {
		t.Fatal("missing token must not clear the auth cookie")
	}
}

func TestGateInvalidTokenClearsCookie(t *testing.T) {
	gate := newGateFixture(t, nil)

	w := get(t, gate, "/zh-TW/dashboard", "cch-bogus-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 redirect document", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `/zh-TW/login?from=%2Fdashboard`) {
		t.Fatalf("body missing login target:\n%s", body)
	}
	if !authCookieCleared(w) {
		t.Fatal("invalid token must clear the auth cookie")
	}
	if !strings.Contains(body, "auth-token=; Path=/; Expires=Thu, 01 Jan 1970") {
		t.Fatal("redirect script must clear the cookie client-side too")
	}
}

func TestGateRelayPassthrough(t *testing.T) {
	gate := newGateFixture(t, nil)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	// No cookie, no locale: the relay path bypasses both.
	w := get(t, gate, "/v1/chat/completions", "", next)
	if !called {
		t.Fatal("relay request must reach the next handler untouched")
	}
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGateStaticPassthrough(t *testing.T) {
	gate := newGateFixture(t, nil)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	get(t, gate, "/_next/static/chunks/gateway.js", "", next)
	if !called {
		t.Fatal("static asset must bypass the gate")
	}
}

func TestGatePublicPathNeedsNoSession(t *testing.T) {
	gate := newGateFixture(t, nil)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if SessionFromContext(r.Context()) != nil {
			t.Error("public page should not carry a session")
		}
	})
	get(t, gate, "/en/login", "", next)
	if !called {
		t.Fatal("public page must reach the handler without a cookie")
	}
}

func TestGateDeprecatedPathRedirects(t *testing.T) {
	gate := newGateFixture(t, nil)

	w := get(t, gate, "/en/dashboard/quotas/keys", gateToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 redirect document", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"/en/dashboard/quotas/users"`) {
		t.Fatalf("body missing replacement target:\n%s", w.Body.String())
	}
}

func TestGateReadOnlyKey(t *testing.T) {
	gate := newGateFixture(t, func(_ *models.User, k *models.APIKey) {
		k.CanLoginWebUI = false
	})

	// Protected page: bounced to the read-only area, session kept.
	w := get(t, gate, "/en/dashboard", gateToken, nil)
	if !strings.Contains(w.Body.String(), `"/en/my-usage"`) {
		t.Fatalf("expected redirect to read-only area:\n%s", w.Body.String())
	}
	if authCookieCleared(w) {
		t.Fatal("read-only bounce must keep the session cookie")
	}

	// Read-only page: admitted with the read-only flag set.
	var readOnly bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		readOnly = IsReadOnly(r.Context())
	})
	get(t, gate, "/en/my-usage", gateToken, next)
	if !readOnly {
		t.Fatal("read-only page should carry the read-only flag")
	}

	// The live tail endpoint is read-only too: the my-usage page embeds it.
	called := false
	next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	get(t, gate, "/api/usage/ws", gateToken, next)
	if !called {
		t.Fatal("a read-only key must reach the usage tail endpoint")
	}
}

func TestGateQuotaExceededStillBrowses(t *testing.T) {
	gate := newGateFixture(t, func(_ *models.User, k *models.APIKey) {
		k.QuotaLimit = 10
		k.QuotaUsed = 10
	})

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	get(t, gate, "/en/dashboard", gateToken, next)
	if !called {
		t.Fatal("an over-quota key must still reach the console")
	}
}

// ============================================================================
// Downstream redirect interception
// ============================================================================

func TestGateConvertsDownstreamRedirect(t *testing.T) {
	gate := newGateFixture(t, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	w := get(t, gate, "/en/dashboard/quotas/users", gateToken, next)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want converted 200 document", w.Code)
	}
	if w.Header().Get("Location") != "" {
		t.Fatal("Location header must be stripped")
	}
	if !strings.Contains(w.Body.String(), `"/en/dashboard"`) {
		t.Fatalf("body missing locale-prefixed target:\n%s", w.Body.String())
	}
}

func TestGateLeavesExternalRedirectAlone(t *testing.T) {
	gate := newGateFixture(t, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://example.com/elsewhere", http.StatusSeeOther)
	})
	w := get(t, gate, "/en/dashboard", gateToken, next)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want original 303", w.Code)
	}
	if w.Header().Get("Location") != "https://example.com/elsewhere" {
		t.Fatalf("Location = %q", w.Header().Get("Location"))
	}
}
