// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Hashmapw/claude-code-hub/internal/models"
	"github.com/Hashmapw/claude-code-hub/internal/pkg/crypto"
	apperrors "github.com/Hashmapw/claude-code-hub/internal/pkg/errors"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeUserStore struct {
	users  map[uuid.UUID]*models.User
	byName map[string]*models.User
	logins int
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{
		users:  make(map[uuid.UUID]*models.User),
		byName: make(map[string]*models.User),
	}
	for _, u := range users {
		s.users[u.ID] = u
		s.byName[u.Username] = u
	}
	return s
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user")
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s.byName[username]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user")
}

func (s *fakeUserStore) RecordLogin(_ context.Context, _ uuid.UUID) error {
	s.logins++
	return nil
}

type fakeKeyStore struct {
	keys map[uuid.UUID]*models.APIKey
}

func newFakeKeyStore(keys ...*models.APIKey) *fakeKeyStore {
	s := &fakeKeyStore{keys: make(map[uuid.UUID]*models.APIKey)}
	for _, k := range keys {
		s.keys[k.ID] = k
	}
	return s
}

func (s *fakeKeyStore) GetByID(_ context.Context, id uuid.UUID) (*models.APIKey, error) {
	if k, ok := s.keys[id]; ok {
		return k, nil
	}
	return nil, apperrors.NotFound("api key")
}

func (s *fakeKeyStore) GetByTokenHash(_ context.Context, hash string) (*models.APIKey, error) {
	for _, k := range s.keys {
		if k.TokenHash == hash {
			return k, nil
		}
	}
	return nil, apperrors.NotFound("api key")
}

func (s *fakeKeyStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.APIKey, error) {
	var out []*models.APIKey
	for _, k := range s.keys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

// ============================================================================
// Fixtures
// ============================================================================

const testPassword = "s3cret-pass"

func testUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := crypto.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
}

func testKey(userID uuid.UUID, token string) *models.APIKey {
	return &models.APIKey{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "console",
		TokenHash:     crypto.HashToken(token),
		CanLoginWebUI: true,
		IsEnabled:     true,
	}
}

func newTestService(t *testing.T, users *fakeUserStore, keys *fakeKeyStore) *Service {
	t.Helper()
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(users, keys, nil, jwtSvc, nil)
}

// ============================================================================
// ValidateKey
// ============================================================================

func TestValidateKeyRawToken(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	svc := newTestService(t, newFakeUserStore(user), newFakeKeyStore(key))

	session, err := svc.ValidateKey(context.Background(), "cch-raw-token", ValidateKeyOptions{})
	if err != nil {
		t.Fatalf("ValidateKey: %v", err)
	}
	if session.User.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, session.User.ID)
	}
	if session.Key.ID != key.ID {
		t.Fatalf("expected key %s, got %s", key.ID, session.Key.ID)
	}
}

func TestValidateKeyMissingToken(t *testing.T) {
	svc := newTestService(t, newFakeUserStore(), newFakeKeyStore())

	_, err := svc.ValidateKey(context.Background(), "", ValidateKeyOptions{})
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestValidateKeyUnknownToken(t *testing.T) {
	svc := newTestService(t, newFakeUserStore(), newFakeKeyStore())

	_, err := svc.ValidateKey(context.Background(), "cch-bogus", ValidateKeyOptions{})
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateKeyDisabledKey(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	key.IsEnabled = false
	svc := newTestService(t, newFakeUserStore(user), newFakeKeyStore(key))

	_, err := svc.ValidateKey(context.Background(), "cch-raw-token", ValidateKeyOptions{})
	if !errors.Is(err, ErrKeyDisabled) {
		t.Fatalf("expected ErrKeyDisabled, got %v", err)
	}
}

func TestValidateKeyExpiredKey(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	past := time.Now().Add(-time.Hour)
	key.ExpiresAt = &past
	svc := newTestService(t, newFakeUserStore(user), newFakeKeyStore(key))

	_, err := svc.ValidateKey(context.Background(), "cch-raw-token", ValidateKeyOptions{})
	if !errors.Is(err, ErrExpiredKey) {
		t.Fatalf("expected ErrExpiredKey, got %v", err)
	}
}

func TestValidateKeyReadOnly(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	key.CanLoginWebUI = false
	svc := newTestService(t, newFakeUserStore(user), newFakeKeyStore(key))

	// Protected page: denied.
	_, err := svc.ValidateKey(context.Background(), "cch-raw-token", ValidateKeyOptions{})
	if !errors.Is(err, ErrWebLoginDenied) {
		t.Fatalf("expected ErrWebLoginDenied, got %v", err)
	}

	// Read-only page: allowed.
	session, err := svc.ValidateKey(context.Background(), "cch-raw-token",
		ValidateKeyOptions{AllowReadOnlyAccess: true})
	if err != nil {
		t.Fatalf("ValidateKey read-only: %v", err)
	}
	if session.CanLoginWebUI() {
		t.Fatal("session should report read-only key")
	}
}

func TestValidateKeyQuotaExceeded(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	key.QuotaLimit = 100
	key.QuotaUsed = 100
	svc := newTestService(t, newFakeUserStore(user), newFakeKeyStore(key))

	_, err := svc.ValidateKey(context.Background(), "cch-raw-token", ValidateKeyOptions{})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	// The console stays reachable with SkipQuotaCheck.
	if _, err := svc.ValidateKey(context.Background(), "cch-raw-token",
		ValidateKeyOptions{SkipQuotaCheck: true}); err != nil {
		t.Fatalf("ValidateKey with SkipQuotaCheck: %v", err)
	}
}

func TestValidateKeyWebToken(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	users := newFakeUserStore(user)
	keys := newFakeKeyStore(key)
	svc := newTestService(t, users, keys)

	token, _, err := svc.JWT().Generate(user, key.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	session, err := svc.ValidateKey(context.Background(), token, ValidateKeyOptions{})
	if err != nil {
		t.Fatalf("ValidateKey web token: %v", err)
	}
	if session.User.Username != "alice" {
		t.Fatalf("expected alice, got %q", session.User.Username)
	}

	// Disabling the key kills the web session before the token expires.
	key.IsEnabled = false
	if _, err := svc.ValidateKey(context.Background(), token, ValidateKeyOptions{}); !errors.Is(err, ErrKeyDisabled) {
		t.Fatalf("expected ErrKeyDisabled after revocation, got %v", err)
	}
}

func TestValidateKeyForgedWebToken(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	svc := newTestService(t, newFakeUserStore(user), newFakeKeyStore(key))

	other := NewJWTService(DefaultJWTConfig("other-secret"))
	forged, _, err := other.Generate(user, key.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	_, err = svc.ValidateKey(context.Background(), forged, ValidateKeyOptions{})
	if err == nil {
		t.Fatal("expected forged token to be rejected")
	}
}

// ============================================================================
// Login
// ============================================================================

func TestLogin(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	users := newFakeUserStore(user)
	svc := newTestService(t, users, newFakeKeyStore(key))

	result, err := svc.Login(context.Background(), "alice", testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.ExpiresAt.Before(time.Now()) {
		t.Fatal("token should expire in the future")
	}
	if users.logins != 1 {
		t.Fatalf("expected 1 recorded login, got %d", users.logins)
	}

	// The minted token round-trips through validation.
	if _, err := svc.ValidateKey(context.Background(), result.Token, ValidateKeyOptions{}); err != nil {
		t.Fatalf("ValidateKey on login token: %v", err)
	}
}

func TestLoginBadPassword(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	svc := newTestService(t, newFakeUserStore(user), newFakeKeyStore(key))

	_, err := svc.Login(context.Background(), "alice", "wrong")
	if !apperrors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, newFakeUserStore(), newFakeKeyStore())

	_, err := svc.Login(context.Background(), "nobody", testPassword)
	if !apperrors.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginNoWebCapableKey(t *testing.T) {
	user := testUser(t)
	key := testKey(user.ID, "cch-raw-token")
	key.CanLoginWebUI = false
	svc := newTestService(t, newFakeUserStore(user), newFakeKeyStore(key))

	_, err := svc.Login(context.Background(), "alice", testPassword)
	if !errors.Is(err, ErrWebLoginDenied) {
		t.Fatalf("expected ErrWebLoginDenied, got %v", err)
	}
}
