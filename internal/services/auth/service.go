// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hashmapw/claude-code-hub/internal/models"
	"github.com/Hashmapw/claude-code-hub/internal/pkg/crypto"
	apperrors "github.com/Hashmapw/claude-code-hub/internal/pkg/errors"
	"github.com/Hashmapw/claude-code-hub/internal/pkg/logger"
)

// Validation errors. The edge gate maps all of them to a login redirect;
// the relay maps them to 401/403 responses.
var (
	ErrMissingToken   = errors.New("missing auth token")
	ErrExpiredKey     = errors.New("key has expired")
	ErrKeyDisabled    = errors.New("key is disabled")
	ErrUserDisabled   = errors.New("user is disabled")
	ErrWebLoginDenied = errors.New("key cannot access the web console")
	ErrQuotaExceeded  = errors.New("key quota exceeded")
)

// UserStore is the subset of the user repository the validator needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID) error
}

// KeyStore is the subset of the key repository the validator needs.
type KeyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.APIKey, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.APIKey, error)
}

// SessionCache caches validated sessions keyed by token hash.
type SessionCache interface {
	Get(ctx context.Context, tokenHash string) (*models.Session, error)
	Put(ctx context.Context, tokenHash string, session *models.Session) error
	Invalidate(ctx context.Context, tokenHash string) error
}

// ValidateKeyOptions tunes a single validation call.
type ValidateKeyOptions struct {
	// AllowReadOnlyAccess accepts keys without the web login capability.
	// Set for the read-only pages; clear for protected ones.
	AllowReadOnlyAccess bool

	// SkipQuotaCheck accepts keys over quota. The web console stays
	// reachable so the owner can see why requests fail.
	SkipQuotaCheck bool
}

// Service validates auth tokens and performs web logins.
type Service struct {
	users UserStore
	keys  KeyStore
	cache SessionCache
	jwt   *JWTService
	log   *logger.Logger
}

// NewService creates the auth service. cache may be nil, in which case
// every validation hits the database.
func NewService(users UserStore, keys KeyStore, cache SessionCache, jwtSvc *JWTService, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		users: users,
		keys:  keys,
		cache: cache,
		jwt:   jwtSvc,
		log:   log.Named("auth"),
	}
}

// JWT exposes the token service for handlers that set cookies.
func (s *Service) JWT() *JWTService {
	return s.jwt
}

// ============================================================================
// Validation
// ============================================================================

// ValidateKey validates an auth token and returns the session it denotes.
// The token is either a signed web session token (from the login form) or
// a raw API key (pasted into the cookie or sent as a bearer token).
func (s *Service) ValidateKey(ctx context.Context, token string, opts ValidateKeyOptions) (*models.Session, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	tokenHash := crypto.HashToken(token)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, tokenHash)
		if err != nil {
			s.log.Warn("session cache read failed", "error", err)
		} else if cached != nil {
			if err := s.checkSession(cached, opts); err != nil {
				return nil, err
			}
			return cached, nil
		}
	}

	var (
		session *models.Session
		err     error
	)
	if looksLikeJWT(token) {
		session, err = s.validateWebToken(ctx, token)
	} else {
		session, err = s.validateRawKey(ctx, tokenHash)
	}
	if err != nil {
		return nil, err
	}

	if err := s.checkSession(session, opts); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, tokenHash, session); err != nil {
			s.log.Warn("session cache write failed", "error", err)
		}
	}

	return session, nil
}

// validateWebToken resolves a signed web session token to a live session.
// The backing user and key are re-read so revocation takes effect before
// the token expires.
func (s *Service) validateWebToken(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidClaims
	}
	keyID, err := uuid.Parse(claims.KeyID)
	if err != nil {
		return nil, ErrInvalidClaims
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	key, err := s.keys.GetByID(ctx, keyID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load key: %w", err)
	}

	return &models.Session{User: user, Key: key}, nil
}

// validateRawKey resolves a raw API key (by hash) to a session.
func (s *Service) validateRawKey(ctx context.Context, tokenHash string) (*models.Session, error) {
	key, err := s.keys.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load key by hash: %w", err)
	}

	user, err := s.users.GetByID(ctx, key.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load key owner: %w", err)
	}

	return &models.Session{User: user, Key: key}, nil
}

// checkSession applies the liveness and capability rules.
func (s *Service) checkSession(session *models.Session, opts ValidateKeyOptions) error {
	if session.User == nil || session.Key == nil {
		return ErrInvalidToken
	}
	if !session.User.IsActive {
		return ErrUserDisabled
	}
	if !session.Key.IsEnabled {
		return ErrKeyDisabled
	}
	if session.Key.IsExpired() {
		return ErrExpiredKey
	}
	if !opts.SkipQuotaCheck && session.Key.QuotaExceeded() {
		return ErrQuotaExceeded
	}
	if !opts.AllowReadOnlyAccess && !session.Key.CanLoginWebUI {
		return ErrWebLoginDenied
	}
	return nil
}

// looksLikeJWT distinguishes signed web tokens from raw API keys. Raw
// keys never contain dots.
func looksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2
}

// ============================================================================
// Web Login
// ============================================================================

// LoginResult is a successful web login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Session   *models.Session
}

// Login authenticates a username/password pair and mints a web session
// token bound to the user's first web-capable key.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Burn a hash comparison so missing and wrong-password
			// logins take the same time.
			crypto.CheckPassword(password, "$2a$12$......................................................")
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !crypto.CheckPassword(password, user.PasswordHash) {
		s.log.Info("login rejected", "username", username, "reason", "bad password")
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	key, err := s.webLoginKey(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.Generate(user, key.ID)
	if err != nil {
		return nil, fmt.Errorf("mint web token: %w", err)
	}

	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		s.log.Warn("record login failed", "user_id", user.ID, "error", err)
	}

	s.log.Info("web login", "username", user.Username, "key", key.Name)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Session:   &models.Session{User: user, Key: key},
	}, nil
}

// webLoginKey picks the user's first valid web-capable key.
func (s *Service) webLoginKey(ctx context.Context, userID uuid.UUID) (*models.APIKey, error) {
	keys, err := s.keys.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	for _, key := range keys {
		if key.CanLoginWebUI && key.IsValid() {
			return key, nil
		}
	}
	return nil, ErrWebLoginDenied
}

// Logout drops the cached session for a token so revocation is immediate.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" || s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, crypto.HashToken(token)); err != nil {
		s.log.Warn("session cache invalidate failed", "error", err)
	}
}
