// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package auth provides token validation for the web console and relay.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Hashmapw/claude-code-hub/internal/models"
)

// JWT errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// JWTConfig contains configuration for the web token service.
type JWTConfig struct {
	// Secret is the signing key (required)
	Secret string

	// Issuer is the token issuer claim
	Issuer string

	// TokenTTL is the web session lifetime (default: 24 hours)
	TokenTTL time.Duration

	// TokenIDGenerator generates unique token IDs (default: UUID)
	TokenIDGenerator func() string
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:   secret,
		Issuer:   "claude-code-hub",
		TokenTTL: 24 * time.Hour,
		TokenIDGenerator: func() string {
			return uuid.New().String()
		},
	}
}

// Claims represents the JWT claims of a web session token.
type Claims struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	KeyID    string          `json:"key_id"`
	jwt.RegisteredClaims
}

// JWTService signs and validates web session tokens.
type JWTService struct {
	mu     sync.RWMutex
	config JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	if config.Secret == "" {
		panic("jwt: secret is required")
	}
	if config.Issuer == "" {
		config.Issuer = "claude-code-hub"
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = 24 * time.Hour
	}
	if config.TokenIDGenerator == nil {
		config.TokenIDGenerator = func() string {
			return uuid.New().String()
		}
	}
	return &JWTService{config: config}
}

// UpdateSecret replaces the signing secret for key rotation.
func (s *JWTService) UpdateSecret(secret string) {
	s.mu.Lock()
	s.config.Secret = secret
	s.mu.Unlock()
}

// Generate signs a web session token for a user and the key they logged
// in with.
func (s *JWTService) Generate(user *models.User, keyID uuid.UUID) (string, time.Time, error) {
	s.mu.RLock()
	secret := s.config.Secret
	ttl := s.config.TokenTTL
	issuer := s.config.Issuer
	tokenIDGen := s.config.TokenIDGenerator
	s.mu.RUnlock()

	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
		KeyID:    keyID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenIDGen(),
			Issuer:    issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign web token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// Validate checks a web session token and returns its claims.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	s.mu.RLock()
	secret := s.config.Secret
	s.mu.RUnlock()

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, mapJWTError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// TokenTTL returns the configured web session lifetime.
func (s *JWTService) TokenTTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.TokenTTL
}

// mapJWTError maps jwt-go errors to our custom errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrInvalidToken
	}
}
