// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package crypto holds the hashing helpers used for passwords and API keys.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances security and login latency.
const bcryptCost = 12

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SHA256String computes the hex-encoded SHA-256 hash of a string.
func SHA256String(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// HashAPIKey hashes an API key for storage. SHA-256 rather than bcrypt:
// keys are high-entropy and validated on every proxied request.
func HashAPIKey(apiKey string) string {
	return SHA256String(apiKey)
}

// CheckAPIKey compares an API key with its hash in constant time.
func CheckAPIKey(apiKey, hash string) bool {
	computed := SHA256String(apiKey)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// HashToken hashes an opaque bearer token for cache keys and storage.
func HashToken(token string) string {
	return SHA256String(token)
}

// GenerateKey returns a new random API key with the given prefix
// (e.g. "cch-" + 32 bytes of URL-safe base64).
func GenerateKey(prefix string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return prefix + base64.RawURLEncoding.EncodeToString(raw), nil
}
