// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is an access key bound to a user. Keys authenticate both the
// versioned relay endpoints (always) and the web UI (only when
// CanLoginWebUI is set; keys without it are limited to read-only pages).
type APIKey struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	TokenHash     string     `json:"-"`
	CanLoginWebUI bool       `json:"can_login_web_ui"`
	IsEnabled     bool       `json:"is_enabled"`
	QuotaLimit    int64      `json:"quota_limit"` // tokens per month, 0 = unlimited
	QuotaUsed     int64      `json:"quota_used"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsExpired reports whether the key has passed its expiry.
func (k *APIKey) IsExpired() bool {
	return k.ExpiresAt != nil && time.Now().After(*k.ExpiresAt)
}

// IsValid reports whether the key is enabled and not expired.
func (k *APIKey) IsValid() bool {
	return k.IsEnabled && !k.IsExpired()
}

// QuotaExceeded reports whether the key has used up its quota.
func (k *APIKey) QuotaExceeded() bool {
	return k.QuotaLimit > 0 && k.QuotaUsed >= k.QuotaLimit
}
