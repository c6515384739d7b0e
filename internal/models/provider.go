// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider is an upstream API provider account the relay forwards to.
type Provider struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	BaseURL    string    `json:"base_url"`
	APIKey     string    `json:"-"`
	Priority   int       `json:"priority"` // lower is preferred
	IsEnabled  bool      `json:"is_enabled"`
	MaxTPM     int64     `json:"max_tpm"` // tokens per minute, 0 = unlimited
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
