// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package redis provides Redis-backed caches.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Hashmapw/claude-code-hub/internal/models"
)

// SessionCache caches validated sessions keyed by token hash so that most
// page loads skip the database. Entries carry a short TTL; key revocation
// calls Invalidate to drop the entry immediately.
type SessionCache struct {
	client *Client
	ttl    time.Duration
}

// NewSessionCache creates a session cache with the given entry TTL.
func NewSessionCache(client *Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SessionCache{client: client, ttl: ttl}
}

// Get returns the cached session for a token hash, or (nil, nil) on a miss.
func (c *SessionCache) Get(ctx context.Context, tokenHash string) (*models.Session, error) {
	data, err := c.client.Get(ctx, c.client.SessionKey(tokenHash))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached session: %w", err)
	}

	session := &models.Session{}
	if err := json.Unmarshal([]byte(data), session); err != nil {
		// A corrupt entry is treated as a miss; the validator will
		// rebuild it from the database.
		_ = c.client.Del(ctx, c.client.SessionKey(tokenHash))
		return nil, nil
	}
	return session, nil
}

// Put stores a validated session.
func (c *SessionCache) Put(ctx context.Context, tokenHash string, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := c.client.Set(ctx, c.client.SessionKey(tokenHash), data, c.ttl); err != nil {
		return fmt.Errorf("cache session: %w", err)
	}
	return nil
}

// Invalidate drops the cached session for a token hash.
func (c *SessionCache) Invalidate(ctx context.Context, tokenHash string) error {
	if err := c.client.Del(ctx, c.client.SessionKey(tokenHash)); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}
