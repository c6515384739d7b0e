// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package postgres

import (
	"context"
	"fmt"
)

// schemaStatements holds the schema in dependency order. Every statement
// is idempotent so Migrate can run on every boot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		last_login_at TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id               UUID PRIMARY KEY,
		user_id          UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name             TEXT NOT NULL,
		token_hash       TEXT NOT NULL UNIQUE,
		can_login_web_ui BOOLEAN NOT NULL DEFAULT FALSE,
		is_enabled       BOOLEAN NOT NULL DEFAULT TRUE,
		quota_limit      BIGINT NOT NULL DEFAULT 0,
		quota_used       BIGINT NOT NULL DEFAULT 0,
		expires_at       TIMESTAMPTZ,
		last_used_at     TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_api_keys_user_id ON api_keys(user_id)`,
	`CREATE TABLE IF NOT EXISTS providers (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		base_url   TEXT NOT NULL,
		api_key    TEXT NOT NULL,
		priority   INTEGER NOT NULL DEFAULT 100,
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		max_tpm    BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS usage_logs (
		id            UUID PRIMARY KEY,
		key_id        UUID NOT NULL,
		user_id       UUID NOT NULL,
		provider_id   UUID NOT NULL,
		model         TEXT NOT NULL DEFAULT '',
		endpoint      TEXT NOT NULL DEFAULT '',
		input_tokens  BIGINT NOT NULL DEFAULT 0,
		output_tokens BIGINT NOT NULL DEFAULT 0,
		status_code   INTEGER NOT NULL DEFAULT 0,
		duration_ms   BIGINT NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_usage_logs_key_created ON usage_logs(key_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_usage_logs_created ON usage_logs(created_at)`,
}

// Migrate applies the schema. Safe to run on every boot.
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// MigrationStatus reports which tables exist.
func (db *DB) MigrationStatus(ctx context.Context) error {
	for _, table := range []string{"users", "api_keys", "providers", "usage_logs"} {
		var exists bool
		err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
			table).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		state := "missing"
		if exists {
			state = "present"
		}
		fmt.Printf("%-12s %s\n", table, state)
	}
	return nil
}
