// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Hashmapw/claude-code-hub/internal/models"
	apperrors "github.com/Hashmapw/claude-code-hub/internal/pkg/errors"
)

// KeyRepository handles API key database operations. Keys are stored by
// token hash only; the plaintext token is shown once at creation.
type KeyRepository struct {
	db *DB
}

// NewKeyRepository creates a new key repository.
func NewKeyRepository(db *DB) *KeyRepository {
	return &KeyRepository{db: db}
}

const keyColumns = `id, user_id, name, token_hash, can_login_web_ui, is_enabled,
	   quota_limit, quota_used, expires_at, last_used_at, created_at, updated_at`

func scanKey(row pgx.Row) (*models.APIKey, error) {
	key := &models.APIKey{}
	err := row.Scan(
		&key.ID,
		&key.UserID,
		&key.Name,
		&key.TokenHash,
		&key.CanLoginWebUI,
		&key.IsEnabled,
		&key.QuotaLimit,
		&key.QuotaUsed,
		&key.ExpiresAt,
		&key.LastUsedAt,
		&key.CreatedAt,
		&key.UpdatedAt,
	)
	return key, err
}

// Create inserts a new API key.
func (r *KeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	query := `
		INSERT INTO api_keys (
			id, user_id, name, token_hash, can_login_web_ui, is_enabled,
			quota_limit, quota_used, expires_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`

	now := time.Now().UTC()
	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	key.CreatedAt = now
	key.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		key.ID,
		key.UserID,
		key.Name,
		key.TokenHash,
		key.CanLoginWebUI,
		key.IsEnabled,
		key.QuotaLimit,
		key.QuotaUsed,
		key.ExpiresAt,
		key.CreatedAt,
		key.UpdatedAt,
	)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return apperrors.AlreadyExists("api key")
		}
		if IsForeignKeyError(err) {
			return apperrors.NotFound("user")
		}
		return fmt.Errorf("create api key: %w", err)
	}

	return nil
}

// GetByID retrieves a key by ID.
func (r *KeyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error) {
	query := `SELECT ` + keyColumns + ` FROM api_keys WHERE id = $1`

	key, err := scanKey(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("api key")
		}
		return nil, fmt.Errorf("get api key by id: %w", err)
	}
	return key, nil
}

// GetByTokenHash retrieves a key by its token hash. This is the lookup
// every authenticated request performs.
func (r *KeyRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.APIKey, error) {
	query := `SELECT ` + keyColumns + ` FROM api_keys WHERE token_hash = $1`

	key, err := scanKey(r.db.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("api key")
		}
		return nil, fmt.Errorf("get api key by token hash: %w", err)
	}
	return key, nil
}

// ListByUser returns all keys owned by a user.
func (r *KeyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.APIKey, error) {
	query := `SELECT ` + keyColumns + ` FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// List returns all keys ordered by creation time.
func (r *KeyRepository) List(ctx context.Context) ([]*models.APIKey, error) {
	query := `SELECT ` + keyColumns + ` FROM api_keys ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Update persists mutable key fields.
func (r *KeyRepository) Update(ctx context.Context, key *models.APIKey) error {
	query := `
		UPDATE api_keys
		SET name = $2, can_login_web_ui = $3, is_enabled = $4,
			quota_limit = $5, expires_at = $6, updated_at = $7
		WHERE id = $1`

	key.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, query,
		key.ID, key.Name, key.CanLoginWebUI, key.IsEnabled,
		key.QuotaLimit, key.ExpiresAt, key.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("api key")
	}
	return nil
}

// AddUsage atomically adds consumed tokens to the key's quota counter and
// stamps last_used_at.
func (r *KeyRepository) AddUsage(ctx context.Context, id uuid.UUID, tokens int64) error {
	query := `
		UPDATE api_keys
		SET quota_used = quota_used + $2, last_used_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, tokens, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("add key usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("api key")
	}
	return nil
}

// ResetQuotas zeroes the usage counters of every key. Run by the monthly
// quota rollover job.
func (r *KeyRepository) ResetQuotas(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE api_keys SET quota_used = 0`)
	if err != nil {
		return 0, fmt.Errorf("reset quotas: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpired removes keys whose expiry passed before the cutoff.
func (r *KeyRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM api_keys WHERE expires_at IS NOT NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired keys: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a key.
func (r *KeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("api key")
	}
	return nil
}
