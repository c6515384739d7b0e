// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Hashmapw/claude-code-hub/internal/models"
)

// UsageRepository handles usage log operations.
type UsageRepository struct {
	db *DB
}

// NewUsageRepository creates a new usage repository.
func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

const usageColumns = `id, key_id, user_id, provider_id, model, endpoint,
	   input_tokens, output_tokens, status_code, duration_ms, created_at`

func scanUsage(row pgx.Row) (*models.UsageLog, error) {
	l := &models.UsageLog{}
	err := row.Scan(
		&l.ID,
		&l.KeyID,
		&l.UserID,
		&l.ProviderID,
		&l.Model,
		&l.Endpoint,
		&l.InputTokens,
		&l.OutputTokens,
		&l.StatusCode,
		&l.DurationMS,
		&l.CreatedAt,
	)
	return l, err
}

// Insert records one relayed request.
func (r *UsageRepository) Insert(ctx context.Context, l *models.UsageLog) error {
	query := `
		INSERT INTO usage_logs (
			id, key_id, user_id, provider_id, model, endpoint,
			input_tokens, output_tokens, status_code, duration_ms, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, query,
		l.ID, l.KeyID, l.UserID, l.ProviderID, l.Model, l.Endpoint,
		l.InputTokens, l.OutputTokens, l.StatusCode, l.DurationMS, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert usage log: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries, optionally filtered by key.
func (r *UsageRepository) ListRecent(ctx context.Context, keyID uuid.UUID, limit int) ([]*models.UsageLog, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		rows pgx.Rows
		err  error
	)
	if keyID == uuid.Nil {
		query := `SELECT ` + usageColumns + ` FROM usage_logs ORDER BY created_at DESC LIMIT $1`
		rows, err = r.db.Query(ctx, query, limit)
	} else {
		query := `SELECT ` + usageColumns + ` FROM usage_logs WHERE key_id = $1 ORDER BY created_at DESC LIMIT $2`
		rows, err = r.db.Query(ctx, query, keyID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list usage logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.UsageLog
	for rows.Next() {
		l, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usage log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// SummarizeSince aggregates usage recorded after the cutoff, optionally
// filtered by key.
func (r *UsageRepository) SummarizeSince(ctx context.Context, keyID uuid.UUID, since time.Time) (*models.UsageSummary, error) {
	var (
		row pgx.Row
	)
	if keyID == uuid.Nil {
		row = r.db.QueryRow(ctx, `
			SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
			FROM usage_logs WHERE created_at >= $1`, since)
	} else {
		row = r.db.QueryRow(ctx, `
			SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
			FROM usage_logs WHERE key_id = $1 AND created_at >= $2`, keyID, since)
	}

	s := &models.UsageSummary{}
	if err := row.Scan(&s.Requests, &s.InputTokens, &s.OutputTokens); err != nil {
		return nil, fmt.Errorf("summarize usage: %w", err)
	}
	return s, nil
}

// PruneOlderThan deletes usage logs older than the cutoff. Run by the
// retention job.
func (r *UsageRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM usage_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune usage logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
