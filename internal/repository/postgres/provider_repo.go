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

// ProviderRepository handles upstream provider account operations.
type ProviderRepository struct {
	db *DB
}

// NewProviderRepository creates a new provider repository.
func NewProviderRepository(db *DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

const providerColumns = `id, name, base_url, api_key, priority, is_enabled,
	   max_tpm, created_at, updated_at`

func scanProvider(row pgx.Row) (*models.Provider, error) {
	p := &models.Provider{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.BaseURL,
		&p.APIKey,
		&p.Priority,
		&p.IsEnabled,
		&p.MaxTPM,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// Create inserts a new provider account.
func (r *ProviderRepository) Create(ctx context.Context, p *models.Provider) error {
	query := `
		INSERT INTO providers (
			id, name, base_url, api_key, priority, is_enabled, max_tpm,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	now := time.Now().UTC()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.BaseURL, p.APIKey, p.Priority, p.IsEnabled, p.MaxTPM,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return apperrors.AlreadyExists("provider")
		}
		return fmt.Errorf("create provider: %w", err)
	}
	return nil
}

// GetByID retrieves a provider by ID.
func (r *ProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`

	p, err := scanProvider(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("provider")
		}
		return nil, fmt.Errorf("get provider by id: %w", err)
	}
	return p, nil
}

// List returns all providers ordered by priority.
func (r *ProviderRepository) List(ctx context.Context) ([]*models.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers ORDER BY priority, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var providers []*models.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// ListEnabled returns enabled providers ordered by priority. The relay
// picks the first healthy one.
func (r *ProviderRepository) ListEnabled(ctx context.Context) ([]*models.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE is_enabled ORDER BY priority, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list enabled providers: %w", err)
	}
	defer rows.Close()

	var providers []*models.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// Update persists mutable provider fields.
func (r *ProviderRepository) Update(ctx context.Context, p *models.Provider) error {
	query := `
		UPDATE providers
		SET name = $2, base_url = $3, api_key = $4, priority = $5,
			is_enabled = $6, max_tpm = $7, updated_at = $8
		WHERE id = $1`

	p.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.BaseURL, p.APIKey, p.Priority, p.IsEnabled, p.MaxTPM,
		p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("provider")
	}
	return nil
}

// Delete removes a provider.
func (r *ProviderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM providers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("provider")
	}
	return nil
}
