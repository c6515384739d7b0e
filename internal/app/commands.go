// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Hashmapw/claude-code-hub/internal/models"
	"github.com/Hashmapw/claude-code-hub/internal/pkg/crypto"
	"github.com/Hashmapw/claude-code-hub/internal/repository/postgres"
)

// RunMigrations runs database migrations
func RunMigrations(cfgFile, action string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	switch action {
	case "up":
		return db.Migrate(ctx)
	case "status":
		return db.MigrationStatus(ctx)
	default:
		return fmt.Errorf("unknown migration action: %s", action)
	}
}

// ResetAdminPassword resets the admin user password or creates the admin if missing.
func ResetAdminPassword(cfgFile, newPassword string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := userRepo.GetByUsername(ctx, "admin")
	if err != nil {
		// Admin doesn't exist - create it
		adminUser := &models.User{
			Username:     "admin",
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, adminUser); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		fmt.Println("Admin user created with new password.")
		return nil
	}

	admin.PasswordHash = hash
	admin.IsActive = true
	if err := userRepo.Update(ctx, admin); err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}

	fmt.Println("Admin password reset successfully.")
	return nil
}

// CreateKey mints an API key for a user and prints the plaintext token
// once. Only the hash is stored.
func CreateKey(cfgFile, username, name string, webLogin bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.New(ctx, cfg.Database.URL, postgres.Options{
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	user, err := postgres.NewUserRepository(db).GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("user %q: %w", username, err)
	}

	token, err := crypto.GenerateKey("cch")
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	key := &models.APIKey{
		UserID:        user.ID,
		Name:          name,
		TokenHash:     crypto.HashToken(token),
		CanLoginWebUI: webLogin,
		IsEnabled:     true,
	}
	if err := postgres.NewKeyRepository(db).Create(ctx, key); err != nil {
		return fmt.Errorf("store key: %w", err)
	}

	fmt.Printf("API key for %s (%s):\n%s\n", username, name, token)
	fmt.Println("Save this token — it will not be shown again.")
	return nil
}
