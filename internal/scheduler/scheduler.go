// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package scheduler runs the periodic maintenance jobs: usage log
// retention, expired key cleanup, and the monthly quota rollover.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Hashmapw/claude-code-hub/internal/pkg/logger"
)

// Config holds scheduler configuration
type Config struct {
	// UsageRetention is how long usage logs are kept
	UsageRetention time.Duration

	// PruneSchedule is the cron spec for the retention job
	PruneSchedule string

	// QuotaResetSchedule is the cron spec for the quota rollover
	QuotaResetSchedule string

	// JobTimeout bounds one job run
	JobTimeout time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		UsageRetention:     90 * 24 * time.Hour,
		PruneSchedule:      "17 3 * * *", // nightly, off the hour
		QuotaResetSchedule: "0 0 1 * *",  // first of the month
		JobTimeout:         10 * time.Minute,
	}
}

// UsageStore is the pruning surface of the usage repository.
type UsageStore interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// KeyStore is the maintenance surface of the key repository.
type KeyStore interface {
	ResetQuotas(ctx context.Context) (int64, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler coordinates the cron entries.
type Scheduler struct {
	config *Config
	cron   *cron.Cron
	usage  UsageStore
	keys   KeyStore
	log    *logger.Logger

	mu      sync.Mutex
	running bool
}

// New creates a scheduler. Jobs are registered on Start.
func New(config *Config, usage UsageStore, keys KeyStore, log *logger.Logger) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		config: config,
		cron:   cron.New(),
		usage:  usage,
		keys:   keys,
		log:    log.Named("scheduler"),
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.PruneSchedule, s.runPrune); err != nil {
		return fmt.Errorf("register prune job: %w", err)
	}
	if _, err := s.cron.AddFunc(s.config.QuotaResetSchedule, s.runQuotaReset); err != nil {
		return fmt.Errorf("register quota reset job: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started",
		"prune_schedule", s.config.PruneSchedule,
		"quota_reset_schedule", s.config.QuotaResetSchedule,
		"usage_retention", s.config.UsageRetention)
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info("scheduler stopped")
}

// runPrune drops usage logs past retention and keys past expiry.
func (s *Scheduler) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	cutoff := time.Now().Add(-s.config.UsageRetention)
	pruned, err := s.usage.PruneOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error("prune usage logs", "error", err)
	} else if pruned > 0 {
		s.log.Info("pruned usage logs", "count", pruned, "cutoff", cutoff)
	}

	removed, err := s.keys.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error("delete expired keys", "error", err)
	} else if removed > 0 {
		s.log.Info("deleted expired keys", "count", removed)
	}
}

// runQuotaReset zeroes every key's monthly usage counter.
func (s *Scheduler) runQuotaReset() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	reset, err := s.keys.ResetQuotas(ctx)
	if err != nil {
		s.log.Error("reset quotas", "error", err)
		return
	}
	s.log.Info("quota rollover", "keys", reset)
}
