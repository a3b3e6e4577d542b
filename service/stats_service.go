package service

import (
	"context"
	"fmt"
	"time"

	"gamewin/models"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	leaderboardWeek         = 7 * 24 * time.Hour
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
	now        Clock
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Leaderboard returns the top earners with their prize money of the last 7 days
func (s *statsService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	weekStart := s.now().UTC().Add(-leaderboardWeek)
	entries, err := uow.StatsRepository().Leaderboard(ctx, limit, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	// Add rank
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

// PlatformStats returns the admin analytics summary
func (s *statsService) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stats, err := uow.StatsRepository().PlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	return stats, nil
}
