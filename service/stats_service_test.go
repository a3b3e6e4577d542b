package service

import (
	"context"
	"testing"
	"time"

	"gamewin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Leaderboard_RanksAndUsesLastSevenDays(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewStatsService(m.factory).(*statsService)

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	entries := []*models.LeaderboardEntry{
		{Username: "first", TotalEarnings: dec("900")},
		{Username: "second", TotalEarnings: dec("400")},
	}
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.stats.On("Leaderboard", ctx, 10, now.Add(-7*24*time.Hour)).Return(entries, nil)

	board, err := svc.Leaderboard(ctx, 0)

	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 2, board[1].Rank)
	m.assertExpectations(t)
}

func TestStatsService_PlatformStats(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewStatsService(m.factory)

	expected := &models.PlatformStats{TotalUsers: 12, TotalDeposits: dec("1500.00")}
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.stats.On("PlatformStats", ctx).Return(expected, nil)

	stats, err := svc.PlatformStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
	m.assertExpectations(t)
}
