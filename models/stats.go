package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaderboardEntry is one ranked player on the earnings leaderboard
type LeaderboardEntry struct {
	Rank           int             `json:"rank"`
	UserID         uuid.UUID       `json:"userId"`
	Username       string          `json:"username"`
	Avatar         *string         `json:"avatar,omitempty"`
	TotalEarnings  decimal.Decimal `json:"totalEarnings"`
	WeeklyEarnings decimal.Decimal `json:"weeklyEarnings"`
	TournamentsWon int             `json:"tournamentsWon"`
	GamesPlayed    int             `json:"gamesPlayed"`
}

// PlatformStats is the admin analytics summary
type PlatformStats struct {
	TotalUsers       int64           `json:"totalUsers"`
	ActiveUsers      int64           `json:"activeUsers"`
	OpenTournaments  int64           `json:"openTournaments"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	TotalPrizesPaid  decimal.Decimal `json:"totalPrizesPaid"`
	TotalEntryFees   decimal.Decimal `json:"totalEntryFees"`
	TotalSpins       int64           `json:"totalSpins"`
}
