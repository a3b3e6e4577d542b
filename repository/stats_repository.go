package repository

import (
	"context"
	"fmt"
	"time"

	"gamewin/database"
	"gamewin/models"
)

// StatsRepository implements the StatsRepository interface
type StatsRepository struct {
	q queryable
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{q: db.Pool}
}

// newStatsRepositoryWithTx creates a new stats repository with a transaction
func newStatsRepositoryWithTx(tx queryable) *StatsRepository {
	return &StatsRepository{q: tx}
}

// Leaderboard ranks active users by total earnings. Weekly earnings are the
// prize money entries committed since weekStart.
func (r *StatsRepository) Leaderboard(ctx context.Context, limit int, weekStart time.Time) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT
			u.id,
			u.username,
			u.avatar,
			u.total_earnings,
			COALESCE(w.weekly, 0) AS weekly_earnings,
			u.tournaments_won,
			u.games_played
		FROM users u
		LEFT JOIN (
			SELECT user_id, SUM(amount) AS weekly
			FROM transactions
			WHERE type = 'prize_money' AND created_at >= $2
			GROUP BY user_id
		) w ON w.user_id = u.id
		WHERE u.is_active
		ORDER BY u.total_earnings DESC, u.tournaments_won DESC, u.username ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit, weekStart)
	if err != nil {
		return nil, classify(err, "query leaderboard")
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		err := rows.Scan(
			&e.UserID,
			&e.Username,
			&e.Avatar,
			&e.TotalEarnings,
			&e.WeeklyEarnings,
			&e.TournamentsWon,
			&e.GamesPlayed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate leaderboard")
	}
	return entries, nil
}

// PlatformStats returns the admin analytics summary
func (r *StatsRepository) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM tournaments WHERE status = 'upcoming'),
			COALESCE(SUM(amount) FILTER (WHERE type = 'deposit'), 0),
			COALESCE(-SUM(amount) FILTER (WHERE type = 'withdraw'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'prize_money'), 0),
			COALESCE(-SUM(amount) FILTER (WHERE type = 'entry_fee'), 0),
			(SELECT COUNT(*) FROM spin_history)
		FROM transactions
	`

	var stats models.PlatformStats
	err := r.q.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.OpenTournaments,
		&stats.TotalDeposits,
		&stats.TotalWithdrawals,
		&stats.TotalPrizesPaid,
		&stats.TotalEntryFees,
		&stats.TotalSpins,
	)
	if err != nil {
		return nil, classify(err, "query platform stats")
	}
	return &stats, nil
}
