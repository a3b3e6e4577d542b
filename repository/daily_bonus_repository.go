package repository

import (
	"context"
	"fmt"
	"time"

	"gamewin/database"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DailyBonusRepository implements the DailyBonusRepository interface
type DailyBonusRepository struct {
	q queryable
}

// NewDailyBonusRepository creates a new daily bonus repository
func NewDailyBonusRepository(db *database.DB) *DailyBonusRepository {
	return &DailyBonusRepository{q: db.Pool}
}

// newDailyBonusRepositoryWithTx creates a new daily bonus repository with a transaction
func newDailyBonusRepositoryWithTx(tx queryable) *DailyBonusRepository {
	return &DailyBonusRepository{q: tx}
}

// GetByUserAndDay returns the claim of a user for the calendar day of day
func (r *DailyBonusRepository) GetByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.DailyBonus, error) {
	query := `
		SELECT id, user_id, bonus_day, dil_amount, cash_amount, claimed_at
		FROM daily_bonuses
		WHERE user_id = $1 AND bonus_day = $2::date
	`

	var bonus models.DailyBonus
	err := r.q.QueryRow(ctx, query, userID, day.Format(time.DateOnly)).Scan(
		&bonus.ID,
		&bonus.UserID,
		&bonus.BonusDay,
		&bonus.DilAmount,
		&bonus.CashAmount,
		&bonus.ClaimedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("get daily bonus of user %s", userID))
	}
	return &bonus, nil
}

// Create stores a claim. A second claim for the same day violates
// daily_bonuses_user_day_key.
func (r *DailyBonusRepository) Create(ctx context.Context, bonus *models.DailyBonus) error {
	query := `
		INSERT INTO daily_bonuses (user_id, bonus_day, dil_amount, cash_amount)
		VALUES ($1, $2::date, $3, $4)
		RETURNING id, claimed_at
	`

	err := r.q.QueryRow(ctx, query,
		bonus.UserID,
		bonus.BonusDay.Format(time.DateOnly),
		bonus.DilAmount,
		bonus.CashAmount,
	).Scan(&bonus.ID, &bonus.ClaimedAt)
	if err != nil {
		return classify(err, "create daily bonus")
	}
	return nil
}
