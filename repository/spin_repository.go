package repository

import (
	"context"
	"fmt"

	"gamewin/database"
	"gamewin/models"
	"gamewin/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const spinRewardColumns = `id, kind, value, probability, dil_cost, is_active, created_at`

// SpinRepository implements the SpinRepository interface
type SpinRepository struct {
	q queryable
}

// NewSpinRepository creates a new spin repository
func NewSpinRepository(db *database.DB) *SpinRepository {
	return &SpinRepository{q: db.Pool}
}

// newSpinRepositoryWithTx creates a new spin repository with a transaction
func newSpinRepositoryWithTx(tx queryable) *SpinRepository {
	return &SpinRepository{q: tx}
}

func scanSpinReward(row pgx.Row) (*models.SpinWheelReward, error) {
	var reward models.SpinWheelReward
	err := row.Scan(
		&reward.ID,
		&reward.Kind,
		&reward.Value,
		&reward.Probability,
		&reward.DilCost,
		&reward.IsActive,
		&reward.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *SpinRepository) listRewards(ctx context.Context, query string, args ...any) ([]*models.SpinWheelReward, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list spin rewards")
	}
	defer rows.Close()

	var rewards []*models.SpinWheelReward
	for rows.Next() {
		reward, err := scanSpinReward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spin reward: %w", err)
		}
		rewards = append(rewards, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate spin rewards")
	}
	return rewards, nil
}

// CreateReward inserts a wheel slice
func (r *SpinRepository) CreateReward(ctx context.Context, reward *models.SpinWheelReward) error {
	query := `
		INSERT INTO spin_wheel_rewards (kind, value, probability, dil_cost, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + spinRewardColumns

	created, err := scanSpinReward(r.q.QueryRow(ctx, query,
		reward.Kind,
		reward.Value,
		reward.Probability,
		reward.DilCost,
		reward.IsActive,
	))
	if err != nil {
		return classify(err, "create spin reward")
	}

	*reward = *created
	return nil
}

// GetReward retrieves a wheel slice by ID
func (r *SpinRepository) GetReward(ctx context.Context, id int64) (*models.SpinWheelReward, error) {
	query := `SELECT ` + spinRewardColumns + ` FROM spin_wheel_rewards WHERE id = $1`

	reward, err := scanSpinReward(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, fmt.Sprintf("get spin reward %d", id))
	}
	return reward, nil
}

// ListRewards returns wheel slices in insertion order
func (r *SpinRepository) ListRewards(ctx context.Context, activeOnly bool) ([]*models.SpinWheelReward, error) {
	query := `
		SELECT ` + spinRewardColumns + `
		FROM spin_wheel_rewards
		WHERE is_active OR NOT $1
		ORDER BY id
	`
	return r.listRewards(ctx, query, activeOnly)
}

// ListActiveRewardsByCost returns the active slices of the wheel that costs dilCost
func (r *SpinRepository) ListActiveRewardsByCost(ctx context.Context, dilCost int64) ([]*models.SpinWheelReward, error) {
	query := `
		SELECT ` + spinRewardColumns + `
		FROM spin_wheel_rewards
		WHERE is_active AND dil_cost = $1
		ORDER BY id
	`
	return r.listRewards(ctx, query, dilCost)
}

// SetRewardActive enables or disables a slice
func (r *SpinRepository) SetRewardActive(ctx context.Context, id int64, active bool) error {
	result, err := r.q.Exec(ctx, `UPDATE spin_wheel_rewards SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return classify(err, fmt.Sprintf("update spin reward %d", id))
	}
	if result.RowsAffected() == 0 {
		return service.ErrRewardNotFound
	}
	return nil
}

// RecordSpin appends a spin outcome
func (r *SpinRepository) RecordSpin(ctx context.Context, history *models.SpinHistory) error {
	query := `
		INSERT INTO spin_history (user_id, reward_id, reward_kind, reward_value, dil_spent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		history.UserID,
		history.RewardID,
		history.RewardKind,
		history.RewardValue,
		history.DilSpent,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return classify(err, "record spin")
	}
	return nil
}

// ListHistory returns the newest spins of a user
func (r *SpinRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SpinHistory, error) {
	query := `
		SELECT id, user_id, reward_id, reward_kind, reward_value, dil_spent, created_at
		FROM spin_history
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("list spin history of user %s", userID))
	}
	defer rows.Close()

	var history []*models.SpinHistory
	for rows.Next() {
		var h models.SpinHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.RewardID, &h.RewardKind, &h.RewardValue, &h.DilSpent, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan spin history: %w", err)
		}
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate spin history")
	}
	return history, nil
}
