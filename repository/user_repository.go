package repository

import (
	"context"
	"fmt"

	"gamewin/database"
	"gamewin/models"
	"gamewin/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `
	id, username, email, password_hash, role, balance, total_earnings,
	tournaments_won, games_played, dil_balance, total_dil_earned, medals,
	is_active, avatar, created_at, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Balance,
		&user.TotalEarnings,
		&user.TournamentsWon,
		&user.GamesPlayed,
		&user.DilBalance,
		&user.TotalDilEarned,
		&user.Medals,
		&user.IsActive,
		&user.Avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any, action string) (*models.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, action)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id, fmt.Sprintf("get user %s", id))
}

// GetByIDForUpdate retrieves a user and locks the row until the transaction ends
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id, fmt.Sprintf("lock user %s", id))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getOne(ctx, query, username, fmt.Sprintf("get user %q", username))
}

// Create inserts a new user and fills in the generated columns
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, balance, dil_balance, is_active, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	created, err := scanUser(r.q.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Balance,
		user.DilBalance,
		user.IsActive,
		user.Avatar,
	))
	if err != nil {
		return classify(err, "create user")
	}

	*user = *created
	return nil
}

// CreditBalance adds amount to the cash balance and returns the new balance
func (r *UserRepository) CreditBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`

	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, service.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, classify(err, fmt.Sprintf("credit balance of user %s", id))
	}
	return balance, nil
}

// DebitBalance subtracts amount from the cash balance. The row is only
// touched when the balance covers the amount.
func (r *UserRepository) DebitBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE users
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
		RETURNING balance
	`

	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, fmt.Errorf("failed to debit %s from user %s: %w", amount, id, service.ErrInsufficientBalance)
	}
	if err != nil {
		return decimal.Zero, classify(err, fmt.Sprintf("debit balance of user %s", id))
	}
	return balance, nil
}

// CreditDil adds points to the DIL balance and the lifetime DIL counter
func (r *UserRepository) CreditDil(ctx context.Context, id uuid.UUID, points int64) (int64, error) {
	query := `
		UPDATE users
		SET dil_balance = dil_balance + $2,
		    total_dil_earned = total_dil_earned + $2,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING dil_balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, id, points).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, service.ErrUserNotFound
	}
	if err != nil {
		return 0, classify(err, fmt.Sprintf("credit DIL of user %s", id))
	}
	return balance, nil
}

// DebitDil subtracts points from the DIL balance when it covers them
func (r *UserRepository) DebitDil(ctx context.Context, id uuid.UUID, points int64) (int64, error) {
	query := `
		UPDATE users
		SET dil_balance = dil_balance - $2, updated_at = NOW()
		WHERE id = $1 AND dil_balance >= $2
		RETURNING dil_balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, id, points).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to debit %d DIL from user %s: %w", points, id, service.ErrInsufficientDil)
	}
	if err != nil {
		return 0, classify(err, fmt.Sprintf("debit DIL of user %s", id))
	}
	return balance, nil
}

// UpdateStats adds delta to the tournament statistics of a user
func (r *UserRepository) UpdateStats(ctx context.Context, id uuid.UUID, delta models.UserStatsDelta) error {
	query := `
		UPDATE users
		SET total_earnings = total_earnings + $2,
		    tournaments_won = tournaments_won + $3,
		    games_played = games_played + $4,
		    medals = medals + $5,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id, delta.TotalEarnings, delta.TournamentsWon, delta.GamesPlayed, delta.Medals)
	if err != nil {
		return classify(err, fmt.Sprintf("update stats of user %s", id))
	}
	if result.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// SetActive enables or disables an account
func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id, active)
	if err != nil {
		return classify(err, fmt.Sprintf("set active flag of user %s", id))
	}
	if result.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// List returns users ordered by registration date
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, classify(err, "list users")
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate users")
	}
	return users, nil
}
