package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRole separates players from platform administrators
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User is the aggregate root for cash balance, DIL and medals
type User struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Username       string          `db:"username" json:"username"`
	Email          string          `db:"email" json:"email"`
	PasswordHash   string          `db:"password_hash" json:"-"`
	Role           UserRole        `db:"role" json:"role"`
	Balance        decimal.Decimal `db:"balance" json:"balance"`
	TotalEarnings  decimal.Decimal `db:"total_earnings" json:"totalEarnings"`
	TournamentsWon int             `db:"tournaments_won" json:"tournamentsWon"`
	GamesPlayed    int             `db:"games_played" json:"gamesPlayed"`
	DilBalance     int64           `db:"dil_balance" json:"dilBalance"`
	TotalDilEarned int64           `db:"total_dil_earned" json:"totalDilEarned"`
	Medals         int             `db:"medals" json:"medals"`
	IsActive       bool            `db:"is_active" json:"isActive"`
	Avatar         *string         `db:"avatar" json:"avatar,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user may use admin operations
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// CanAfford reports whether the cash balance covers amount
func (u *User) CanAfford(amount decimal.Decimal) bool {
	return u.Balance.GreaterThanOrEqual(amount)
}

// CanAffordDil reports whether the DIL balance covers cost
func (u *User) CanAffordDil(cost int64) bool {
	return u.DilBalance >= cost
}

// UserStatsDelta is an additive change to the tournament statistics of a user
type UserStatsDelta struct {
	TotalEarnings  decimal.Decimal
	TournamentsWon int
	GamesPlayed    int
	Medals         int
}

// RegisterParams holds the input for a new account
type RegisterParams struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"-"`
}
