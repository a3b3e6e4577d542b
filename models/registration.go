package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Registration joins one user to one tournament
type Registration struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	UserID       uuid.UUID       `db:"user_id" json:"userId"`
	TournamentID uuid.UUID       `db:"tournament_id" json:"tournamentId"`
	Position     *int            `db:"position" json:"position"`
	Kills        int             `db:"kills" json:"kills"`
	Earnings     decimal.Decimal `db:"earnings" json:"earnings"`
	EntryFeePaid decimal.Decimal `db:"entry_fee_paid" json:"entryFeePaid"`
	SettledAt    *time.Time      `db:"settled_at" json:"settledAt,omitempty"`
	RefundedAt   *time.Time      `db:"refunded_at" json:"refundedAt,omitempty"`
	RegisteredAt time.Time       `db:"registered_at" json:"registeredAt"`
}

// IsSettled reports whether a result has been recorded
func (r *Registration) IsSettled() bool {
	return r.SettledAt != nil
}

// IsRefunded reports whether the entry fee was returned on cancellation
func (r *Registration) IsRefunded() bool {
	return r.RefundedAt != nil
}

// RegistrationResult is the outcome written once at settlement
type RegistrationResult struct {
	Position *int
	Kills    int
	Earnings decimal.Decimal
}

// UserRegistration is a registration with the tournament it belongs to
type UserRegistration struct {
	Registration
	Tournament *Tournament `json:"tournament"`
}

// JoinResult is returned after a successful tournament registration
type JoinResult struct {
	Registration *Registration `json:"registration"`
	Tournament   *Tournament   `json:"tournament"`
	User         *User         `json:"user"`
}

// SettlementResult is returned after a registration result has been recorded
type SettlementResult struct {
	Registration *Registration   `json:"registration"`
	Prize        decimal.Decimal `json:"prize"`
	User         *User           `json:"user"`
}
