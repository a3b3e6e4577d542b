package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger movement
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdraw   TransactionType = "withdraw"
	TransactionTypeEntryFee   TransactionType = "entry_fee"
	TransactionTypePrizeMoney TransactionType = "prize_money"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeSpinReward TransactionType = "spin_reward"
	TransactionTypeBonus      TransactionType = "bonus"
)

// Transaction is an immutable ledger entry. Amount is the signed cash change
// and DilAmount the signed DIL change applied to the user in the same unit.
type Transaction struct {
	ID             int64           `db:"id" json:"id"`
	UserID         uuid.UUID       `db:"user_id" json:"userId"`
	Type           TransactionType `db:"type" json:"type"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	DilAmount      int64           `db:"dil_amount" json:"dilAmount"`
	Description    string          `db:"description" json:"description"`
	TournamentID   *uuid.UUID      `db:"tournament_id" json:"tournamentId,omitempty"`
	RegistrationID *uuid.UUID      `db:"registration_id" json:"registrationId,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// LedgerSummary is the sum of all ledger entries of one user
type LedgerSummary struct {
	UserID     uuid.UUID
	CashTotal  decimal.Decimal
	DilTotal   int64
	EntryCount int64
}
