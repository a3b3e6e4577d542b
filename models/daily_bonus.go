package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyBonus is the single bonus claim of a user for one calendar day
type DailyBonus struct {
	ID         int64           `db:"id" json:"id"`
	UserID     uuid.UUID       `db:"user_id" json:"userId"`
	BonusDay   time.Time       `db:"bonus_day" json:"bonusDay"`
	DilAmount  int64           `db:"dil_amount" json:"dilAmount"`
	CashAmount decimal.Decimal `db:"cash_amount" json:"cashAmount"`
	ClaimedAt  time.Time       `db:"claimed_at" json:"claimedAt"`
}

// DailyBonusResult is returned after a successful claim
type DailyBonusResult struct {
	Bonus *DailyBonus `json:"bonus"`
	User  *User       `json:"user"`
}
