package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RewardKind is the stored discriminator of a spin wheel reward
type RewardKind string

const (
	RewardKindCash  RewardKind = "cash"
	RewardKindDil   RewardKind = "dil"
	RewardKindMedal RewardKind = "medal"
)

// RewardPayload is the closed set of things a spin can award.
// Only CashReward, DilReward and MedalReward implement it.
type RewardPayload interface {
	Kind() RewardKind
	isRewardPayload()
}

// CashReward credits the wallet balance
type CashReward struct {
	Amount decimal.Decimal
}

// DilReward credits DIL points
type DilReward struct {
	Points int64
}

// MedalReward adds medals to the profile
type MedalReward struct {
	Count int
}

func (CashReward) Kind() RewardKind  { return RewardKindCash }
func (DilReward) Kind() RewardKind   { return RewardKindDil }
func (MedalReward) Kind() RewardKind { return RewardKindMedal }

func (CashReward) isRewardPayload()  {}
func (DilReward) isRewardPayload()   {}
func (MedalReward) isRewardPayload() {}

// SpinWheelReward is one admin-configured slice of the wheel
type SpinWheelReward struct {
	ID          int64           `db:"id" json:"id"`
	Kind        RewardKind      `db:"kind" json:"type"`
	Value       decimal.Decimal `db:"value" json:"value"`
	Probability decimal.Decimal `db:"probability" json:"probability"`
	DilCost     int64           `db:"dil_cost" json:"dilCost"`
	IsActive    bool            `db:"is_active" json:"isActive"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// Payload decodes the stored kind and value into a typed reward
func (r *SpinWheelReward) Payload() (RewardPayload, error) {
	switch r.Kind {
	case RewardKindCash:
		return CashReward{Amount: r.Value}, nil
	case RewardKindDil:
		if !r.Value.IsInteger() {
			return nil, fmt.Errorf("dil reward %d has fractional value %s", r.ID, r.Value)
		}
		return DilReward{Points: r.Value.IntPart()}, nil
	case RewardKindMedal:
		if !r.Value.IsInteger() {
			return nil, fmt.Errorf("medal reward %d has fractional value %s", r.ID, r.Value)
		}
		return MedalReward{Count: int(r.Value.IntPart())}, nil
	default:
		return nil, fmt.Errorf("unknown reward kind %q", r.Kind)
	}
}

// SpinHistory records the outcome of one spin
type SpinHistory struct {
	ID          int64           `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"userId"`
	RewardID    int64           `db:"reward_id" json:"rewardId"`
	RewardKind  RewardKind      `db:"reward_kind" json:"rewardType"`
	RewardValue decimal.Decimal `db:"reward_value" json:"rewardValue"`
	DilSpent    int64           `db:"dil_spent" json:"dilSpent"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// SpinResult is returned to the player after a spin
type SpinResult struct {
	Reward  *SpinWheelReward `json:"reward"`
	History *SpinHistory     `json:"history"`
	User    *User            `json:"user"`
}

// CreateSpinRewardParams holds the admin input for a new wheel slice
type CreateSpinRewardParams struct {
	Kind        RewardKind      `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Probability decimal.Decimal `json:"probability"`
	DilCost     int64           `json:"dilCost"`
}
