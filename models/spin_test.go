package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinWheelReward_Payload(t *testing.T) {
	t.Run("cash", func(t *testing.T) {
		reward := &SpinWheelReward{Kind: RewardKindCash, Value: decimal.RequireFromString("12.50")}
		payload, err := reward.Payload()
		require.NoError(t, err)
		cash, ok := payload.(CashReward)
		require.True(t, ok)
		assert.True(t, cash.Amount.Equal(decimal.RequireFromString("12.50")))
	})

	t.Run("dil", func(t *testing.T) {
		reward := &SpinWheelReward{Kind: RewardKindDil, Value: decimal.NewFromInt(25)}
		payload, err := reward.Payload()
		require.NoError(t, err)
		assert.Equal(t, DilReward{Points: 25}, payload)
	})

	t.Run("medal", func(t *testing.T) {
		reward := &SpinWheelReward{Kind: RewardKindMedal, Value: decimal.NewFromInt(1)}
		payload, err := reward.Payload()
		require.NoError(t, err)
		assert.Equal(t, MedalReward{Count: 1}, payload)
	})

	t.Run("fractional dil rejected", func(t *testing.T) {
		reward := &SpinWheelReward{ID: 7, Kind: RewardKindDil, Value: decimal.RequireFromString("2.5")}
		_, err := reward.Payload()
		assert.Error(t, err)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		reward := &SpinWheelReward{Kind: RewardKind("jackpot"), Value: decimal.NewFromInt(1)}
		_, err := reward.Payload()
		assert.ErrorContains(t, err, "unknown reward kind")
	})
}

func TestRewardPayload_KindsMatchStoredKinds(t *testing.T) {
	for kind, payload := range map[RewardKind]RewardPayload{
		RewardKindCash:  CashReward{},
		RewardKindDil:   DilReward{},
		RewardKindMedal: MedalReward{},
	} {
		assert.Equal(t, kind, payload.Kind())
	}
}
