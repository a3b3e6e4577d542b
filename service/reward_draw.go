package service

import (
	"fmt"
	"math/rand/v2"

	"gamewin/models"

	"github.com/shopspring/decimal"
)

// RandomSource yields uniform values in [0, 1)
type RandomSource interface {
	Float64() float64
}

type defaultRandomSource struct{}

func (defaultRandomSource) Float64() float64 {
	return rand.Float64()
}

// DefaultRandomSource draws from the process-wide generator
var DefaultRandomSource RandomSource = defaultRandomSource{}

// DrawReward picks a reward by walking the cumulative probability mass in
// order and returning the first reward whose running total reaches r.
// When the masses sum to less than r the last reward is returned.
func DrawReward(rewards []*models.SpinWheelReward, source RandomSource) (*models.SpinWheelReward, error) {
	if len(rewards) == 0 {
		return nil, ErrNoRewardsConfigured
	}

	r := decimal.NewFromFloat(source.Float64())
	cumulative := decimal.Zero
	for _, reward := range rewards {
		cumulative = cumulative.Add(reward.Probability)
		if cumulative.GreaterThanOrEqual(r) {
			return reward, nil
		}
	}
	return rewards[len(rewards)-1], nil
}

// rewardDelta is the balance change a drawn reward causes
type rewardDelta struct {
	Cash   decimal.Decimal
	Dil    int64
	Medals int
}

// applyReward converts a payload into the balance change it causes
func applyReward(payload models.RewardPayload) (rewardDelta, error) {
	switch p := payload.(type) {
	case models.CashReward:
		return rewardDelta{Cash: p.Amount}, nil
	case models.DilReward:
		return rewardDelta{Cash: decimal.Zero, Dil: p.Points}, nil
	case models.MedalReward:
		return rewardDelta{Cash: decimal.Zero, Medals: p.Count}, nil
	default:
		return rewardDelta{}, fmt.Errorf("unsupported reward payload %T", payload)
	}
}
