package service

import (
	"math"
	"math/rand/v2"
	"testing"

	"gamewin/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource returns the same value on every draw
type fixedSource float64

func (f fixedSource) Float64() float64 {
	return float64(f)
}

func wheel(probabilities ...string) []*models.SpinWheelReward {
	rewards := make([]*models.SpinWheelReward, len(probabilities))
	for i, p := range probabilities {
		rewards[i] = &models.SpinWheelReward{
			ID:          int64(i + 1),
			Kind:        models.RewardKindDil,
			Value:       decimal.NewFromInt(int64(i + 1)),
			Probability: decimal.RequireFromString(p),
			DilCost:     10,
			IsActive:    true,
		}
	}
	return rewards
}

func TestDrawReward_WalksCumulativeMass(t *testing.T) {
	rewards := wheel("0.5", "0.3", "0.2")

	tests := []struct {
		r      float64
		wantID int64
	}{
		{0.0, 1},
		{0.25, 1},
		{0.5, 1}, // boundary belongs to the earlier reward
		{0.5000001, 2},
		{0.8, 2},
		{0.81, 3},
		{0.9999, 3},
	}

	for _, tt := range tests {
		reward, err := DrawReward(rewards, fixedSource(tt.r))
		require.NoError(t, err)
		assert.Equal(t, tt.wantID, reward.ID, "r=%v", tt.r)
	}
}

func TestDrawReward_FallsBackToLastReward(t *testing.T) {
	// Masses sum to 0.3, anything above lands on the last slice
	rewards := wheel("0.1", "0.2")

	reward, err := DrawReward(rewards, fixedSource(0.95))

	require.NoError(t, err)
	assert.Equal(t, int64(2), reward.ID)
}

func TestDrawReward_EmptyTable(t *testing.T) {
	_, err := DrawReward(nil, fixedSource(0.1))
	assert.ErrorIs(t, err, ErrNoRewardsConfigured)
}

func TestDrawReward_DeterministicForSeededSource(t *testing.T) {
	rewards := wheel("0.4", "0.35", "0.25")

	first := rand.New(rand.NewPCG(7, 11))
	second := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 1000; i++ {
		a, err := DrawReward(rewards, first)
		require.NoError(t, err)
		b, err := DrawReward(rewards, second)
		require.NoError(t, err)
		require.Equal(t, a.ID, b.ID, "draw %d", i)
	}
}

func TestDrawReward_Distribution(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping distribution test in short mode")
	}

	rewards := wheel("0.50", "0.25", "0.15", "0.10")
	const trials = 100000

	source := rand.New(rand.NewPCG(42, 1337))
	counts := make(map[int64]int)
	for i := 0; i < trials; i++ {
		reward, err := DrawReward(rewards, source)
		require.NoError(t, err)
		counts[reward.ID]++
	}

	chiSquared := 0.0
	for _, reward := range rewards {
		want := reward.Probability.InexactFloat64()
		got := float64(counts[reward.ID]) / trials
		assert.InDelta(t, want, got, 0.01, "reward %d", reward.ID)

		expected := want * trials
		chiSquared += math.Pow(float64(counts[reward.ID])-expected, 2) / expected
	}
	// 99.9% critical value for 3 degrees of freedom
	assert.Less(t, chiSquared, 16.27)
}

func TestApplyReward_Exhaustive(t *testing.T) {
	delta, err := applyReward(models.CashReward{Amount: decimal.RequireFromString("25.50")})
	require.NoError(t, err)
	assert.True(t, delta.Cash.Equal(decimal.RequireFromString("25.5")))
	assert.Zero(t, delta.Dil)

	delta, err = applyReward(models.DilReward{Points: 40})
	require.NoError(t, err)
	assert.Equal(t, int64(40), delta.Dil)
	assert.True(t, delta.Cash.IsZero())

	delta, err = applyReward(models.MedalReward{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, delta.Medals)

	_, err = applyReward(nil)
	assert.Error(t, err)
}
