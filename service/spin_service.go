package service

import (
	"context"
	"fmt"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type spinService struct {
	uowFactory UnitOfWorkFactory
	policy     TxPolicy
	random     RandomSource
}

// NewSpinService creates a new spin wheel service. A nil source uses DefaultRandomSource.
func NewSpinService(uowFactory UnitOfWorkFactory, policy TxPolicy, random RandomSource) SpinService {
	if random == nil {
		random = DefaultRandomSource
	}
	return &spinService{
		uowFactory: uowFactory,
		policy:     policy,
		random:     random,
	}
}

func (s *spinService) Spin(ctx context.Context, userID uuid.UUID, dilCost int64) (*models.SpinResult, error) {
	if dilCost <= 0 {
		return nil, fmt.Errorf("%w: DIL cost must be positive", ErrInvalidAmount)
	}

	var result *models.SpinResult
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		user, err := loadActiveUserForUpdate(ctx, uow, userID)
		if err != nil {
			return err
		}
		if !user.CanAffordDil(dilCost) {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientDil, user.DilBalance, dilCost)
		}

		rewards, err := uow.SpinRepository().ListActiveRewardsByCost(ctx, dilCost)
		if err != nil {
			return fmt.Errorf("failed to list spin rewards: %w", err)
		}
		reward, err := DrawReward(rewards, s.random)
		if err != nil {
			return err
		}
		payload, err := reward.Payload()
		if err != nil {
			return fmt.Errorf("failed to decode spin reward: %w", err)
		}
		delta, err := applyReward(payload)
		if err != nil {
			return err
		}

		dilAfter, err := uow.UserRepository().DebitDil(ctx, userID, dilCost)
		if err != nil {
			return fmt.Errorf("failed to debit DIL: %w", err)
		}
		if delta.Dil > 0 {
			dilAfter, err = uow.UserRepository().CreditDil(ctx, userID, delta.Dil)
			if err != nil {
				return fmt.Errorf("failed to credit DIL reward: %w", err)
			}
			user.TotalDilEarned += delta.Dil
		}

		balanceAfter := user.Balance
		if delta.Cash.IsPositive() {
			balanceAfter, err = uow.UserRepository().CreditBalance(ctx, userID, delta.Cash)
			if err != nil {
				return fmt.Errorf("failed to credit cash reward: %w", err)
			}
		}

		if delta.Medals > 0 {
			if err := uow.UserRepository().UpdateStats(ctx, userID, models.UserStatsDelta{
				TotalEarnings: decimal.Zero,
				Medals:        delta.Medals,
			}); err != nil {
				return fmt.Errorf("failed to award medals: %w", err)
			}
			user.Medals += delta.Medals
		}

		entry := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeSpinReward,
			Amount:      delta.Cash,
			DilAmount:   delta.Dil - dilCost,
			Description: spinDescription(payload, dilCost),
		}
		if err := RecordLedgerEntry(ctx, uow, entry, balanceAfter, dilAfter); err != nil {
			return err
		}

		history := &models.SpinHistory{
			UserID:      userID,
			RewardID:    reward.ID,
			RewardKind:  reward.Kind,
			RewardValue: reward.Value,
			DilSpent:    dilCost,
		}
		if err := uow.SpinRepository().RecordSpin(ctx, history); err != nil {
			return fmt.Errorf("failed to record spin: %w", err)
		}

		uow.EventBus().Publish(events.SpinCompletedEvent{
			UserID:      userID,
			RewardID:    reward.ID,
			RewardKind:  reward.Kind,
			RewardValue: reward.Value,
			DilSpent:    dilCost,
		})

		user.Balance = balanceAfter
		user.DilBalance = dilAfter
		result = &models.SpinResult{
			Reward:  reward,
			History: history,
			User:    user,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"dilCost":    dilCost,
		"rewardID":   result.Reward.ID,
		"rewardKind": result.Reward.Kind,
	}).Info("Spin completed")

	return result, nil
}

func spinDescription(payload models.RewardPayload, dilCost int64) string {
	switch p := payload.(type) {
	case models.CashReward:
		return fmt.Sprintf("Spin wheel (%d DIL): won %s cash", dilCost, p.Amount.StringFixed(2))
	case models.DilReward:
		return fmt.Sprintf("Spin wheel (%d DIL): won %d DIL", dilCost, p.Points)
	case models.MedalReward:
		return fmt.Sprintf("Spin wheel (%d DIL): won %d medal(s)", dilCost, p.Count)
	default:
		return fmt.Sprintf("Spin wheel (%d DIL)", dilCost)
	}
}

func (s *spinService) ListRewards(ctx context.Context, activeOnly bool) ([]*models.SpinWheelReward, error) {
	var rewards []*models.SpinWheelReward
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		rewards, err = uow.SpinRepository().ListRewards(ctx, activeOnly)
		if err != nil {
			return fmt.Errorf("failed to list spin rewards: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rewards, nil
}

func (s *spinService) CreateReward(ctx context.Context, params models.CreateSpinRewardParams) (*models.SpinWheelReward, error) {
	reward := &models.SpinWheelReward{
		Kind:        params.Kind,
		Value:       params.Value,
		Probability: params.Probability,
		DilCost:     params.DilCost,
		IsActive:    true,
	}
	if err := validateSpinReward(reward); err != nil {
		return nil, err
	}

	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		if err := uow.SpinRepository().CreateReward(ctx, reward); err != nil {
			return fmt.Errorf("failed to create spin reward: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"rewardID":    reward.ID,
		"kind":        reward.Kind,
		"value":       reward.Value,
		"probability": reward.Probability,
		"dilCost":     reward.DilCost,
	}).Info("Spin reward created")

	return reward, nil
}

func validateSpinReward(reward *models.SpinWheelReward) error {
	if !reward.Value.IsPositive() {
		return fmt.Errorf("%w: reward value must be positive", ErrInvalidInput)
	}
	if !reward.Probability.IsPositive() || reward.Probability.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: probability must be in (0, 1]", ErrInvalidInput)
	}
	if reward.DilCost <= 0 {
		return fmt.Errorf("%w: DIL cost must be positive", ErrInvalidInput)
	}
	if reward.Kind == models.RewardKindCash && !reward.Value.Equal(reward.Value.Round(2)) {
		return fmt.Errorf("%w: cash reward cannot have more than 2 decimal places", ErrInvalidInput)
	}
	// Payload rejects unknown kinds and fractional DIL or medal values
	if _, err := reward.Payload(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *spinService) SetRewardActive(ctx context.Context, rewardID int64, active bool) (*models.SpinWheelReward, error) {
	var reward *models.SpinWheelReward
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		existing, err := uow.SpinRepository().GetReward(ctx, rewardID)
		if err != nil {
			return fmt.Errorf("failed to get spin reward: %w", err)
		}
		if existing == nil {
			return ErrRewardNotFound
		}
		if err := uow.SpinRepository().SetRewardActive(ctx, rewardID, active); err != nil {
			return fmt.Errorf("failed to update spin reward: %w", err)
		}
		existing.IsActive = active
		reward = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *spinService) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SpinHistory, error) {
	if limit <= 0 || limit > maxTransactionListLimit {
		limit = 50
	}

	var history []*models.SpinHistory
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		history, err = uow.SpinRepository().ListHistory(ctx, userID, limit)
		if err != nil {
			return fmt.Errorf("failed to list spin history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}
