package service

import (
	"context"
	"fmt"
	"time"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Clock returns the current time
type Clock func() time.Time

// BonusConfig is the daily bonus grant
type BonusConfig struct {
	Dil      int64
	Cash     decimal.Decimal
	Location *time.Location // decides where a calendar day starts
}

type bonusService struct {
	uowFactory UnitOfWorkFactory
	policy     TxPolicy
	config     BonusConfig
	now        Clock
}

// NewBonusService creates a new daily bonus service. A nil clock uses time.Now.
func NewBonusService(uowFactory UnitOfWorkFactory, policy TxPolicy, config BonusConfig, now Clock) BonusService {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &bonusService{
		uowFactory: uowFactory,
		policy:     policy,
		config:     config,
		now:        now,
	}
}

// BonusDay returns the calendar day t falls on in loc, as a UTC midnight date
func BonusDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *bonusService) ClaimDailyBonus(ctx context.Context, userID uuid.UUID) (*models.DailyBonusResult, error) {
	day := BonusDay(s.now(), s.config.Location)

	var result *models.DailyBonusResult
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		user, err := loadActiveUserForUpdate(ctx, uow, userID)
		if err != nil {
			return err
		}

		existing, err := uow.DailyBonusRepository().GetByUserAndDay(ctx, userID, day)
		if err != nil {
			return fmt.Errorf("failed to check daily bonus: %w", err)
		}
		if existing != nil {
			return ErrAlreadyClaimedToday
		}

		dilAfter := user.DilBalance
		if s.config.Dil > 0 {
			dilAfter, err = uow.UserRepository().CreditDil(ctx, userID, s.config.Dil)
			if err != nil {
				return fmt.Errorf("failed to credit bonus DIL: %w", err)
			}
			user.TotalDilEarned += s.config.Dil
		}
		balanceAfter := user.Balance
		if s.config.Cash.IsPositive() {
			balanceAfter, err = uow.UserRepository().CreditBalance(ctx, userID, s.config.Cash)
			if err != nil {
				return fmt.Errorf("failed to credit bonus cash: %w", err)
			}
		}

		entry := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeBonus,
			Amount:      s.config.Cash,
			DilAmount:   s.config.Dil,
			Description: fmt.Sprintf("Daily bonus for %s", day.Format(time.DateOnly)),
		}
		if err := RecordLedgerEntry(ctx, uow, entry, balanceAfter, dilAfter); err != nil {
			return err
		}

		bonus := &models.DailyBonus{
			UserID:     userID,
			BonusDay:   day,
			DilAmount:  s.config.Dil,
			CashAmount: s.config.Cash,
		}
		if err := uow.DailyBonusRepository().Create(ctx, bonus); err != nil {
			return fmt.Errorf("failed to store daily bonus: %w", err)
		}

		uow.EventBus().Publish(events.DailyBonusClaimedEvent{
			UserID:     userID,
			BonusDay:   day.Format(time.DateOnly),
			DilAmount:  s.config.Dil,
			CashAmount: s.config.Cash,
		})

		user.Balance = balanceAfter
		user.DilBalance = dilAfter
		result = &models.DailyBonusResult{Bonus: bonus, User: user}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"bonusDay": day.Format(time.DateOnly),
	}).Info("Daily bonus claimed")

	return result, nil
}
