package service

import (
	"context"
	"fmt"

	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const maxTransactionListLimit = 200

type walletService struct {
	uowFactory UnitOfWorkFactory
	policy     TxPolicy
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory, policy TxPolicy) WalletService {
	return &walletService{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (s *walletService) AddFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.User, error) {
	if err := validateCashAmount(amount); err != nil {
		return nil, err
	}

	var updated *models.User
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		user, err := loadActiveUserForUpdate(ctx, uow, userID)
		if err != nil {
			return err
		}

		newBalance, err := uow.UserRepository().CreditBalance(ctx, userID, amount)
		if err != nil {
			return fmt.Errorf("failed to credit balance: %w", err)
		}

		entry := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeDeposit,
			Amount:      amount,
			Description: fmt.Sprintf("Added %s to wallet", amount.StringFixed(2)),
		}
		if err := RecordLedgerEntry(ctx, uow, entry, newBalance, user.DilBalance); err != nil {
			return err
		}

		user.Balance = newBalance
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"amount": amount.StringFixed(2),
	}).Info("Funds added")

	return updated, nil
}

func (s *walletService) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.User, error) {
	if err := validateCashAmount(amount); err != nil {
		return nil, err
	}

	var updated *models.User
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		user, err := loadActiveUserForUpdate(ctx, uow, userID)
		if err != nil {
			return err
		}
		if !user.CanAfford(amount) {
			return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, user.Balance.StringFixed(2), amount.StringFixed(2))
		}

		newBalance, err := uow.UserRepository().DebitBalance(ctx, userID, amount)
		if err != nil {
			return fmt.Errorf("failed to debit balance: %w", err)
		}

		entry := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeWithdraw,
			Amount:      amount.Neg(),
			Description: fmt.Sprintf("Withdrew %s from wallet", amount.StringFixed(2)),
		}
		if err := RecordLedgerEntry(ctx, uow, entry, newBalance, user.DilBalance); err != nil {
			return err
		}

		user.Balance = newBalance
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"amount": amount.StringFixed(2),
	}).Info("Funds withdrawn")

	return updated, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > maxTransactionListLimit {
		limit = 50
	}

	var transactions []*models.Transaction
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		user, err := uow.UserRepository().GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}

		transactions, err = uow.TransactionRepository().ListByUser(ctx, userID, limit)
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
