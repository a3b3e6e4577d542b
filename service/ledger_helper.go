package service

import (
	"context"
	"fmt"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordLedgerEntry appends a transaction row and queues its event.
// Every balance or DIL change goes through here, in the same unit of work
// as the change itself, so the ledger always sums to the stored balances.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, entry *models.Transaction, balanceAfter decimal.Decimal, dilBalanceAfter int64) error {
	if err := uow.TransactionRepository().Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record %s transaction: %w", entry.Type, err)
	}

	// Flushed only after the unit commits
	uow.EventBus().Publish(events.LedgerEntryEvent{
		TransactionID:   entry.ID,
		UserID:          entry.UserID,
		TransactionType: entry.Type,
		Amount:          entry.Amount,
		DilAmount:       entry.DilAmount,
		BalanceAfter:    balanceAfter,
		DilBalanceAfter: dilBalanceAfter,
		TournamentID:    entry.TournamentID,
	})

	return nil
}

// validateCashAmount checks a user supplied currency amount
func validateCashAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount cannot have more than 2 decimal places", ErrInvalidAmount)
	}
	if amount.GreaterThan(maxCashAmount) {
		return fmt.Errorf("%w: amount exceeds %s", ErrInvalidAmount, maxCashAmount)
	}
	return nil
}

// numeric(12,2)
var maxCashAmount = decimal.RequireFromString("9999999999.99")

// loadActiveUserForUpdate locks the user row and rejects missing or banned users
func loadActiveUserForUpdate(ctx context.Context, uow UnitOfWork, userID uuid.UUID) (*models.User, error) {
	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}
