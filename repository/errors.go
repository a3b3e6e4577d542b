package repository

import (
	"fmt"

	"gamewin/database"
	"gamewin/service"
)

// Constraint names from the migrations and the error kind each one means
var (
	uniqueConstraintKinds = map[string]error{
		"users_username_key":                service.ErrUsernameTaken,
		"users_email_key":                   service.ErrEmailTaken,
		"registrations_user_tournament_key": service.ErrAlreadyRegistered,
		"daily_bonuses_user_day_key":        service.ErrAlreadyClaimedToday,
		"tournaments_slug_key":              service.ErrConflict,
	}
	checkConstraintKinds = map[string]error{
		"users_balance_non_negative":     service.ErrInsufficientBalance,
		"users_dil_balance_non_negative": service.ErrInsufficientDil,
		"tournaments_capacity":           service.ErrTournamentFull,
	}
)

// classify wraps a driver error with the service error kind it stands for.
// The driver error stays in the chain for logging.
func classify(err error, action string) error {
	if err == nil {
		return nil
	}

	if database.IsSerializationFailure(err) {
		return fmt.Errorf("failed to %s: %w: %w", action, service.ErrConflict, err)
	}
	if constraint, ok := database.UniqueViolation(err); ok {
		if kind, known := uniqueConstraintKinds[constraint]; known {
			return fmt.Errorf("failed to %s: %w: %w", action, kind, err)
		}
	}
	if constraint, ok := database.CheckViolation(err); ok {
		if kind, known := checkConstraintKinds[constraint]; known {
			return fmt.Errorf("failed to %s: %w: %w", action, kind, err)
		}
	}
	if database.IsNumericOutOfRange(err) {
		return fmt.Errorf("failed to %s: %w: resulting value out of range: %w", action, service.ErrInvalidAmount, err)
	}
	if database.IsUnavailable(err) {
		return fmt.Errorf("failed to %s: %w: %w", action, service.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
