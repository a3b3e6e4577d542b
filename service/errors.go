package service

import "errors"

// Error kinds returned by the services. Callers test them with errors.Is;
// the message of the wrapping error carries the human-readable reason.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientDil     = errors.New("insufficient DIL points")
	ErrAlreadyRegistered   = errors.New("already registered for this tournament")
	ErrAlreadyClaimedToday = errors.New("daily bonus already claimed today")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailTaken          = errors.New("email already registered")
	ErrTournamentFull      = errors.New("tournament is full")
	ErrTournamentClosed    = errors.New("tournament is not open for registration")
	ErrNoRewardsConfigured = errors.New("no spin rewards configured")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrInvalidCredentials  = errors.New("invalid username or password")

	// ErrConflict means the unit of work lost a race with a concurrent one.
	// Runners retry it; callers may retry it as well.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrStorageUnavailable covers timeouts, lock timeouts and lost connections.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Specialised kinds that also match a broader kind
var (
	ErrUserNotFound          = newKindError("user not found", ErrNotFound)
	ErrTournamentNotFound    = newKindError("tournament not found", ErrNotFound)
	ErrRegistrationNotFound  = newKindError("registration not found", ErrNotFound)
	ErrRewardNotFound        = newKindError("spin reward not found", ErrNotFound)
	ErrAdvertisementNotFound = newKindError("advertisement not found", ErrNotFound)
	ErrNotificationNotFound  = newKindError("notification not found", ErrNotFound)

	ErrAlreadySettled = newKindError("registration result already recorded", ErrConflict)
)

// kindError is a sentinel that unwraps to a broader kind
type kindError struct {
	msg  string
	kind error
}

func newKindError(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// IsRetryable reports whether a failed unit of work may succeed when run again
func IsRetryable(err error) bool {
	if errors.Is(err, ErrAlreadySettled) {
		return false
	}
	return errors.Is(err, ErrConflict)
}
