package service

import (
	"context"
	"time"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data access.
// Getters return (nil, nil) when the user does not exist.
type UserRepository interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create inserts a new user with zero balances
	Create(ctx context.Context, user *models.User) error

	// CreditBalance adds amount to the cash balance and returns the new balance
	CreditBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	// DebitBalance subtracts amount only if the balance covers it and returns the new balance
	DebitBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	// CreditDil adds DIL points, counting them towards total DIL earned
	CreditDil(ctx context.Context, id uuid.UUID, points int64) (int64, error)

	// DebitDil subtracts DIL points only if the DIL balance covers them
	DebitDil(ctx context.Context, id uuid.UUID, points int64) (int64, error)

	// UpdateStats applies an additive change to tournament statistics
	UpdateStats(ctx context.Context, id uuid.UUID, delta models.UserStatsDelta) error

	// SetActive sets the ban flag
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// List returns users ordered by creation time
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// TournamentRepository defines the interface for tournament data access
type TournamentRepository interface {
	// Create inserts a new tournament
	Create(ctx context.Context, tournament *models.Tournament) error

	// GetByID retrieves a tournament by id
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error)

	// GetByIDForUpdate retrieves a tournament and locks the row
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tournament, error)

	// SlugExists reports whether a slug is taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// List returns tournaments ordered by start time, optionally filtered by status
	List(ctx context.Context, status *models.TournamentStatus, limit int) ([]*models.Tournament, error)

	// IncrementPlayers atomically takes one seat and returns the new player count.
	// Fails with ErrTournamentFull when no seat is left.
	IncrementPlayers(ctx context.Context, id uuid.UUID) (int, error)

	// UpdateStatus moves the tournament from one status to another.
	// Fails with ErrConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TournamentStatus) error

	// ListDueToStart returns upcoming tournaments whose start time is not after now
	ListDueToStart(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// RegistrationRepository defines the interface for registration data access
type RegistrationRepository interface {
	// Create inserts a registration. Fails with ErrAlreadyRegistered on a duplicate pair.
	Create(ctx context.Context, registration *models.Registration) error

	// GetByID retrieves a registration by id
	GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)

	// GetByIDForUpdate retrieves a registration and locks the row
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Registration, error)

	// GetByUserAndTournament retrieves the registration of a user for a tournament
	GetByUserAndTournament(ctx context.Context, userID, tournamentID uuid.UUID) (*models.Registration, error)

	// Settle writes the result once. Fails with ErrAlreadySettled if a result exists.
	Settle(ctx context.Context, id uuid.UUID, result models.RegistrationResult) (*models.Registration, error)

	// ListByTournament returns the registrations of a tournament in registration order
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error)

	// ListByUser returns the registrations of a user with their tournaments, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserRegistration, error)

	// ListRefundable locks and returns registrations with neither result nor refund
	ListRefundable(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error)

	// MarkRefunded flags a registration as refunded
	MarkRefunded(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Create appends a ledger entry and fills in its id and timestamp
	Create(ctx context.Context, transaction *models.Transaction) error

	// ListByUser returns the newest entries of a user in reverse commit order
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error)

	// Summarize sums every entry of a user
	Summarize(ctx context.Context, userID uuid.UUID) (*models.LedgerSummary, error)
}

// SpinRepository defines the interface for spin wheel configuration and history
type SpinRepository interface {
	// CreateReward inserts a wheel slice
	CreateReward(ctx context.Context, reward *models.SpinWheelReward) error

	// GetReward retrieves a wheel slice by id
	GetReward(ctx context.Context, id int64) (*models.SpinWheelReward, error)

	// ListRewards returns wheel slices in insertion order
	ListRewards(ctx context.Context, activeOnly bool) ([]*models.SpinWheelReward, error)

	// ListActiveRewardsByCost returns the active slices of one wheel in insertion order
	ListActiveRewardsByCost(ctx context.Context, dilCost int64) ([]*models.SpinWheelReward, error)

	// SetRewardActive enables or disables a slice
	SetRewardActive(ctx context.Context, id int64, active bool) error

	// RecordSpin appends a spin outcome
	RecordSpin(ctx context.Context, history *models.SpinHistory) error

	// ListHistory returns the newest spins of a user
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SpinHistory, error)
}

// DailyBonusRepository defines the interface for daily bonus claims
type DailyBonusRepository interface {
	// GetByUserAndDay returns the claim of a user for a calendar day
	GetByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.DailyBonus, error)

	// Create stores a claim. Fails with ErrAlreadyClaimedToday on a duplicate day.
	Create(ctx context.Context, bonus *models.DailyBonus) error
}

// NotificationRepository defines the interface for in-app notifications
type NotificationRepository interface {
	// Create stores a notification
	Create(ctx context.Context, notification *models.Notification) error

	// ListByUser returns the newest notifications of a user
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)

	// MarkRead flags a notification of the user as read
	MarkRead(ctx context.Context, userID uuid.UUID, id int64) error
}

// AdvertisementRepository defines the interface for advertisement campaigns
type AdvertisementRepository interface {
	Create(ctx context.Context, ad *models.Advertisement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Advertisement, error)
	Update(ctx context.Context, ad *models.Advertisement) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Advertisement, error)

	// ListRunning returns active campaigns for a slot whose date window contains now
	ListRunning(ctx context.Context, position models.AdPosition, now time.Time) ([]*models.Advertisement, error)

	// IncrementImpressions counts one impression for each campaign
	IncrementImpressions(ctx context.Context, ids []uuid.UUID) error

	// IncrementClicks counts one click
	IncrementClicks(ctx context.Context, id uuid.UUID) error
}

// StatsRepository defines read-only aggregate queries
type StatsRepository interface {
	// Leaderboard ranks users by total earnings with prize money earned since weekStart
	Leaderboard(ctx context.Context, limit int, weekStart time.Time) ([]*models.LeaderboardEntry, error)

	// PlatformStats returns the admin analytics summary
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and releases queued events
	Commit() error

	// Rollback rolls back the transaction, a no-op after Commit
	Rollback() error

	UserRepository() UserRepository
	TournamentRepository() TournamentRepository
	RegistrationRepository() RegistrationRepository
	TransactionRepository() TransactionRepository
	SpinRepository() SpinRepository
	DailyBonusRepository() DailyBonusRepository
	NotificationRepository() NotificationRepository
	AdvertisementRepository() AdvertisementRepository
	StatsRepository() StatsRepository

	// EventBus returns the transactional event bus
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// WalletService moves cash in and out of a user's wallet
type WalletService interface {
	// AddFunds deposits amount into the wallet
	AddFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.User, error)

	// Withdraw takes amount out of the wallet
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.User, error)

	// ListTransactions returns the newest ledger entries of a user
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error)
}

// TournamentService covers the tournament lifecycle and its ledger operations
type TournamentService interface {
	CreateTournament(ctx context.Context, params models.CreateTournamentParams) (*models.Tournament, error)

	// GetTournament returns a tournament. Room credentials are kept only for
	// admins and registered players; uuid.Nil means an anonymous viewer.
	GetTournament(ctx context.Context, tournamentID, viewerID uuid.UUID) (*models.Tournament, error)

	ListTournaments(ctx context.Context, status *models.TournamentStatus, limit int) ([]*models.Tournament, error)

	// JoinTournament charges the entry fee and registers the user
	JoinTournament(ctx context.Context, userID, tournamentID uuid.UUID) (*models.JoinResult, error)

	// SettleResult records a placement once and pays any prize
	SettleResult(ctx context.Context, registrationID uuid.UUID, position *int, kills int) (*models.SettlementResult, error)

	// UpdateStatus applies an admin status transition, refunding on cancellation
	UpdateStatus(ctx context.Context, tournamentID uuid.UUID, status models.TournamentStatus) (*models.Tournament, error)

	ListUserRegistrations(ctx context.Context, userID uuid.UUID) ([]*models.UserRegistration, error)
	ListTournamentRegistrations(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error)

	// StartDueTournaments moves upcoming tournaments past their start time to live
	StartDueTournaments(ctx context.Context, now time.Time) (int, error)
}

// SpinService runs the spin wheel
type SpinService interface {
	Spin(ctx context.Context, userID uuid.UUID, dilCost int64) (*models.SpinResult, error)
	ListRewards(ctx context.Context, activeOnly bool) ([]*models.SpinWheelReward, error)
	CreateReward(ctx context.Context, params models.CreateSpinRewardParams) (*models.SpinWheelReward, error)
	SetRewardActive(ctx context.Context, rewardID int64, active bool) (*models.SpinWheelReward, error)
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SpinHistory, error)
}

// BonusService grants the daily bonus
type BonusService interface {
	ClaimDailyBonus(ctx context.Context, userID uuid.UUID) (*models.DailyBonusResult, error)
}

// UserService manages accounts
type UserService interface {
	Register(ctx context.Context, params models.RegisterParams) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*models.User, error)
}

// StatsService serves the leaderboard and admin analytics
type StatsService interface {
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// AdvertisementService manages ad campaigns
type AdvertisementService interface {
	Create(ctx context.Context, ad *models.Advertisement) (*models.Advertisement, error)
	Update(ctx context.Context, adID uuid.UUID, update models.AdvertisementUpdate) (*models.Advertisement, error)
	Delete(ctx context.Context, adID uuid.UUID) error
	ListAll(ctx context.Context) ([]*models.Advertisement, error)

	// ListActive returns the running campaigns of a slot and counts an impression for each
	ListActive(ctx context.Context, position models.AdPosition) ([]*models.Advertisement, error)

	// RecordClick counts a click and returns the campaign
	RecordClick(ctx context.Context, adID uuid.UUID) (*models.Advertisement, error)
}

// NotificationService serves in-app notifications
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, notificationID int64) error

	// HandleEvent turns committed domain events into notifications
	HandleEvent(ctx context.Context, event events.Event)
}
