package service

import (
	"context"
	"time"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CreditBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUserRepository) DebitBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUserRepository) CreditDil(ctx context.Context, id uuid.UUID, points int64) (int64, error) {
	args := m.Called(ctx, id, points)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DebitDil(ctx context.Context, id uuid.UUID, points int64) (int64, error) {
	args := m.Called(ctx, id, points)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateStats(ctx context.Context, id uuid.UUID, delta models.UserStatsDelta) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockTournamentRepository is a mock implementation of TournamentRepository
type MockTournamentRepository struct {
	mock.Mock
}

func (m *MockTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	args := m.Called(ctx, tournament)
	return args.Error(0)
}

func (m *MockTournamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockTournamentRepository) List(ctx context.Context, status *models.TournamentStatus, limit int) ([]*models.Tournament, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) IncrementPlayers(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockTournamentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TournamentStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockTournamentRepository) ListDueToStart(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockRegistrationRepository is a mock implementation of RegistrationRepository
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) GetByUserAndTournament(ctx context.Context, userID, tournamentID uuid.UUID) (*models.Registration, error) {
	args := m.Called(ctx, userID, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) Settle(ctx context.Context, id uuid.UUID, result models.RegistrationResult) (*models.Registration, error) {
	args := m.Called(ctx, id, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserRegistration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) ListRefundable(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Summarize(ctx context.Context, userID uuid.UUID) (*models.LedgerSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerSummary), args.Error(1)
}

// MockSpinRepository is a mock implementation of SpinRepository
type MockSpinRepository struct {
	mock.Mock
}

func (m *MockSpinRepository) CreateReward(ctx context.Context, reward *models.SpinWheelReward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockSpinRepository) GetReward(ctx context.Context, id int64) (*models.SpinWheelReward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SpinWheelReward), args.Error(1)
}

func (m *MockSpinRepository) ListRewards(ctx context.Context, activeOnly bool) ([]*models.SpinWheelReward, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SpinWheelReward), args.Error(1)
}

func (m *MockSpinRepository) ListActiveRewardsByCost(ctx context.Context, dilCost int64) ([]*models.SpinWheelReward, error) {
	args := m.Called(ctx, dilCost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SpinWheelReward), args.Error(1)
}

func (m *MockSpinRepository) SetRewardActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockSpinRepository) RecordSpin(ctx context.Context, history *models.SpinHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockSpinRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SpinHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SpinHistory), args.Error(1)
}

// MockDailyBonusRepository is a mock implementation of DailyBonusRepository
type MockDailyBonusRepository struct {
	mock.Mock
}

func (m *MockDailyBonusRepository) GetByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.DailyBonus, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyBonus), args.Error(1)
}

func (m *MockDailyBonusRepository) Create(ctx context.Context, bonus *models.DailyBonus) error {
	args := m.Called(ctx, bonus)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockAdvertisementRepository is a mock implementation of AdvertisementRepository
type MockAdvertisementRepository struct {
	mock.Mock
}

func (m *MockAdvertisementRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *MockAdvertisementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Advertisement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *MockAdvertisementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdvertisementRepository) List(ctx context.Context) ([]*models.Advertisement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementRepository) ListRunning(ctx context.Context, position models.AdPosition, now time.Time) ([]*models.Advertisement, error) {
	args := m.Called(ctx, position, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Advertisement), args.Error(1)
}

func (m *MockAdvertisementRepository) IncrementImpressions(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockAdvertisementRepository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Leaderboard(ctx context.Context, limit int, weekStart time.Time) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockStatsRepository) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlatformStats), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing.
// Published events are recorded; expectations are only checked when set.
type MockEventPublisher struct {
	mock.Mock
	Published []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Published = append(m.Published, event)
	if len(m.ExpectedCalls) > 0 {
		m.Called(event)
	}
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo          UserRepository
	tournamentRepo    TournamentRepository
	registrationRepo  RegistrationRepository
	transactionRepo   TransactionRepository
	spinRepo          SpinRepository
	dailyBonusRepo    DailyBonusRepository
	notificationRepo  NotificationRepository
	advertisementRepo AdvertisementRepository
	statsRepo         StatsRepository
	publisher         *MockEventPublisher
}

// SetRepositories wires mock repositories by their type
func (m *MockUnitOfWork) SetRepositories(repos ...any) {
	for _, repo := range repos {
		switch r := repo.(type) {
		case *MockUserRepository:
			m.userRepo = r
		case *MockTournamentRepository:
			m.tournamentRepo = r
		case *MockRegistrationRepository:
			m.registrationRepo = r
		case *MockTransactionRepository:
			m.transactionRepo = r
		case *MockSpinRepository:
			m.spinRepo = r
		case *MockDailyBonusRepository:
			m.dailyBonusRepo = r
		case *MockNotificationRepository:
			m.notificationRepo = r
		case *MockAdvertisementRepository:
			m.advertisementRepo = r
		case *MockStatsRepository:
			m.statsRepo = r
		case *MockEventPublisher:
			m.publisher = r
		default:
			panic("unsupported mock repository")
		}
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository                   { return m.userRepo }
func (m *MockUnitOfWork) TournamentRepository() TournamentRepository       { return m.tournamentRepo }
func (m *MockUnitOfWork) RegistrationRepository() RegistrationRepository   { return m.registrationRepo }
func (m *MockUnitOfWork) TransactionRepository() TransactionRepository     { return m.transactionRepo }
func (m *MockUnitOfWork) SpinRepository() SpinRepository                   { return m.spinRepo }
func (m *MockUnitOfWork) DailyBonusRepository() DailyBonusRepository       { return m.dailyBonusRepo }
func (m *MockUnitOfWork) NotificationRepository() NotificationRepository   { return m.notificationRepo }
func (m *MockUnitOfWork) AdvertisementRepository() AdvertisementRepository { return m.advertisementRepo }
func (m *MockUnitOfWork) StatsRepository() StatsRepository                 { return m.statsRepo }

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.publisher == nil {
		m.publisher = &MockEventPublisher{}
	}
	return m.publisher
}

// Events returns everything published through this unit of work
func (m *MockUnitOfWork) Events() []events.Event {
	if m.publisher == nil {
		return nil
	}
	return m.publisher.Published
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
