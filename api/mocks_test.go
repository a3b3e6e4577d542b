package api

import (
	"context"
	"time"

	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, params models.RegisterParams) (*models.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserService) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*models.User, error) {
	args := m.Called(ctx, userID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockWalletService struct {
	mock.Mock
}

func (m *mockWalletService) AddFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.User, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockWalletService) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.User, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockWalletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

type mockTournamentService struct {
	mock.Mock
}

func (m *mockTournamentService) CreateTournament(ctx context.Context, params models.CreateTournamentParams) (*models.Tournament, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *mockTournamentService) GetTournament(ctx context.Context, tournamentID, viewerID uuid.UUID) (*models.Tournament, error) {
	args := m.Called(ctx, tournamentID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *mockTournamentService) ListTournaments(ctx context.Context, status *models.TournamentStatus, limit int) ([]*models.Tournament, error) {
	args := m.Called(ctx, status, limit)
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *mockTournamentService) JoinTournament(ctx context.Context, userID, tournamentID uuid.UUID) (*models.JoinResult, error) {
	args := m.Called(ctx, userID, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JoinResult), args.Error(1)
}

func (m *mockTournamentService) SettleResult(ctx context.Context, registrationID uuid.UUID, position *int, kills int) (*models.SettlementResult, error) {
	args := m.Called(ctx, registrationID, position, kills)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettlementResult), args.Error(1)
}

func (m *mockTournamentService) UpdateStatus(ctx context.Context, tournamentID uuid.UUID, status models.TournamentStatus) (*models.Tournament, error) {
	args := m.Called(ctx, tournamentID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *mockTournamentService) ListUserRegistrations(ctx context.Context, userID uuid.UUID) ([]*models.UserRegistration, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.UserRegistration), args.Error(1)
}

func (m *mockTournamentService) ListTournamentRegistrations(ctx context.Context, tournamentID uuid.UUID) ([]*models.Registration, error) {
	args := m.Called(ctx, tournamentID)
	return args.Get(0).([]*models.Registration), args.Error(1)
}

func (m *mockTournamentService) StartDueTournaments(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type mockSpinService struct {
	mock.Mock
}

func (m *mockSpinService) Spin(ctx context.Context, userID uuid.UUID, dilCost int64) (*models.SpinResult, error) {
	args := m.Called(ctx, userID, dilCost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SpinResult), args.Error(1)
}

func (m *mockSpinService) ListRewards(ctx context.Context, activeOnly bool) ([]*models.SpinWheelReward, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*models.SpinWheelReward), args.Error(1)
}

func (m *mockSpinService) CreateReward(ctx context.Context, params models.CreateSpinRewardParams) (*models.SpinWheelReward, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SpinWheelReward), args.Error(1)
}

func (m *mockSpinService) SetRewardActive(ctx context.Context, rewardID int64, active bool) (*models.SpinWheelReward, error) {
	args := m.Called(ctx, rewardID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SpinWheelReward), args.Error(1)
}

func (m *mockSpinService) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SpinHistory, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]*models.SpinHistory), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
