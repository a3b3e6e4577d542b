package service

import (
	"context"
	"testing"
	"time"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// testPolicy has no timeout so mocks see the caller's context
var testPolicy = TxPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

type serviceMocks struct {
	factory       *MockUnitOfWorkFactory
	uow           *MockUnitOfWork
	users         *MockUserRepository
	tournaments   *MockTournamentRepository
	registrations *MockRegistrationRepository
	transactions  *MockTransactionRepository
	spins         *MockSpinRepository
	bonuses       *MockDailyBonusRepository
	notifications *MockNotificationRepository
	ads           *MockAdvertisementRepository
	stats         *MockStatsRepository
	publisher     *MockEventPublisher
}

func newServiceMocks() *serviceMocks {
	m := &serviceMocks{
		factory:       new(MockUnitOfWorkFactory),
		uow:           new(MockUnitOfWork),
		users:         new(MockUserRepository),
		tournaments:   new(MockTournamentRepository),
		registrations: new(MockRegistrationRepository),
		transactions:  new(MockTransactionRepository),
		spins:         new(MockSpinRepository),
		bonuses:       new(MockDailyBonusRepository),
		notifications: new(MockNotificationRepository),
		ads:           new(MockAdvertisementRepository),
		stats:         new(MockStatsRepository),
		publisher:     new(MockEventPublisher),
	}
	m.uow.SetRepositories(m.users, m.tournaments, m.registrations, m.transactions, m.spins,
		m.bonuses, m.notifications, m.ads, m.stats, m.publisher)
	return m
}

// expectCommit sets up one unit of work that is expected to commit
func (m *serviceMocks) expectCommit(ctx context.Context) {
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
}

// expectRollback sets up one unit of work that fails before committing
func (m *serviceMocks) expectRollback(ctx context.Context) {
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.tournaments.AssertExpectations(t)
	m.registrations.AssertExpectations(t)
	m.transactions.AssertExpectations(t)
	m.spins.AssertExpectations(t)
	m.bonuses.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
	m.ads.AssertExpectations(t)
	m.stats.AssertExpectations(t)
}

// ledgerEntries returns the ledger events published so far
func (m *serviceMocks) ledgerEntries() []events.LedgerEntryEvent {
	var entries []events.LedgerEntryEvent
	for _, e := range m.publisher.Published {
		if entry, ok := e.(events.LedgerEntryEvent); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decEq matches a decimal argument by value, ignoring its scale
func decEq(s string) any {
	want := dec(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}

func intPtr(v int) *int {
	return &v
}

func testUser(balance string, dil int64) *models.User {
	return &models.User{
		ID:            uuid.New(),
		Username:      "player_one",
		Email:         "player@example.com",
		Role:          models.UserRoleUser,
		Balance:       dec(balance),
		TotalEarnings: decimal.Zero,
		DilBalance:    dil,
		IsActive:      true,
	}
}

func testTournament(entryFee string, current, max int) *models.Tournament {
	return &models.Tournament{
		ID:             uuid.New(),
		Slug:           "weekend-squad-cup",
		Title:          "Weekend Squad Cup",
		Game:           models.GamePUBG,
		GameMode:       models.GameModeSquad,
		PrizePool:      dec("10000.00"),
		EntryFee:       dec(entryFee),
		FirstPrize:     dec("5000.00"),
		SecondPrize:    dec("3000.00"),
		ThirdPrize:     dec("2000.00"),
		MaxPlayers:     max,
		CurrentPlayers: current,
		Status:         models.TournamentStatusUpcoming,
		StartTime:      time.Now().Add(time.Hour),
	}
}
