package service

import (
	"context"
	"testing"
	"time"

	"gamewin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBonusDay_UsesConfiguredZone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on the 1st is already the 2nd in Kolkata
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), BonusDay(now, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), BonusDay(now, kolkata))
}

func TestBonusService_ClaimDailyBonus_Success(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	svc := NewBonusService(m.factory, testPolicy, BonusConfig{Dil: 10, Cash: dec("5.00")}, func() time.Time { return now })

	user := testUser("0.00", 3)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	m.expectCommit(ctx)
	m.users.On("GetByIDForUpdate", ctx, user.ID).Return(user, nil)
	m.bonuses.On("GetByUserAndDay", ctx, user.ID, day).Return(nil, nil)
	m.users.On("CreditDil", ctx, user.ID, int64(10)).Return(int64(13), nil)
	m.users.On("CreditBalance", ctx, user.ID, decEq("5.00")).Return(dec("5.00"), nil)
	m.transactions.On("Create", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypeBonus && tx.Amount.Equal(dec("5")) && tx.DilAmount == 10
	})).Return(nil)
	m.bonuses.On("Create", ctx, mock.MatchedBy(func(b *models.DailyBonus) bool {
		return b.BonusDay.Equal(day) && b.DilAmount == 10
	})).Return(nil)

	result, err := svc.ClaimDailyBonus(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(13), result.User.DilBalance)
	assert.True(t, result.User.Balance.Equal(dec("5.00")))
	m.assertExpectations(t)
}

func TestBonusService_ClaimDailyBonus_SecondClaimSameDay(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	now := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	svc := NewBonusService(m.factory, testPolicy, BonusConfig{Dil: 10, Cash: dec("5.00")}, func() time.Time { return now })

	user := testUser("5.00", 13)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	m.expectRollback(ctx)
	m.users.On("GetByIDForUpdate", ctx, user.ID).Return(user, nil)
	m.bonuses.On("GetByUserAndDay", ctx, user.ID, day).Return(&models.DailyBonus{ID: 1, UserID: user.ID, BonusDay: day}, nil)

	_, err := svc.ClaimDailyBonus(ctx, user.ID)

	assert.ErrorIs(t, err, ErrAlreadyClaimedToday)
	m.users.AssertNotCalled(t, "CreditDil", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestBonusService_ClaimDailyBonus_UniqueViolationRace(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewBonusService(m.factory, testPolicy, BonusConfig{Dil: 10}, func() time.Time { return now })

	user := testUser("0.00", 0)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	m.expectRollback(ctx)
	m.users.On("GetByIDForUpdate", ctx, user.ID).Return(user, nil)
	m.bonuses.On("GetByUserAndDay", ctx, user.ID, day).Return(nil, nil)
	m.users.On("CreditDil", ctx, user.ID, int64(10)).Return(int64(10), nil)
	m.transactions.On("Create", ctx, mock.Anything).Return(nil)
	m.bonuses.On("Create", ctx, mock.Anything).Return(ErrAlreadyClaimedToday)

	_, err := svc.ClaimDailyBonus(ctx, user.ID)

	assert.ErrorIs(t, err, ErrAlreadyClaimedToday)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}
