package repository

import (
	"context"
	"testing"
	"time"

	"gamewin/models"
	"gamewin/repository/testutil"
	"gamewin/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyBonusRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	users := NewUserRepository(testDB.DB)
	repo := NewDailyBonusRepository(testDB.DB)
	ctx := context.Background()

	user := insertUser(t, users, "bonus_user", "0", 0)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("no claim yet", func(t *testing.T) {
		bonus, err := repo.GetByUserAndDay(ctx, user.ID, day)
		require.NoError(t, err)
		assert.Nil(t, bonus)
	})

	t.Run("claim once per day", func(t *testing.T) {
		bonus := &models.DailyBonus{UserID: user.ID, BonusDay: day, DilAmount: 10, CashAmount: dec("5.00")}
		require.NoError(t, repo.Create(ctx, bonus))
		assert.NotZero(t, bonus.ID)

		found, err := repo.GetByUserAndDay(ctx, user.ID, day)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "2026-03-14", found.BonusDay.Format(time.DateOnly))
		assert.Equal(t, int64(10), found.DilAmount)

		again := &models.DailyBonus{UserID: user.ID, BonusDay: day, DilAmount: 10, CashAmount: dec("5.00")}
		assert.ErrorIs(t, repo.Create(ctx, again), service.ErrAlreadyClaimedToday)
	})

	t.Run("next day is a new claim", func(t *testing.T) {
		next := &models.DailyBonus{UserID: user.ID, BonusDay: day.AddDate(0, 0, 1), DilAmount: 10, CashAmount: dec("5.00")}
		require.NoError(t, repo.Create(ctx, next))
	})
}
