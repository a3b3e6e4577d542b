package repository

import (
	"context"
	"testing"

	"gamewin/models"
	"gamewin/repository/testutil"
	"gamewin/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func insertUser(t *testing.T, repo *UserRepository, username string, balance string, dil int64) *models.User {
	t.Helper()
	user := testutil.CreateTestUser(username, dec(balance), dil)
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		user := insertUser(t, repo, "alice", "25.50", 40)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "alice", found.Username)
		assert.True(t, dec("25.50").Equal(found.Balance))
		assert.Equal(t, int64(40), found.DilBalance)
		assert.Equal(t, models.UserRoleUser, found.Role)
		assert.False(t, found.CreatedAt.IsZero())

		byName, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)
	})

	t.Run("missing user returns nil", func(t *testing.T) {
		found, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate username and email", func(t *testing.T) {
		insertUser(t, repo, "bob", "0", 0)

		dupName := testutil.CreateTestUser("bob", decimal.Zero, 0)
		dupName.Email = "other@example.com"
		err := repo.Create(ctx, dupName)
		assert.ErrorIs(t, err, service.ErrUsernameTaken)

		dupEmail := testutil.CreateTestUser("bobby", decimal.Zero, 0)
		dupEmail.Email = "bob@example.com"
		err = repo.Create(ctx, dupEmail)
		assert.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("credit and debit balance", func(t *testing.T) {
		user := insertUser(t, repo, "carol", "10.00", 0)

		balance, err := repo.CreditBalance(ctx, user.ID, dec("5.25"))
		require.NoError(t, err)
		assert.True(t, dec("15.25").Equal(balance))

		balance, err = repo.DebitBalance(ctx, user.ID, dec("15.25"))
		require.NoError(t, err)
		assert.True(t, balance.IsZero())

		_, err = repo.DebitBalance(ctx, user.ID, dec("0.01"))
		assert.ErrorIs(t, err, service.ErrInsufficientBalance)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.Balance.IsZero())
	})

	t.Run("credit balance of missing user", func(t *testing.T) {
		_, err := repo.CreditBalance(ctx, uuid.New(), dec("1"))
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("credit past the column range", func(t *testing.T) {
		user := insertUser(t, repo, "whale", "9999999999.00", 0)

		_, err := repo.CreditBalance(ctx, user.ID, dec("9999999999.99"))
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
		assert.NotErrorIs(t, err, service.ErrStorageUnavailable)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, dec("9999999999.00").Equal(found.Balance))
	})

	t.Run("credit and debit DIL", func(t *testing.T) {
		user := insertUser(t, repo, "dave", "0", 5)

		dil, err := repo.CreditDil(ctx, user.ID, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(25), dil)

		dil, err = repo.DebitDil(ctx, user.ID, 25)
		require.NoError(t, err)
		assert.Equal(t, int64(0), dil)

		_, err = repo.DebitDil(ctx, user.ID, 1)
		assert.ErrorIs(t, err, service.ErrInsufficientDil)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), found.TotalDilEarned)
	})

	t.Run("update stats", func(t *testing.T) {
		user := insertUser(t, repo, "erin", "0", 0)

		err := repo.UpdateStats(ctx, user.ID, models.UserStatsDelta{
			TotalEarnings:  dec("300.00"),
			TournamentsWon: 1,
			GamesPlayed:    1,
			Medals:         2,
		})
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, dec("300").Equal(found.TotalEarnings))
		assert.Equal(t, 1, found.TournamentsWon)
		assert.Equal(t, 1, found.GamesPlayed)
		assert.Equal(t, 2, found.Medals)
	})

	t.Run("set active", func(t *testing.T) {
		user := insertUser(t, repo, "frank", "0", 0)

		require.NoError(t, repo.SetActive(ctx, user.ID, false))
		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, found.IsActive)

		assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), true), service.ErrUserNotFound)
	})

	t.Run("list with paging", func(t *testing.T) {
		first, err := repo.List(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, first, 2)

		rest, err := repo.List(ctx, 100, 2)
		require.NoError(t, err)
		for _, u := range rest {
			assert.NotEqual(t, first[0].ID, u.ID)
			assert.NotEqual(t, first[1].ID, u.ID)
		}
	})
}
