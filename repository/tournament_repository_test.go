package repository

import (
	"context"
	"testing"
	"time"

	"gamewin/models"
	"gamewin/repository/testutil"
	"gamewin/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTournamentRepository(testDB.DB)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		tournament := testutil.CreateTestTournament("Sunday Cup", dec("10.00"), 4)
		roomID := "room-1"
		tournament.RoomID = &roomID
		require.NoError(t, repo.Create(ctx, tournament))

		found, err := repo.GetByID(ctx, tournament.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Sunday Cup", found.Title)
		assert.Equal(t, models.TournamentStatusUpcoming, found.Status)
		assert.Equal(t, 0, found.CurrentPlayers)
		assert.True(t, dec("10").Equal(found.EntryFee))
		require.NotNil(t, found.RoomID)
		assert.Equal(t, "room-1", *found.RoomID)

		exists, err := repo.SlugExists(ctx, tournament.Slug)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SlugExists(ctx, "no-such-slug")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		first := testutil.CreateTestTournament("A", dec("0"), 2)
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.CreateTestTournament("B", dec("0"), 2)
		second.Slug = first.Slug
		assert.ErrorIs(t, repo.Create(ctx, second), service.ErrConflict)
	})

	t.Run("increment players stops at capacity", func(t *testing.T) {
		tournament := testutil.CreateTestTournament("Duo Night", dec("0"), 2)
		require.NoError(t, repo.Create(ctx, tournament))

		players, err := repo.IncrementPlayers(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, players)

		players, err = repo.IncrementPlayers(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, players)

		_, err = repo.IncrementPlayers(ctx, tournament.ID)
		assert.ErrorIs(t, err, service.ErrTournamentFull)
	})

	t.Run("update status is guarded by the current status", func(t *testing.T) {
		tournament := testutil.CreateTestTournament("Guarded", dec("0"), 2)
		require.NoError(t, repo.Create(ctx, tournament))

		require.NoError(t, repo.UpdateStatus(ctx, tournament.ID, models.TournamentStatusUpcoming, models.TournamentStatusLive))

		err := repo.UpdateStatus(ctx, tournament.ID, models.TournamentStatusUpcoming, models.TournamentStatusCancelled)
		assert.ErrorIs(t, err, service.ErrConflict)

		require.NoError(t, repo.UpdateStatus(ctx, tournament.ID, models.TournamentStatusLive, models.TournamentStatusCompleted))
		found, err := repo.GetByID(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TournamentStatusCompleted, found.Status)
		assert.NotNil(t, found.EndTime)
	})

	t.Run("list filters by status", func(t *testing.T) {
		live := models.TournamentStatusLive
		tournaments, err := repo.List(ctx, &live, 100)
		require.NoError(t, err)
		for _, tournament := range tournaments {
			assert.Equal(t, models.TournamentStatusLive, tournament.Status)
		}

		all, err := repo.List(ctx, nil, 100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 4)
	})

	t.Run("list due to start", func(t *testing.T) {
		due := testutil.CreateTestTournament("Past start", dec("0"), 2)
		due.StartTime = time.Now().Add(-time.Minute).UTC()
		require.NoError(t, repo.Create(ctx, due))

		ids, err := repo.ListDueToStart(ctx, time.Now())
		require.NoError(t, err)
		assert.Contains(t, ids, due.ID)
		for _, id := range ids {
			assert.NotEqual(t, uuid.Nil, id)
		}
	})
}
