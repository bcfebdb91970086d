package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino/domain/entities"
	"casino/repository/testutil"
)

func setupTicketTest(t *testing.T) (*testutil.TestDatabase, *entities.GameRound) {
	t.Helper()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	_, err := NewAccountRepository(testDB.DB).Create(ctx, "player-1", 1000)
	require.NoError(t, err)

	round := testutil.CreateTestRound(entities.GameTypeRoulette)
	require.NoError(t, NewRoundRepository(testDB.DB).Create(ctx, round))
	return testDB, round
}

func TestTicketRepository_CreateAndGetByID(t *testing.T) {
	t.Parallel()
	testDB, round := setupTicketTest(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	t.Run("ticket not found", func(t *testing.T) {
		ticket, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, ticket)
	})

	t.Run("selections survive the jsonb roundtrip", func(t *testing.T) {
		ticket := testutil.CreateTestTicket("player-1", round.ID, map[string]int64{
			"red":        100,
			"straight:7": 25,
		})
		require.NoError(t, repo.Create(ctx, ticket))

		loaded, err := repo.GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)

		assert.Equal(t, map[string]int64{"red": 100, "straight:7": 25}, loaded.Selections)
		assert.Equal(t, int64(125), loaded.TotalStake)
		assert.Equal(t, entities.TicketStatusOpen, loaded.Status)
		assert.Nil(t, loaded.SettledAt)
	})
}

func TestTicketRepository_GetOpenByRound(t *testing.T) {
	t.Parallel()
	testDB, round := setupTicketTest(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	open := testutil.CreateTestTicket("player-1", round.ID, map[string]int64{"red": 100})
	require.NoError(t, repo.Create(ctx, open))

	cancelled := testutil.CreateTestTicket("player-1", round.ID, map[string]int64{"black": 50})
	require.NoError(t, repo.Create(ctx, cancelled))

	now := time.Now().UTC()
	cancelled.Status = entities.TicketStatusVoid
	cancelled.SettledAt = &now
	require.NoError(t, repo.Update(ctx, cancelled))

	openTickets, err := repo.GetOpenByRound(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, openTickets, 1)
	assert.Equal(t, open.ID, openTickets[0].ID)

	all, err := repo.GetByRound(ctx, round.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTicketRepository_Update(t *testing.T) {
	t.Parallel()
	testDB, round := setupTicketTest(t)

	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	ticket := testutil.CreateTestTicket("player-1", round.ID, map[string]int64{"red": 100})
	require.NoError(t, repo.Create(ctx, ticket))

	// Double down: selections and stake grow together.
	ticket.Selections["red"] = 200
	ticket.TotalStake = 200
	require.NoError(t, repo.Update(ctx, ticket))

	now := time.Now().UTC()
	ticket.Status = entities.TicketStatusSettled
	ticket.SettledAt = &now
	require.NoError(t, repo.Update(ctx, ticket))

	loaded, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), loaded.TotalStake)
	assert.Equal(t, entities.TicketStatusSettled, loaded.Status)
	require.NotNil(t, loaded.SettledAt)
}
