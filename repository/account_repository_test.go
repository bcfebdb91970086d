package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino/domain/entities"
	"casino/repository/testutil"
)

func TestAccountRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("account not found", func(t *testing.T) {
		account, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("account found", func(t *testing.T) {
		created, err := repo.Create(ctx, "player-1", 1000)
		require.NoError(t, err)

		account, err := repo.GetByID(ctx, "player-1")
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, created.ID, account.ID)
		assert.Equal(t, int64(1000), account.Balance)
		assert.Equal(t, int64(1), account.Version)
		assert.False(t, account.CreatedAt.IsZero())
	})
}

func TestAccountRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		account, err := repo.Create(ctx, "player-1", 1000)
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, int64(1000), account.Balance)
		assert.Equal(t, int64(1), account.Version)
		assert.False(t, account.UpdatedAt.IsZero())
	})

	t.Run("duplicate account ID", func(t *testing.T) {
		_, err := repo.Create(ctx, "player-2", 1000)
		require.NoError(t, err)

		_, err = repo.Create(ctx, "player-2", 500)
		assert.Error(t, err)
	})

	t.Run("negative balance rejected by constraint", func(t *testing.T) {
		_, err := repo.Create(ctx, "player-3", -1)
		assert.Error(t, err)
	})
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("versioned write succeeds and bumps version", func(t *testing.T) {
		_, err := repo.Create(ctx, "player-1", 1000)
		require.NoError(t, err)

		err = repo.UpdateBalance(ctx, "player-1", 900, 1)
		require.NoError(t, err)

		account, err := repo.GetByID(ctx, "player-1")
		require.NoError(t, err)
		assert.Equal(t, int64(900), account.Balance)
		assert.Equal(t, int64(2), account.Version)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, "player-2", 1000)
		require.NoError(t, err)

		// First writer wins.
		require.NoError(t, repo.UpdateBalance(ctx, "player-2", 900, 1))

		// Second writer still holds version 1 and must lose.
		err = repo.UpdateBalance(ctx, "player-2", 800, 1)
		assert.ErrorIs(t, err, entities.ErrConcurrentModification)

		account, err := repo.GetByID(ctx, "player-2")
		require.NoError(t, err)
		assert.Equal(t, int64(900), account.Balance)
	})

	t.Run("unknown account is rejected", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, "missing", 100, 1)
		assert.ErrorIs(t, err, entities.ErrConcurrentModification)
	})
}
