package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPasswordResetRepository(t *testing.T) {
	db := setupAssetTestDB(t)
	repo := NewGormPasswordResetRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice@example.com", "Alice", identity.RoleUser)
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	older, _, err := identity.NewPasswordResetCode(user, 5*time.Minute, base)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, older))
	latest, plain, err := identity.NewPasswordResetCode(user, 5*time.Minute, base.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, latest))

	t.Run("latest code wins", func(t *testing.T) {
		found, err := repo.FindLatest(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, latest.ID, found.ID)
		assert.Equal(t, user.Email, found.Email)
		assert.NoError(t, found.Verify(plain, base.Add(2*time.Minute), 5))
	})

	t.Run("attempts and use are persisted", func(t *testing.T) {
		found, err := repo.FindLatest(ctx, user.ID)
		require.NoError(t, err)
		found.Attempts = 2
		found.Consume(base.Add(3 * time.Minute))
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindLatest(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, reloaded.Attempts)
		require.NotNil(t, reloaded.UsedAt)
		assert.False(t, reloaded.IsActive(base.Add(3*time.Minute)))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.FindLatest(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("deletes only expired codes", func(t *testing.T) {
		deleted, err := repo.DeleteExpiredBefore(ctx, base.Add(5*time.Minute+30*time.Second))
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		found, err := repo.FindLatest(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, latest.ID, found.ID)
	})
}
