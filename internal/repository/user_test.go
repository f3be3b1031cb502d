package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsule/capsule/internal/model"
)

func TestUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Create(ctx, model.Registration{Email: "Ada@Example.com", FullName: "Ada"}, "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.True(t, user.IsActive)

	t.Run("finds by email case-insensitively", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("returns nil for unknown email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("resolves tokens", func(t *testing.T) {
		require.NoError(t, repo.SaveToken(ctx, "token-hash", user.ID))

		found, err := repo.FindByTokenHash(ctx, "token-hash")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)

		found, err = repo.FindByTokenHash(ctx, "other")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("updates profile and password", func(t *testing.T) {
		updated, err := repo.Update(ctx, user.ID, model.ProfileUpdate{Email: "ada@new.com", FullName: "Ada L"})
		require.NoError(t, err)
		assert.Equal(t, "ada@new.com", updated.Email)
		assert.Equal(t, "Ada L", updated.FullName)

		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", found.PasswordHash)
	})

	t.Run("update of unknown user returns nil", func(t *testing.T) {
		updated, err := repo.Update(ctx, 99, model.ProfileUpdate{})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}
