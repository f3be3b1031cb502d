package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsule/capsule/internal/model"
)

func testDraft(title string, at time.Time) model.MessageDraft {
	d := model.NewDraft()
	d.Title = title
	d.Content = "content"
	d.RecipientEmail = "a@b.com"
	d.DeliveryDate = model.NewTimestamp(at)
	d.PersonalityProfile = map[string]any{"humor": "dry"}
	return d
}

func TestMessageRepository_Create(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()

	msg, err := repo.Create(ctx, 1, testDraft("first", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, int64(1), msg.UserID)
	assert.False(t, msg.IsDelivered)
	assert.NotNil(t, msg.CreatedAt)

	second, err := repo.Create(ctx, 1, testDraft("second", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestMessageRepository_ScopedToUser(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()

	msg, err := repo.Create(ctx, 1, testDraft("mine", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	t.Run("other users cannot read", func(t *testing.T) {
		found, err := repo.FindByID(ctx, 2, msg.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("other users cannot delete", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, 2, msg.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("list only returns own messages", func(t *testing.T) {
		msgs, err := repo.FindByUserID(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, msgs)
		assert.NotNil(t, msgs)
	})
}

func TestMessageRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()

	msg, err := repo.Create(ctx, 1, testDraft("x", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	msg.PersonalityProfile["humor"] = "broad"

	found, err := repo.FindByID(ctx, 1, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "dry", found.PersonalityProfile["humor"])
}

func TestMessageRepository_UpdateAndDelete(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()

	msg, err := repo.Create(ctx, 1, testDraft("before", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, 1, msg.ID, testDraft("after", time.Now().Add(2*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, msg.CreatedAt, updated.CreatedAt)
	assert.NotNil(t, updated.UpdatedAt)

	missing, err := repo.Update(ctx, 1, 999, testDraft("x", time.Now()))
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := repo.Delete(ctx, 1, msg.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	msgs, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessageRepository_MarkDueDelivered(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()
	now := time.Now()

	due, err := repo.Create(ctx, 1, testDraft("due", now.Add(-time.Minute)))
	require.NoError(t, err)
	later, err := repo.Create(ctx, 1, testDraft("later", now.Add(time.Hour)))
	require.NoError(t, err)

	count, err := repo.MarkDueDelivered(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, _ := repo.FindByID(ctx, 1, due.ID)
	assert.True(t, found.IsDelivered)
	found, _ = repo.FindByID(ctx, 1, later.ID)
	assert.False(t, found.IsDelivered)

	t.Run("delivered messages are not counted again", func(t *testing.T) {
		count, err := repo.MarkDueDelivered(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("update keeps delivery state", func(t *testing.T) {
		updated, err := repo.Update(ctx, 1, due.ID, testDraft("edited", now.Add(time.Hour)))
		require.NoError(t, err)
		assert.True(t, updated.IsDelivered)
	})
}
