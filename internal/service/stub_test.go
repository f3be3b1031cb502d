package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/handler"
	"github.com/timecapsule/capsule/internal/model"
	"github.com/timecapsule/capsule/internal/repository"
	"github.com/timecapsule/capsule/internal/resource"
	"github.com/timecapsule/capsule/internal/session"
)

type stubEnv struct {
	store       *session.Store
	auth        *AuthService
	messages    *MessageService
	profile     *ProfileService
	messageRepo repository.MessageRepository
}

func newStubEnv(t *testing.T) *stubEnv {
	t.Helper()
	messageRepo := repository.NewMemoryMessageRepository()
	server := httptest.NewServer(handler.NewRouter(handler.Deps{
		UserRepo:    repository.NewMemoryUserRepository(),
		MessageRepo: messageRepo,
	}))
	t.Cleanup(server.Close)

	store := session.NewStore(repository.NewMemoryCredentialRepository())
	client := resource.NewClient(server.URL+handler.APIPrefix, store)

	return &stubEnv{
		store:       store,
		auth:        NewAuthService(client, store),
		messages:    NewMessageService(client),
		profile:     NewProfileService(client),
		messageRepo: messageRepo,
	}
}

func (e *stubEnv) register(t *testing.T) {
	t.Helper()
	_, err := e.auth.Register(context.Background(), model.Registration{
		Email:    "ada@example.com",
		Password: "pw",
		FullName: "Ada",
	})
	require.NoError(t, err)
	require.True(t, e.auth.Authenticated())
}

func scheduledDraft() model.MessageDraft {
	d := model.NewDraft()
	d.Title = "Hi"
	d.Content = "Happy birthday"
	d.RecipientEmail = "a@b.com"
	d.DeliveryDate = model.NewTimestamp(time.Now().Add(30 * 24 * time.Hour))
	return d
}

func TestStub_CreateEmailMessage(t *testing.T) {
	env := newStubEnv(t)
	env.register(t)
	ctx := context.Background()

	msg, err := env.messages.Create(ctx, scheduledDraft())
	require.NoError(t, err)
	assert.False(t, msg.IsDelivered)
	assert.Equal(t, model.MessageStatusPending, msg.Status())
	assert.Equal(t, model.DefaultGenerationSettings(), msg.GenerationSettings)
}

func TestStub_DeleteThenList(t *testing.T) {
	env := newStubEnv(t)
	env.register(t)
	ctx := context.Background()

	first, err := env.messages.Create(ctx, scheduledDraft())
	require.NoError(t, err)
	second, err := env.messages.Create(ctx, scheduledDraft())
	require.NoError(t, err)

	require.NoError(t, env.messages.Delete(ctx, first.ID))

	msgs, err := env.messages.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, second.ID, msgs[0].ID)

	t.Run("deleting again is not an error", func(t *testing.T) {
		assert.NoError(t, env.messages.Delete(ctx, first.ID))
	})
}

func TestStub_UpdateRoundTrip(t *testing.T) {
	env := newStubEnv(t)
	env.register(t)
	ctx := context.Background()

	created, err := env.messages.Create(ctx, scheduledDraft())
	require.NoError(t, err)

	fetched, err := env.messages.Get(ctx, created.ID)
	require.NoError(t, err)

	updated, err := env.messages.Update(ctx, created.ID, *fetched)
	require.NoError(t, err)

	assert.Equal(t, fetched.Draft(), updated.Draft())
	assert.Equal(t, fetched.ID, updated.ID)
	assert.Equal(t, fetched.IsDelivered, updated.IsDelivered)
}

func TestStub_GetUnknownIsNotFound(t *testing.T) {
	env := newStubEnv(t)
	env.register(t)

	_, err := env.messages.Get(context.Background(), 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	assert.True(t, env.auth.Authenticated())
}

func TestStub_DeliveredMessageIsReadOnly(t *testing.T) {
	env := newStubEnv(t)
	env.register(t)
	ctx := context.Background()

	created, err := env.messages.Create(ctx, scheduledDraft())
	require.NoError(t, err)

	_, err = env.messageRepo.MarkDueDelivered(ctx, time.Now().Add(365*24*time.Hour))
	require.NoError(t, err)

	delivered, err := env.messages.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, delivered.IsDelivered)

	t.Run("client refuses locally", func(t *testing.T) {
		_, err := env.messages.Update(ctx, created.ID, *delivered)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidRequest))
		assert.True(t, apperrors.Is(env.messages.DeleteMessage(ctx, *delivered), apperrors.ErrCodeInvalidRequest))
	})

	t.Run("server refusal is classified the same way", func(t *testing.T) {
		stale := *delivered
		stale.IsDelivered = false
		_, err := env.messages.Update(ctx, created.ID, stale)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidRequest))
		assert.True(t, apperrors.Is(env.messages.Delete(ctx, created.ID), apperrors.ErrCodeInvalidRequest))
	})
}

func TestStub_Profile(t *testing.T) {
	env := newStubEnv(t)
	env.register(t)
	ctx := context.Background()

	t.Run("mismatched confirmation fails locally", func(t *testing.T) {
		err := env.profile.ChangePassword(ctx, "x", "y", "z")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	})

	t.Run("wrong current password keeps the session", func(t *testing.T) {
		err := env.profile.ChangePassword(ctx, "bad", "new", "new")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidRequest))
		assert.True(t, env.auth.Authenticated())
	})

	t.Run("patch self", func(t *testing.T) {
		edit, err := model.ProfileEdit{}.With("full_name", "Ada Lovelace")
		require.NoError(t, err)

		profile, err := env.profile.PatchSelf(ctx, edit)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", profile.FullName)
	})
}

func TestStub_RejectedCredentialLogsOut(t *testing.T) {
	env := newStubEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Set(ctx, "forged-token"))

	_, err := env.messages.List(ctx)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthenticated))
	assert.False(t, env.auth.Authenticated())

	_, err = env.messages.List(ctx)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthenticated))
}
