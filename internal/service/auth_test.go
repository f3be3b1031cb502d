package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/model"
)

func loginForm(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("stores returned credential", func(t *testing.T) {
		api := new(mockAPI)
		creds := new(mockCredentials)
		api.On("PostForm", ctx, "/login/access-token", loginForm("a@b.com", "pw"), mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(3).(*model.AccessToken) = model.AccessToken{AccessToken: "tok", TokenType: "bearer"}
			}).
			Return(nil)
		creds.On("Set", ctx, "tok").Return(nil)

		require.NoError(t, NewAuthService(api, creds).Login(ctx, "a@b.com", "pw"))
		api.AssertExpectations(t)
		creds.AssertExpectations(t)
	})

	t.Run("rejected login stores nothing", func(t *testing.T) {
		api := new(mockAPI)
		creds := new(mockCredentials)
		api.On("PostForm", ctx, "/login/access-token", mock.Anything, mock.Anything).
			Return(apperrors.InvalidRequest("Incorrect email or password"))

		err := NewAuthService(api, creds).Login(ctx, "a@b.com", "bad")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidRequest))
		creds.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})

	t.Run("missing token is a malformed response", func(t *testing.T) {
		api := new(mockAPI)
		creds := new(mockCredentials)
		api.On("PostForm", ctx, "/login/access-token", mock.Anything, mock.Anything).Return(nil)

		err := NewAuthService(api, creds).Login(ctx, "a@b.com", "pw")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnavailable))
	})

	t.Run("empty input fails locally", func(t *testing.T) {
		api := new(mockAPI)
		err := NewAuthService(api, new(mockCredentials)).Login(ctx, "", "pw")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
		api.AssertNotCalled(t, "PostForm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	reg := model.Registration{Email: "a@b.com", Password: "pw", FullName: "Ada"}

	api := new(mockAPI)
	creds := new(mockCredentials)
	api.On("Public", ctx, "POST", "/users/", reg, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(4).(*model.UserProfile) = model.UserProfile{ID: 1, Email: "a@b.com", FullName: "Ada"}
		}).
		Return(nil)
	api.On("PostForm", ctx, "/login/access-token", loginForm("a@b.com", "pw"), mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*model.AccessToken) = model.AccessToken{AccessToken: "tok"}
		}).
		Return(nil)
	creds.On("Set", ctx, "tok").Return(nil)

	profile, err := NewAuthService(api, creds).Register(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	api.AssertExpectations(t)
	creds.AssertExpectations(t)
}

func TestAuthService_RegisterValidates(t *testing.T) {
	api := new(mockAPI)
	_, err := NewAuthService(api, new(mockCredentials)).Register(context.Background(), model.Registration{})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	api.AssertNotCalled(t, "Public", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_LogoutAndAuthenticated(t *testing.T) {
	ctx := context.Background()
	creds := new(mockCredentials)
	creds.On("Get").Return("tok", true).Once()
	creds.On("Clear", ctx).Return(nil)
	creds.On("Get").Return("", false)

	auth := NewAuthService(new(mockAPI), creds)
	assert.True(t, auth.Authenticated())
	require.NoError(t, auth.Logout(ctx))
	assert.False(t, auth.Authenticated())
}
