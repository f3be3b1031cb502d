package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/model"
)

type AuthService struct {
	api   PublicAPI
	creds Credentials
}

func NewAuthService(api PublicAPI, creds Credentials) *AuthService {
	return &AuthService{api: api, creds: creds}
}

// Register creates an account and logs in with the same credentials.
func (s *AuthService) Register(ctx context.Context, reg model.Registration) (*model.UserProfile, error) {
	if err := model.ViolationError(model.ValidateRegistration(reg)); err != nil {
		return nil, err
	}

	var profile model.UserProfile
	if err := s.api.Public(ctx, http.MethodPost, "/users/", reg, &profile); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", profile.ID).Msg("account registered")

	if err := s.Login(ctx, reg.Email, reg.Password); err != nil {
		return &profile, err
	}
	return &profile, nil
}

// Login exchanges a username and password for a bearer credential and
// stores it in the session.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return apperrors.MissingRequired("username")
	}
	if password == "" {
		return apperrors.MissingRequired("password")
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token model.AccessToken
	if err := s.api.PostForm(ctx, "/login/access-token", form, &token); err != nil {
		return err
	}
	if token.AccessToken == "" {
		return apperrors.Unavailable("Malformed response from server", nil)
	}

	if err := s.creds.Set(ctx, token.AccessToken); err != nil {
		return err
	}

	log.Info().Msg("logged in")
	return nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.creds.Clear(ctx)
}

func (s *AuthService) Authenticated() bool {
	_, ok := s.creds.Get()
	return ok
}
