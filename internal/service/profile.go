package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/timecapsule/capsule/internal/model"
)

type ProfileService struct {
	api API
}

func NewProfileService(api API) *ProfileService {
	return &ProfileService{api: api}
}

func (s *ProfileService) FetchSelf(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := s.api.Do(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateSelf sends the full writable profile.
func (s *ProfileService) UpdateSelf(ctx context.Context, update model.ProfileUpdate) (*model.UserProfile, error) {
	if err := model.ViolationError(model.ValidateProfile(update)); err != nil {
		return nil, err
	}

	var profile model.UserProfile
	if err := s.api.Do(ctx, http.MethodPut, "/users/me", update, &profile); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", profile.ID).Msg("profile updated")
	return &profile, nil
}

// PatchSelf fetches the profile, overlays edit and submits the result.
func (s *ProfileService) PatchSelf(ctx context.Context, edit model.ProfileEdit) (*model.UserProfile, error) {
	current, err := s.FetchSelf(ctx)
	if err != nil {
		return nil, err
	}
	if edit.IsEmpty() {
		return current, nil
	}
	return s.UpdateSelf(ctx, edit.Apply(*current).Update())
}

// ChangePassword checks the confirmation locally before calling the server.
func (s *ProfileService) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if err := model.ViolationError(model.ValidatePasswordChange(current, next, confirm)); err != nil {
		return err
	}

	body := model.PasswordChange{CurrentPassword: current, NewPassword: next}
	if err := s.api.Do(ctx, http.MethodPut, "/users/me/password", body, nil); err != nil {
		return err
	}

	log.Info().Msg("password changed")
	return nil
}
