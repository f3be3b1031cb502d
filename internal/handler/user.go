package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/middleware"
	"github.com/timecapsule/capsule/internal/model"
	"github.com/timecapsule/capsule/internal/repository"
	"github.com/timecapsule/capsule/internal/util"
)

type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Me)
	r.Put("/", h.UpdateMe)
	r.Put("/password", h.ChangePassword)

	return r
}

// POST /api/v1/users/
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if !decodeJSON(w, r, &reg) {
		return
	}
	if violations := model.ValidateRegistration(reg); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	ctx := r.Context()
	existing, err := h.userRepo.FindByEmail(ctx, reg.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up user")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to register user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest,
			"The user with this email already exists in the system")
		return
	}

	hash, err := util.HashPassword(reg.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to register user")
		return
	}

	user, err := h.userRepo.Create(ctx, reg, hash)
	if err != nil {
		log.Error().Err(err).Msg("failed to create user")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to register user")
		return
	}

	log.Info().Int64("user_id", user.ID).Msg("user registered")
	writeJSON(w, http.StatusOK, user.UserProfile)
}

// GET /api/v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetUser(r.Context()).UserProfile)
}

// PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var update model.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	if violations := model.ValidateProfile(update); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	ctx := r.Context()
	if existing, err := h.userRepo.FindByEmail(ctx, update.Email); err == nil && existing != nil && existing.ID != user.ID {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "Email already registered")
		return
	}

	updated, err := h.userRepo.Update(ctx, user.ID, update)
	if err != nil || updated == nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to update user")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, updated.UserProfile)
}

// PUT /api/v1/users/me/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var change model.PasswordChange
	if !decodeJSON(w, r, &change) {
		return
	}
	if change.NewPassword == "" {
		writeViolations(w, []model.Violation{{Field: "new_password", Reason: "is required"}})
		return
	}

	// A wrong current password is a 400 so clients keep their session.
	if !util.CheckPasswordHash(change.CurrentPassword, user.PasswordHash) {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "Incorrect password")
		return
	}

	hash, err := util.HashPassword(change.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to change password")
		return
	}

	if err := h.userRepo.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to update password")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to change password")
		return
	}

	log.Info().Int64("user_id", user.ID).Msg("password changed")
	w.WriteHeader(http.StatusNoContent)
}
