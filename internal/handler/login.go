package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/model"
	"github.com/timecapsule/capsule/internal/repository"
	"github.com/timecapsule/capsule/internal/util"
)

type LoginHandler struct {
	userRepo repository.UserRepository
}

func NewLoginHandler(userRepo repository.UserRepository) *LoginHandler {
	return &LoginHandler{userRepo: userRepo}
}

// POST /api/v1/login/access-token
func (h *LoginHandler) AccessToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, apperrors.ErrCodeValidation, "Invalid form body")
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		var violations []model.Violation
		if username == "" {
			violations = append(violations, model.Violation{Field: "username", Reason: "field required"})
		}
		if password == "" {
			violations = append(violations, model.Violation{Field: "password", Reason: "field required"})
		}
		writeViolations(w, violations)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.FindByEmail(ctx, username)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up user")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Login failed")
		return
	}
	if user == nil || !util.CheckPasswordHash(password, user.PasswordHash) {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "Incorrect email or password")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "Inactive user")
		return
	}

	token, err := util.GenerateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Login failed")
		return
	}
	if err := h.userRepo.SaveToken(ctx, util.HashToken(token), user.ID); err != nil {
		log.Error().Err(err).Msg("failed to save token")
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Login failed")
		return
	}

	log.Info().Int64("user_id", user.ID).Msg("user logged in")
	writeJSON(w, http.StatusOK, model.AccessToken{AccessToken: token, TokenType: "bearer"})
}
