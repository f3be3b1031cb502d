package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/model"
	"github.com/timecapsule/capsule/internal/repository"
	"github.com/timecapsule/capsule/internal/util"
)

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserContextKey).(*model.User); ok {
		return user
	}
	return nil
}

// WithUser returns ctx carrying user, as the auth middleware does.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

type AuthMiddleware struct {
	userRepo repository.UserRepository
}

func NewAuthMiddleware(userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{userRepo: userRepo}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, apperrors.ErrCodeUnauthenticated, "Not authenticated")
			return
		}

		user, err := m.userRepo.FindByTokenHash(r.Context(), util.HashToken(token))
		if err != nil {
			log.Error().Err(err).Msg("auth middleware: user lookup failed")
			writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Authentication failed")
			return
		}

		if user == nil {
			log.Warn().Str("token", util.MaskToken(token)).Msg("auth middleware: invalid token attempt")
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, apperrors.ErrCodeUnauthenticated, "Could not validate credentials")
			return
		}

		if !user.IsActive {
			writeError(w, http.StatusForbidden, apperrors.ErrCodeUnauthenticated, "Inactive user")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
