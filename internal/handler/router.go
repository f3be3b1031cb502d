package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/timecapsule/capsule/internal/config"
	"github.com/timecapsule/capsule/internal/middleware"
	"github.com/timecapsule/capsule/internal/repository"
)

// APIPrefix is the path under which the messages API is served.
const APIPrefix = "/api/v1"

type Deps struct {
	UserRepo    repository.UserRepository
	MessageRepo repository.MessageRepository
}

// NewRouter builds the stub backend for the messages API.
func NewRouter(deps Deps) http.Handler {
	authMiddleware := middleware.NewAuthMiddleware(deps.UserRepo)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	loginLimiter := middleware.NewLoginRateLimiter()
	securityHeaders := middleware.NewSecurityHeadersMiddleware(true)

	userHandler := NewUserHandler(deps.UserRepo)
	loginHandler := NewLoginHandler(deps.UserRepo)
	messageHandler := NewMessageHandler(deps.MessageRepo)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeaders.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route(APIPrefix, func(r chi.Router) {
		r.With(loginLimiter.Handler).Post("/login/access-token", loginHandler.AccessToken)
		r.Post("/users/", userHandler.Register)

		r.Route("/users/me", func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Mount("/", userHandler.Routes())
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Mount("/", messageHandler.Routes())
		})
	})

	return r
}
