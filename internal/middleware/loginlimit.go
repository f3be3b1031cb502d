package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
)

const (
	loginMaxAttempts    = 5
	loginWindowDuration = time.Minute
	loginCleanupPeriod  = 5 * time.Minute
)

type loginAttempt struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter bounds password attempts per client address within a
// fixed window.
type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	lastCleanup time.Time
	now         func() time.Time
}

func NewLoginRateLimiter() *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts:    make(map[string]*loginAttempt),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *LoginRateLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < loginCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for addr, attempt := range l.attempts {
		if now.Sub(attempt.windowStart) > loginWindowDuration {
			delete(l.attempts, addr)
		}
	}
}

func (l *LoginRateLimiter) isAllowed(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	attempt, exists := l.attempts[addr]
	if !exists || now.Sub(attempt.windowStart) > loginWindowDuration {
		l.attempts[addr] = &loginAttempt{count: 1, windowStart: now}
		return true
	}

	if attempt.count >= loginMaxAttempts {
		return false
	}

	attempt.count++
	return true
}

// clientHost drops the port so every connection from one host shares a
// budget.
func clientHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// Handler expects chi's RealIP middleware to have normalised RemoteAddr.
func (l *LoginRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := clientHost(r.RemoteAddr)
		if !l.isAllowed(host) {
			log.Warn().Str("client", host).Msg("login rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, apperrors.ErrCodeInvalidRequest,
				"Too many login attempts. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
