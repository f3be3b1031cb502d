package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/repository"
	"github.com/timecapsule/capsule/internal/util"
)

// CredentialKey is the persisted key holding the bearer credential.
const CredentialKey = "token"

// Store owns the bearer credential of the process. It reads from and writes
// through to a CredentialRepository; an absent key means logged out.
type Store struct {
	repo   repository.CredentialRepository
	cipher *util.Cipher

	mu    sync.RWMutex
	token string
}

type Option func(*Store)

// WithCipher encrypts the credential at rest.
func WithCipher(c *util.Cipher) Option {
	return func(s *Store) {
		s.cipher = c
	}
}

func NewStore(repo repository.CredentialRepository, opts ...Option) *Store {
	s := &Store{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load initialises the in-memory credential from persisted storage.
// A value that cannot be decrypted is discarded and the store starts
// logged out.
func (s *Store) Load(ctx context.Context) error {
	stored, err := s.repo.Find(ctx, CredentialKey)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to read session", err)
	}

	token := ""
	if stored != nil {
		token = *stored
		if s.cipher != nil {
			token, err = s.cipher.Open(*stored)
			if err != nil {
				log.Warn().Err(err).Msg("discarding stored session that cannot be decrypted")
				if err := s.repo.Delete(ctx, CredentialKey); err != nil {
					return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to clear session", err)
				}
				token = ""
			}
		}
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	log.Debug().Bool("authenticated", token != "").Msg("session loaded")
	return nil
}

// Get returns the current credential and whether one is present.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set persists the credential and then makes it current. On a storage
// failure the previous credential stays in effect.
func (s *Store) Set(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.ValidationFailed("credential must not be empty")
	}

	value := token
	if s.cipher != nil {
		sealed, err := s.cipher.Seal(token)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to encrypt session", err)
		}
		value = sealed
	}

	if err := s.repo.Save(ctx, CredentialKey, value); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to save session", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	log.Debug().Str("token", util.MaskToken(token)).Msg("session stored")
	return nil
}

// Clear drops the credential. The in-memory value is cleared even when
// removing the persisted copy fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, CredentialKey); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to clear session", err)
	}

	log.Debug().Msg("session cleared")
	return nil
}

func (s *Store) String() string {
	token, ok := s.Get()
	if !ok {
		return "session(none)"
	}
	return fmt.Sprintf("session(%s)", util.MaskToken(token))
}
