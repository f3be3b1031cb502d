package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/timecapsule/capsule/internal/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
	Create(ctx context.Context, reg model.Registration, passwordHash string) (*model.User, error)
	Update(ctx context.Context, id int64, update model.ProfileUpdate) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SaveToken(ctx context.Context, tokenHash string, userID int64) error
}

type memoryUserRepo struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]model.User
	tokens map[string]int64
}

// NewMemoryUserRepository returns the stub backend's account store.
// Emails are matched case-insensitively.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepo{
		nextID: 1,
		users:  make(map[int64]model.User),
		tokens: make(map[string]int64),
	}
}

func (r *memoryUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(id), nil
}

func (r *memoryUserRepo) find(id int64) *model.User {
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	user.WritingSamples = append([]string(nil), user.WritingSamples...)
	user.VoiceSamples = append([]string(nil), user.VoiceSamples...)
	return &user
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return r.find(id), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByTokenHash(_ context.Context, tokenHash string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.tokens[tokenHash]
	if !ok {
		return nil, nil
	}
	return r.find(id), nil
}

func (r *memoryUserRepo) Create(_ context.Context, reg model.Registration, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := model.User{
		UserProfile: model.UserProfile{
			ID:              r.nextID,
			Email:           reg.Email,
			FullName:        reg.FullName,
			IsActive:        true,
			PersonalityData: reg.PersonalityData,
		},
		PasswordHash: passwordHash,
	}
	r.users[user.ID] = user
	r.nextID++
	return r.find(user.ID), nil
}

func (r *memoryUserRepo) Update(_ context.Context, id int64, update model.ProfileUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user.Email = update.Email
	user.FullName = update.FullName
	user.PersonalityData = update.PersonalityData
	r.users[id] = user
	return r.find(id), nil
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		user.PasswordHash = passwordHash
		r.users[id] = user
	}
	return nil
}

func (r *memoryUserRepo) SaveToken(_ context.Context, tokenHash string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenHash] = userID
	return nil
}
