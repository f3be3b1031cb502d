package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/timecapsule/capsule/internal/redis"
)

// CredentialRepository is the durable key-value store behind the session.
// Find returns nil without error when the key is absent.
type CredentialRepository interface {
	Find(ctx context.Context, name string) (*string, error)
	Save(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}

type sqlCredentialRepo struct {
	db *sqlx.DB
}

// NewSQLCredentialRepository stores entries in the client_state table.
// Queries are written with ? placeholders and rebound for the driver.
func NewSQLCredentialRepository(db *sqlx.DB) CredentialRepository {
	return &sqlCredentialRepo{db: db}
}

func (r *sqlCredentialRepo) Find(ctx context.Context, name string) (*string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, r.db.Rebind(`SELECT value FROM client_state WHERE name = ?`), name)
	return HandleNotFound(&value, err)
}

func (r *sqlCredentialRepo) Save(ctx context.Context, name, value string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO client_state (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), name, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (r *sqlCredentialRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM client_state WHERE name = ?`), name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

type redisCredentialRepo struct {
	client *goredis.Client
}

func NewRedisCredentialRepository(client *goredis.Client) CredentialRepository {
	return &redisCredentialRepo{client: client}
}

func (r *redisCredentialRepo) Find(ctx context.Context, name string) (*string, error) {
	value, err := r.client.Get(ctx, redis.StateKey(name)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	return &value, nil
}

func (r *redisCredentialRepo) Save(ctx context.Context, name, value string) error {
	if err := r.client.Set(ctx, redis.StateKey(name), value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

func (r *redisCredentialRepo) Delete(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, redis.StateKey(name)).Err(); err != nil {
		return fmt.Errorf("del %s: %w", name, err)
	}
	return nil
}

type memoryCredentialRepo struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCredentialRepository keeps entries for the life of the process.
func NewMemoryCredentialRepository() CredentialRepository {
	return &memoryCredentialRepo{entries: make(map[string]string)}
}

func (r *memoryCredentialRepo) Find(_ context.Context, name string) (*string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.entries[name]
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (r *memoryCredentialRepo) Save(_ context.Context, name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = value
	return nil
}

func (r *memoryCredentialRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
	return nil
}
