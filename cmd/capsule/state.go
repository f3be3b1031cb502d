package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/timecapsule/capsule/internal/config"
	"github.com/timecapsule/capsule/internal/database"
	"github.com/timecapsule/capsule/internal/redis"
	"github.com/timecapsule/capsule/internal/repository"
)

// openCredentialRepository opens the credential store named by stateURL.
// The returned close function releases its connections.
func openCredentialRepository(ctx context.Context, stateURL string) (repository.CredentialRepository, func() error, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StatePingTimeout)
	defer cancel()

	scheme, _, _ := strings.Cut(stateURL, "://")

	switch scheme {
	case "memory":
		log.Debug().Msg("using in-memory credential store")
		return repository.NewMemoryCredentialRepository(), func() error { return nil }, nil

	case "redis", "rediss":
		client, err := redis.NewClient(ctx, stateURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open credential store: %w", err)
		}
		log.Debug().Msg("redis credential store connected")
		return repository.NewRedisCredentialRepository(client.Client), client.Close, nil

	default:
		db, err := database.Connect(ctx, stateURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open credential store: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate credential store: %w", err)
		}
		log.Debug().Str("driver", db.DriverName()).Msg("credential store connected")
		return repository.NewSQLCredentialRepository(db.DB), db.Close, nil
	}
}
