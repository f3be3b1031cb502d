package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/timecapsule/capsule/internal/config"
	"github.com/timecapsule/capsule/internal/resource"
	"github.com/timecapsule/capsule/internal/service"
	"github.com/timecapsule/capsule/internal/session"
	"github.com/timecapsule/capsule/internal/util"
)

// app wires one CLI invocation: config, the persisted session and the
// clients built on top of it.
type app struct {
	cfg      *config.Config
	session  *session.Store
	auth     *service.AuthService
	messages *service.MessageService
	profile  *service.ProfileService
	out      *printer

	closeState func() error
}

func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	store, closeState, err := openSession(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	client := resource.NewClient(cfg.APIURL, store,
		resource.WithHTTPClient(resource.NewHTTPClient(cfg.HTTPTimeout())))

	return &app{
		cfg:        cfg,
		session:    store,
		auth:       service.NewAuthService(client, store),
		messages:   service.NewMessageService(client),
		profile:    service.NewProfileService(client),
		out:        opts.printer(cmd.OutOrStdout()),
		closeState: closeState,
	}, nil
}

func openSession(ctx context.Context, cfg *config.Config) (*session.Store, func() error, error) {
	var storeOpts []session.Option
	if cfg.StateKey != "" {
		cipher, err := util.NewCipher(cfg.StateKey)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid CAPSULE_STATE_KEY: %w", err)
		}
		storeOpts = append(storeOpts, session.WithCipher(cipher))
	}

	repo, closeState, err := openCredentialRepository(ctx, cfg.StateLocation())
	if err != nil {
		return nil, nil, err
	}

	store := session.NewStore(repo, storeOpts...)
	if err := store.Load(ctx); err != nil {
		_ = closeState()
		return nil, nil, err
	}
	return store, closeState, nil
}

func (a *app) Close() {
	if err := a.closeState(); err != nil {
		log.Warn().Err(err).Msg("failed to close credential store")
	}
}

// withApp runs fn against a freshly opened app and closes it afterwards.
func withApp(opts *rootOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}
