package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/timecapsule/capsule/internal/config"
	"github.com/timecapsule/capsule/internal/handler"
	"github.com/timecapsule/capsule/internal/jobs"
	"github.com/timecapsule/capsule/internal/repository"
)

func stubCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run an in-memory messages API for local development",
		Long: "Run an in-memory implementation of the messages API. Data is lost on exit.\n" +
			"Point the client at it with CAPSULE_API_URL=http://localhost:<port>" + handler.APIPrefix + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return runStub(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (default: $PORT or 8001)")
	return cmd
}

func runStub(ctx context.Context, cfg *config.Config) error {
	if cfg.DeliveryIntervalSeconds <= 0 {
		return fmt.Errorf("CAPSULE_DELIVERY_INTERVAL_SECONDS must be positive")
	}

	userRepo := repository.NewMemoryUserRepository()
	messageRepo := repository.NewMemoryMessageRepository()

	deliveryJob := jobs.NewDeliveryJob(messageRepo, cfg.DeliveryInterval())
	deliveryJob.Start()
	defer deliveryJob.Stop()

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: handler.NewRouter(handler.Deps{
			UserRepo:    userRepo,
			MessageRepo: messageRepo,
		}),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("prefix", handler.APIPrefix).Msg("starting stub server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("stub server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down stub server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("stub server forced to shutdown")
	}

	log.Info().Msg("stub server stopped")
	return nil
}
