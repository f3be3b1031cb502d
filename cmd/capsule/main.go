package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describeError(err))
		os.Exit(exitCode(err))
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// describeError renders err for the terminal. AppErrors show their message
// only; the cause is left to the debug log.
func describeError(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return err.Error()
	}
	if appErr.Code == apperrors.ErrCodeUnauthenticated {
		return appErr.Message + " (run `capsule login`)"
	}
	return appErr.Message
}

func exitCode(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return 2
	case apperrors.ErrCodeUnauthenticated:
		return 3
	case apperrors.ErrCodeNotFound:
		return 4
	case apperrors.ErrCodeUnavailable:
		return 5
	default:
		return 1
	}
}
