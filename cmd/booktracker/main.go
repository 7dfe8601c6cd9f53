package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"books.xdoubleu.com/internal/config"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"github.com/xdoubleu/essentia/v2/pkg/sentrytools"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// a missing .env is fine, the environment is used as is
	_ = godotenv.Load()

	cfg := config.New(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	logger := slog.New(sentrytools.NewLogHandler(cfg.Env,
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if len(cfg.SentryDsn) > 0 {
		//nolint:exhaustruct //other fields are optional
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDsn,
			Environment:      cfg.Env,
			Release:          cfg.Release,
			EnableTracing:    true,
			TracesSampleRate: cfg.SampleRate,
			SampleRate:       cfg.SampleRate,
		})
		if err != nil {
			logger.Error("failed to init sentry", logging.ErrAttr(err))
		}
		defer sentry.Flush(sentryFlushTimeout)
	}

	app, err := NewApplication(logger, cfg, os.Stdout, os.Stderr)
	if err != nil {
		logger.Error("failed to start", logging.ErrAttr(err))
		return 1
	}
	defer func() {
		if errIn := app.Close(); errIn != nil {
			logger.Warn("failed to close", logging.ErrAttr(errIn))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err = app.Commands().ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			app.errOut.Failure(err.Error())
		}
		return 1
	}

	return 0
}
