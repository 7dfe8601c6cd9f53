package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"books.xdoubleu.com/cmd/booktracker/internal/services"
	"books.xdoubleu.com/internal/cache"
	"books.xdoubleu.com/internal/config"
	"books.xdoubleu.com/internal/session"
	"books.xdoubleu.com/pkg/backend"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const redisPingTimeout = 5 * time.Second

type Application struct {
	logger   *slog.Logger
	config   config.Config
	services *services.Services
	out      *printer
	errOut   *printer
	closers  []func() error
}

func NewApplication(
	logger *slog.Logger,
	cfg config.Config,
	out io.Writer,
	errOut io.Writer,
) (*Application, error) {
	//nolint:exhaustruct //other fields are optional
	app := &Application{
		logger: logger,
		config: cfg,
		out:    newPrinter(out),
		errOut: newPrinter(errOut),
	}

	opts := []backend.Option{
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithSessionExpiredHook(app.sessionExpired),
	}

	storeOpts, err := app.stores()
	if err != nil {
		return nil, err
	}
	opts = append(opts, storeOpts...)

	if cfg.RateLimit > 0 {
		opts = append(opts, backend.WithRateLimiter(
			rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1)),
		))
	}

	client := backend.New(logger, cfg.BackendURL, opts...)
	app.services = services.New(logger, client)

	return app, nil
}

// stores picks where the session and the response cache live: redis when
// configured, otherwise a session file and an in-process cache.
func (app *Application) stores() ([]backend.Option, error) {
	if app.config.RedisAddr != "" {
		//nolint:exhaustruct //other fields are optional
		rdb := redis.NewClient(&redis.Options{
			Addr:     app.config.RedisAddr,
			Password: app.config.RedisPassword,
			DB:       app.config.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, err
		}

		app.closers = append(app.closers, rdb.Close)
		app.logger.Debug("using redis for session and cache")

		return []backend.Option{
			backend.WithTokenStore(session.NewRedis(rdb, "", app.config.SessionTTL)),
			backend.WithCache(cache.NewRedis(rdb, "", app.config.CacheTTL)),
		}, nil
	}

	opts := []backend.Option{}

	path := app.config.SessionFile
	if path == "" {
		var err error
		path, err = session.DefaultFilePath()
		if err != nil {
			app.logger.Warn("no config directory, session is kept in memory")
		}
	}

	if path != "" {
		opts = append(opts, backend.WithTokenStore(session.NewFile(path)))
	} else {
		opts = append(opts, backend.WithTokenStore(session.NewMemory()))
	}

	if app.config.CacheTTL > 0 {
		opts = append(opts, backend.WithCache(cache.NewMemory(app.config.CacheTTL)))
	}

	return opts, nil
}

func (app *Application) sessionExpired() {
	app.errOut.Failure(sessionExpiredMessage)
}

func (app *Application) Close() error {
	var err error
	for _, closer := range app.closers {
		if errIn := closer(); errIn != nil {
			err = errIn
		}
	}

	return err
}
