//nolint:mnd //no magic number
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/config"
	"github.com/xhit/go-str2duration/v2"
)

type Config struct {
	Env            string
	BackendURL     string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	RateLimit      float64
	RateBurst      int
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionTTL     time.Duration
	SessionFile    string
	SentryDsn      string
	SampleRate     float64
	Release        string
}

func New(logger *slog.Logger) Config {
	var cfg Config

	parser := config.New(logger)

	cfg.Env = parser.EnvStr("ENV", config.ProdEnv)
	cfg.BackendURL = parser.EnvStr("BACKEND_URL", "")
	cfg.RequestTimeout = parseDuration(logger, parser.EnvStr("REQUEST_TIMEOUT", "30s"))
	cfg.CacheTTL = parseDuration(logger, parser.EnvStr("CACHE_TTL", "5m"))
	cfg.RateLimit = parser.EnvFloat("RATE_LIMIT", 0)
	cfg.RateBurst = parser.EnvInt("RATE_BURST", 5)
	cfg.RedisAddr = parser.EnvStr("REDIS_ADDR", "")
	cfg.RedisPassword = parser.EnvStr("REDIS_PASSWORD", "")
	cfg.RedisDB = parser.EnvInt("REDIS_DB", 0)
	cfg.SessionTTL = parseDuration(logger, parser.EnvStr("SESSION_TTL", "7d"))
	cfg.SessionFile = parser.EnvStr("SESSION_FILE", "")
	cfg.SentryDsn = parser.EnvStr("SENTRY_DSN", "")
	cfg.SampleRate = parser.EnvFloat("SAMPLE_RATE", 1.0)
	cfg.Release = parser.EnvStr("RELEASE", config.DevEnv)

	return cfg
}

// parseDuration accepts the day and week units the backend uses for its
// token expiries, an invalid value disables the setting.
func parseDuration(logger *slog.Logger, value string) time.Duration {
	duration, err := str2duration.ParseDuration(value)
	if err != nil {
		logger.Warn(fmt.Sprintf("invalid duration %q, using 0", value))
		return 0
	}

	return duration
}
