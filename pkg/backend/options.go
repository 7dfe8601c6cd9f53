package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const DefaultTimeout = 30 * time.Second

type RequestOptions struct {
	// NoCache skips the response cache for reads (no-store). Without it a
	// cached payload is served as is (force-cache).
	NoCache bool
	Query   url.Values
	Header  http.Header

	noRefresh bool
}

// Cache keeps raw response bodies of reads keyed by URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// Session holds the cookies that make up a signed in session. The refresh
// token is what lets a later process renew an expired access token.
type Session struct {
	AccessToken  string
	RefreshToken string
}

func (session Session) IsZero() bool {
	return session.AccessToken == "" && session.RefreshToken == ""
}

// TokenStore mirrors the session cookies into client-side storage.
// Load returns a zero Session when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, session Session) error
	Clear(ctx context.Context) error
}

type Option func(*client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.timeout = timeout
	}
}

func WithCache(cache Cache) Option {
	return func(c *client) {
		c.cache = cache
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(c *client) {
		c.tokens = store
	}
}

func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *client) {
		c.limiter = limiter
	}
}

// WithSessionExpiredHook registers the callback run once per failed refresh.
func WithSessionExpiredHook(hook func()) Option {
	return func(c *client) {
		c.onSessionExpired = hook
	}
}
