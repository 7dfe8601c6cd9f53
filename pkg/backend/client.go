package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"golang.org/x/time/rate"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	RequestIDHeader    = "X-Request-ID"
	FormContentType    = "application/x-www-form-urlencoded"
	JSONContentType    = "application/json"
)

type client struct {
	logger           *slog.Logger
	baseURL          string
	httpClient       *http.Client
	timeout          time.Duration
	cache            Cache
	tokens           TokenStore
	limiter          *rate.Limiter
	onSessionExpired func()
	refresher        *refresher

	seedOnce    sync.Once
	sessionMu   sync.Mutex
	lastSession Session
}

type request struct {
	method      string
	path        string
	url         string
	payload     []byte
	contentType string
	header      http.Header
	id          string
	noRefresh   bool
}

// New creates a client for the backend at baseURL. An empty baseURL is not
// rejected here, every call reports ErrMissingBaseURL instead.
func New(logger *slog.Logger, baseURL string, opts ...Option) Client {
	//nolint:exhaustruct //other fields are optional
	c := &client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	var httpClient http.Client
	if c.httpClient != nil {
		httpClient = *c.httpClient
	} else {
		httpClient.Timeout = c.timeout
	}

	if httpClient.Jar == nil {
		// cookiejar.New never fails without options
		jar, _ := cookiejar.New(nil)
		httpClient.Jar = jar
	}

	c.httpClient = &httpClient
	c.refresher = newRefresher(logger, c.timeout, c.refreshSession, c.expireSession)

	return c
}

func (client *client) Get(
	ctx context.Context,
	path string,
	opts RequestOptions,
	dst any,
) error {
	env, err := client.sendRequest(ctx, http.MethodGet, path, nil, opts)
	if err != nil {
		return err
	}

	if err = env.decode(dst); err != nil {
		client.logger.Warn(fmt.Sprintf("failed to decode %s", path), logging.ErrAttr(err))
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return nil
}

func (client *client) Post(
	ctx context.Context,
	path string,
	body any,
	opts RequestOptions,
	dst any,
) error {
	env, err := client.sendRequest(ctx, http.MethodPost, path, body, opts)
	if err != nil {
		return err
	}

	return env.decode(dst)
}

func (client *client) Put(
	ctx context.Context,
	path string,
	body any,
	opts RequestOptions,
	dst any,
) error {
	env, err := client.sendRequest(ctx, http.MethodPut, path, body, opts)
	if err != nil {
		return err
	}

	return env.decode(dst)
}

func (client *client) Delete(
	ctx context.Context,
	path string,
	opts RequestOptions,
	dst any,
) error {
	env, err := client.sendRequest(ctx, http.MethodDelete, path, nil, opts)
	if err != nil {
		return err
	}

	return env.decode(dst)
}

func (client *client) sendRequest(
	ctx context.Context,
	method string,
	path string,
	body any,
	opts RequestOptions,
) (*envelope, error) {
	if client.baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	u, err := client.buildURL(path, opts.Query)
	if err != nil {
		return nil, err
	}

	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	client.seedSession(ctx)

	req := &request{
		method:      method,
		path:        path,
		url:         u,
		payload:     payload,
		contentType: contentType,
		header:      opts.Header,
		id:          uuid.NewString(),
		noRefresh:   opts.noRefresh,
	}

	useCache := method == http.MethodGet && !opts.NoCache && client.cache != nil
	if useCache {
		if env, ok := client.fromCache(ctx, u); ok {
			return env, nil
		}
	}

	raw, err := client.do(ctx, req)
	if err != nil {
		return nil, client.failure(req, err)
	}

	env, err := parseEnvelope(raw)
	if err != nil {
		return nil, client.failure(req, err)
	}

	if useCache && len(raw) > 0 {
		client.toCache(ctx, u, raw)
	}

	return env, nil
}

// do performs the request and retries it once after a successful refresh.
func (client *client) do(ctx context.Context, req *request) ([]byte, error) {
	retried := false

	for {
		epoch := client.refresher.Epoch()

		status, body, err := client.roundTrip(ctx, req)
		if err != nil {
			return nil, err
		}

		switch {
		case status >= http.StatusOK && status < http.StatusMultipleChoices:
			if status == http.StatusNoContent {
				return nil, nil
			}
			return body, nil
		case status == http.StatusUnauthorized && !retried && !req.noRefresh:
			if err = client.refresher.Refresh(ctx, epoch); err != nil {
				return nil, err
			}

			retried = true
			client.logger.Debug(
				fmt.Sprintf("retrying %s %s after refresh", req.method, req.path),
				slog.String("request_id", req.id),
			)
		default:
			return nil, &APIError{
				Method: req.method,
				Path:   req.path,
				Status: status,
				Detail: detailFromBody(body),
			}
		}
	}
}

func (client *client) roundTrip(ctx context.Context, req *request) (int, []byte, error) {
	if client.limiter != nil {
		if err := client.limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}
	}

	var reader io.Reader
	if req.payload != nil {
		reader = bytes.NewReader(req.payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, reader)
	if err != nil {
		return 0, nil, err
	}

	for key, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if req.contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", JSONContentType)
	httpReq.Header.Set(RequestIDHeader, req.id)

	res, err := client.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}

	client.mirrorSession(ctx)

	return res.StatusCode, body, nil
}

// failure classifies an error: reads degrade to ErrUnavailable, writes keep
// the original error so callers can show it.
func (client *client) failure(req *request, err error) error {
	if errors.Is(err, ErrSessionExpired) {
		return err
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		client.logger.Warn(
			fmt.Sprintf("API error %d on %s %s", apiErr.Status, req.method, req.path),
			slog.String("request_id", req.id),
		)
	} else {
		client.logger.Error(
			fmt.Sprintf("failed to %s %s", req.method, req.path),
			logging.ErrAttr(err),
			slog.String("request_id", req.id),
		)
	}

	if req.method == http.MethodGet {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return err
}

func (client *client) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u, err := url.Parse(client.baseURL + path)
	if err != nil {
		return "", err
	}

	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case url.Values:
		return []byte(b.Encode()), FormContentType, nil
	case []byte:
		return b, JSONContentType, nil
	default:
		marshalled, err := json.Marshal(body)
		if err != nil {
			return nil, "", err
		}
		return marshalled, JSONContentType, nil
	}
}

func (client *client) fromCache(ctx context.Context, key string) (*envelope, bool) {
	raw, ok, err := client.cache.Get(ctx, key)
	if err != nil {
		client.logger.Warn("failed to read response cache", logging.ErrAttr(err))
		return nil, false
	}

	if !ok {
		return nil, false
	}

	env, err := parseEnvelope(raw)
	if err != nil {
		return nil, false
	}

	client.logger.Debug(fmt.Sprintf("cache hit for %s", key))
	return env, true
}

func (client *client) toCache(ctx context.Context, key string, raw []byte) {
	if err := client.cache.Set(ctx, key, raw); err != nil {
		client.logger.Warn("failed to write response cache", logging.ErrAttr(err))
	}
}

func (client *client) clearCache(ctx context.Context) {
	if client.cache == nil {
		return
	}

	if err := client.cache.Clear(ctx); err != nil {
		client.logger.Warn("failed to clear response cache", logging.ErrAttr(err))
	}
}
