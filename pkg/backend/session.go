package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

func (client *client) sessionURL() *url.URL {
	u, err := url.Parse(client.baseURL + "/")
	if err != nil {
		return nil
	}

	return u
}

func (client *client) cookie(name string) string {
	u := client.sessionURL()
	if u == nil {
		return ""
	}

	for _, cookie := range client.httpClient.Jar.Cookies(u) {
		if cookie.Name == name {
			return cookie.Value
		}
	}

	return ""
}

func (client *client) currentSession() Session {
	return Session{
		AccessToken:  client.cookie(AccessTokenCookie),
		RefreshToken: client.cookie(RefreshTokenCookie),
	}
}

func (client *client) setSession(session Session) {
	u := client.sessionURL()
	if u == nil {
		return
	}

	cookies := make([]*http.Cookie, 0, 2) //nolint:mnd //access and refresh
	for name, value := range map[string]string{
		AccessTokenCookie:  session.AccessToken,
		RefreshTokenCookie: session.RefreshToken,
	} {
		//nolint:exhaustruct //other fields are optional
		cookie := &http.Cookie{
			Name:  name,
			Value: value,
			Path:  "/",
		}
		if value == "" {
			cookie.MaxAge = -1
		}

		cookies = append(cookies, cookie)
	}

	client.httpClient.Jar.SetCookies(u, cookies)
}

// seedSession restores a mirrored session into the cookie jar on first use.
func (client *client) seedSession(ctx context.Context) {
	if client.tokens == nil {
		return
	}

	client.seedOnce.Do(func() {
		stored, err := client.tokens.Load(ctx)
		if err != nil {
			client.logger.Warn("failed to load stored session", logging.ErrAttr(err))
			return
		}

		client.sessionMu.Lock()
		defer client.sessionMu.Unlock()

		if stored.IsZero() || !client.currentSession().IsZero() {
			return
		}

		client.setSession(stored)
		client.lastSession = stored
	})
}

// mirrorSession copies the session cookies into the token store when they
// changed since the last mirror. The jar must be read under sessionMu.
func (client *client) mirrorSession(ctx context.Context) {
	if client.tokens == nil {
		return
	}

	client.sessionMu.Lock()
	defer client.sessionMu.Unlock()

	current := client.currentSession()
	if current == client.lastSession {
		return
	}
	client.lastSession = current

	var err error
	if current.IsZero() {
		err = client.tokens.Clear(ctx)
	} else {
		err = client.tokens.Save(ctx, current)
	}

	if err != nil {
		client.logger.Warn("failed to mirror session", logging.ErrAttr(err))
	}
}

func (client *client) clearSession(ctx context.Context) {
	//nolint:exhaustruct //zero session
	client.setSession(Session{})
	client.mirrorSession(ctx)
	client.clearCache(ctx)
}

func (client *client) expireSession(ctx context.Context) {
	client.clearSession(ctx)

	if client.onSessionExpired != nil {
		client.onSessionExpired()
	}
}

// refreshSession calls the refresh endpoint directly, outside of the retry
// path, so it can never recurse.
func (client *client) refreshSession(ctx context.Context) error {
	path := AuthEndpoint + "/refresh"

	u, err := client.buildURL(path, nil)
	if err != nil {
		return err
	}

	//nolint:exhaustruct //no body
	req := &request{
		method: http.MethodPost,
		path:   path,
		url:    u,
		id:     uuid.NewString(),
	}

	status, body, err := client.roundTrip(ctx, req)
	if err != nil {
		return err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return &APIError{
			Method: req.method,
			Path:   path,
			Status: status,
			Detail: detailFromBody(body),
		}
	}

	client.logger.Debug("session refreshed")
	return nil
}
