//nolint:exhaustruct,mnd //ignore
package mocks

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"books.xdoubleu.com/pkg/backend"
	"github.com/google/uuid"
	"github.com/justinas/alice"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
)

const (
	TestEmail    = "test@example.com"
	TestPassword = "password"
	TestName     = "Reader"
	TestUserID   = int64(1)

	RefreshTokenCookie = backend.RefreshTokenCookie

	holdTimeout = 5 * time.Second
)

// BackendServer is an in-memory stand-in for the book tracking backend.
// It speaks the same envelope and cookie session as the real service and
// exposes knobs to make sessions expire or refreshes fail.
type BackendServer struct {
	*httptest.Server

	mux *http.ServeMux

	mu             sync.Mutex
	accessToken    string
	refreshToken   string
	refreshFails   bool
	refreshDelay   time.Duration
	calls          map[string]int
	requestIDs     map[string][]string
	holdTotal      int
	holdArrived    int
	holdRelease    chan struct{}
	recommendation string

	users     map[int64]*user
	books     []backend.Book
	userBooks []backend.UserBook
	reviews   []backend.Review
	nextID    int64
}

type user struct {
	backend.User
	password string
}

func NewBackendServer() *BackendServer {
	server := &BackendServer{
		mux:        http.NewServeMux(),
		calls:      map[string]int{},
		requestIDs: map[string][]string{},
		users:      map[int64]*user{},
		nextID:     100,
		recommendation: "1. **Dune** by Frank Herbert: a classic you keep coming back to\n" +
			"2. \"The Left Hand of Darkness\" by Ursula K. Le Guin - thoughtful worldbuilding",
	}

	server.users[TestUserID] = &user{
		User: backend.User{
			ID:    TestUserID,
			Name:  TestName,
			Email: TestEmail,
		},
		password: TestPassword,
	}

	for i, seed := range [][2]string{
		{"Dune", "Frank Herbert"},
		{"The Hobbit", "J.R.R. Tolkien"},
		{"Foundation", "Isaac Asimov"},
	} {
		id := int64(i + 1)
		server.books = append(server.books, backend.Book{
			ID:     &id,
			Title:  seed[0],
			Author: seed[1],
			Genres: []string{"fiction"},
		})
	}

	server.routes()

	server.Server = httptest.NewServer(
		alice.New(server.recordRequestID).Then(server.mux),
	)

	return server
}

// Handle registers an extra unauthenticated route, counted like the others.
func (server *BackendServer) Handle(pattern string, handler http.HandlerFunc) {
	server.mux.Handle(pattern, alice.New(server.counted(pattern)).Then(handler))
}

// ExpireSession invalidates the current access token. The refresh token
// stays valid so the next refresh succeeds.
func (server *BackendServer) ExpireSession() {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.accessToken = uuid.NewString()
}

func (server *BackendServer) SetRefreshFails(fails bool) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.refreshFails = fails
}

func (server *BackendServer) SetRefreshDelay(delay time.Duration) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.refreshDelay = delay
}

func (server *BackendServer) SetRecommendation(text string) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.recommendation = text
}

// HoldUnauthorized makes the next n rejected requests wait for each other
// before their 401 is written, so all of them are in flight together.
func (server *BackendServer) HoldUnauthorized(n int) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.holdTotal = n
	server.holdArrived = 0
	server.holdRelease = make(chan struct{})
}

// Calls returns how often a route pattern, like "GET /users/me", was hit.
func (server *BackendServer) Calls(pattern string) int {
	server.mu.Lock()
	defer server.mu.Unlock()

	return server.calls[pattern]
}

func (server *BackendServer) RefreshCalls() int {
	return server.Calls("POST /auth/refresh")
}

// RequestIDs returns the X-Request-ID values seen for a path, in order.
func (server *BackendServer) RequestIDs(path string) []string {
	server.mu.Lock()
	defer server.mu.Unlock()

	return append([]string{}, server.requestIDs[path]...)
}

func (server *BackendServer) AccessToken() string {
	server.mu.Lock()
	defer server.mu.Unlock()

	return server.accessToken
}

func (server *BackendServer) RefreshToken() string {
	server.mu.Lock()
	defer server.mu.Unlock()

	return server.refreshToken
}

func (server *BackendServer) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.mu.Lock()
		server.requestIDs[r.URL.Path] = append(
			server.requestIDs[r.URL.Path],
			r.Header.Get(backend.RequestIDHeader),
		)
		server.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (server *BackendServer) counted(pattern string) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			server.mu.Lock()
			server.calls[pattern]++
			server.mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

func (server *BackendServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(backend.AccessTokenCookie); err == nil {
			token = cookie.Value
		}
		if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			token = bearer
		}

		server.mu.Lock()
		valid := token != "" && token == server.accessToken
		var release chan struct{}
		if !valid && server.holdTotal > 0 {
			release = server.holdRelease
			server.holdArrived++
			if server.holdArrived == server.holdTotal {
				server.holdTotal = 0
				close(release)
			}
		}
		server.mu.Unlock()

		if valid {
			next.ServeHTTP(w, r)
			return
		}

		if release != nil {
			select {
			case <-release:
			case <-time.After(holdTimeout):
			}
		}

		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
	})
}

func (server *BackendServer) route(pattern string, handler http.HandlerFunc) {
	server.mux.Handle(
		pattern,
		alice.New(server.counted(pattern)).ThenFunc(handler),
	)
}

func (server *BackendServer) authedRoute(pattern string, handler http.HandlerFunc) {
	server.mux.Handle(
		pattern,
		alice.New(server.counted(pattern), server.requireSession).ThenFunc(handler),
	)
}

func (server *BackendServer) id() int64 {
	server.nextID++
	return server.nextID
}

func (server *BackendServer) issueTokens(w http.ResponseWriter) string {
	server.accessToken = uuid.NewString()
	server.refreshToken = uuid.NewString()

	setCookie(w, backend.AccessTokenCookie, server.accessToken)
	setCookie(w, RefreshTokenCookie, server.refreshToken)

	return server.accessToken
}

func setCookie(w http.ResponseWriter, name string, value string) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
	}

	if value == "" {
		cookie.MaxAge = -1
	}

	http.SetCookie(w, cookie)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{
		"data":    data,
		"status":  "success",
		"message": http.StatusText(status),
	})
}

func writePage(w http.ResponseWriter, data any, pagination backend.Pagination) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data":       data,
		"status":     "success",
		"message":    "OK",
		"pagination": pagination,
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if err := httptools.WriteJSON(w, status, body, nil); err != nil {
		panic(fmt.Sprintf("failed to encode response: %v", err))
	}
}
