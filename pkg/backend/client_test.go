package backend_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"books.xdoubleu.com/internal/cache"
	"books.xdoubleu.com/internal/mocks"
	"books.xdoubleu.com/internal/session"
	"books.xdoubleu.com/pkg/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"golang.org/x/time/rate"
)

func TestLoginThenMe(t *testing.T) {
	client, server := setup(t)

	response, err := client.Login(context.Background(), mocks.TestEmail, mocks.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, server.AccessToken(), response.AccessToken)
	assert.Equal(t, mocks.TestEmail, response.User.Email)

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mocks.TestUserID, user.ID)
	assert.Equal(t, mocks.TestName, user.Name)
	assert.Equal(t, 0, server.RefreshCalls())
}

func TestLoginWrongPasswordSkipsRefresh(t *testing.T) {
	client, server := setup(t)

	_, err := client.Login(context.Background(), mocks.TestEmail, "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", err.Error())
	assert.Equal(t, 0, server.RefreshCalls())
}

func TestMissingBaseURL(t *testing.T) {
	client := backend.New(logging.NewNopLogger(), "")

	err := client.Get(context.Background(), "/books", backend.RequestOptions{}, nil)
	assert.ErrorIs(t, err, backend.ErrMissingBaseURL)
	assert.NotErrorIs(t, err, backend.ErrUnavailable)

	err = client.Post(context.Background(), "/books", nil, backend.RequestOptions{}, nil)
	assert.ErrorIs(t, err, backend.ErrMissingBaseURL)

	assert.ErrorIs(t, client.Refresh(context.Background()), backend.ErrMissingBaseURL)
}

func TestReadDegradesToUnavailable(t *testing.T) {
	client, _ := setup(t)

	book, err := client.GetBook(context.Background(), 999)
	assert.Nil(t, book)
	require.ErrorIs(t, err, backend.ErrUnavailable)

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Book not found", apiErr.Detail)
}

func TestMalformedDataIsUnavailable(t *testing.T) {
	client, server := setup(t)
	server.Handle("GET /broken", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", backend.JSONContentType)
		_, _ = w.Write([]byte(`{"data":{"id":"one"},"status":"success"}`))
	})

	var dst struct {
		ID int64 `json:"id"`
	}
	err := client.Get(context.Background(), "/broken", backend.RequestOptions{}, &dst)
	require.ErrorIs(t, err, backend.ErrUnavailable)
	assert.ErrorContains(t, err, `body contains incorrect JSON type for field "id"`)
}

func TestWriteRaisesDetail(t *testing.T) {
	client, _ := setup(t)

	_, err := client.Signup(context.Background(), backend.SignupDto{
		Name:     "Dup",
		Email:    mocks.TestEmail,
		Password: "secret",
	})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", err.Error())
	assert.NotErrorIs(t, err, backend.ErrUnavailable)
}

func TestWriteRaisesValidationDetail(t *testing.T) {
	client, _ := setup(t)
	login(t, client)

	//nolint:exhaustruct //other fields are optional
	_, err := client.CreateBook(context.Background(), backend.CreateBookDto{Author: "Nobody"})
	require.Error(t, err)
	assert.Equal(t, "title and author are required", err.Error())
}

func TestWriteGenericMessage(t *testing.T) {
	client, server := setup(t)
	server.Handle("POST /broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.Post(context.Background(), "/broken", map[string]string{}, backend.RequestOptions{}, nil)
	require.Error(t, err)
	assert.Equal(t, "API error 500", err.Error())

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.MethodPost, apiErr.Method)
	assert.Equal(t, "/broken", apiErr.Path)
}

func TestRefreshThenRetry(t *testing.T) {
	client, server := setup(t)
	login(t, client)

	server.ExpireSession()

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mocks.TestUserID, user.ID)

	assert.Equal(t, 1, server.RefreshCalls())
	assert.Equal(t, 2, server.Calls("GET /users/me"))

	ids := server.RequestIDs("/users/me")
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, ids[0], ids[1])
}

func TestConcurrentUnauthorizedRefreshOnce(t *testing.T) {
	const amount = 5

	client, server := setup(t)
	login(t, client)

	server.ExpireSession()
	server.HoldUnauthorized(amount)

	var wg sync.WaitGroup
	errs := make([]error, amount)
	for i := range amount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.Me(context.Background())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, server.RefreshCalls())
	assert.Equal(t, 2*amount, server.Calls("GET /users/me"))
}

func TestConcurrentWritesRefreshOnce(t *testing.T) {
	client, server := setup(t)
	login(t, client)

	server.ExpireSession()
	server.HoldUnauthorized(2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			bookID := int64(i + 1)
			//nolint:exhaustruct //other fields are optional
			_, errs[i] = client.AddUserBook(context.Background(), backend.CreateUserBookDto{
				BookID: &bookID,
				Status: backend.WantToRead,
			})
		}()
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, 1, server.RefreshCalls())

	books, err := client.MyBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestRefreshFailureExpiresOnce(t *testing.T) {
	const amount = 4

	var expired atomic.Int32
	store := session.NewMemory()

	client, server := setup(
		t,
		backend.WithTokenStore(store),
		backend.WithSessionExpiredHook(func() { expired.Add(1) }),
	)
	login(t, client)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, server.AccessToken(), stored.AccessToken)
	assert.Equal(t, server.RefreshToken(), stored.RefreshToken)

	server.ExpireSession()
	server.SetRefreshFails(true)
	server.HoldUnauthorized(amount)

	var wg sync.WaitGroup
	errs := make([]error, amount)
	for i := range amount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.Me(context.Background())
		}()
	}
	wg.Wait()

	for _, err = range errs {
		assert.ErrorIs(t, err, backend.ErrSessionExpired)
	}
	assert.Equal(t, int32(1), expired.Load())
	assert.Equal(t, 1, server.RefreshCalls())

	stored, err = store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, stored.IsZero())
}

func TestSecondUnauthorizedIsTerminal(t *testing.T) {
	var expired atomic.Int32

	client, server := setup(
		t,
		backend.WithSessionExpiredHook(func() { expired.Add(1) }),
	)
	login(t, client)

	server.Handle("GET /locked", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Get(context.Background(), "/locked", backend.RequestOptions{}, nil)
	require.ErrorIs(t, err, backend.ErrUnauthorized)
	assert.ErrorIs(t, err, backend.ErrUnavailable)
	assert.NotErrorIs(t, err, backend.ErrSessionExpired)

	assert.Equal(t, 1, server.RefreshCalls())
	assert.Equal(t, 2, server.Calls("GET /locked"))
	assert.Equal(t, int32(0), expired.Load())
}

func TestCancelledWaiterDoesNotCancelRefresh(t *testing.T) {
	client, server := setup(t)
	login(t, client)

	server.ExpireSession()
	server.SetRefreshDelay(200 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Me(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mocks.TestUserID, user.ID)
	assert.Equal(t, 1, server.RefreshCalls())
}

func TestExplicitRefresh(t *testing.T) {
	client, server := setup(t)
	login(t, client)

	before := server.AccessToken()
	require.NoError(t, client.Refresh(context.Background()))
	assert.NotEqual(t, before, server.AccessToken())

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, server.RefreshCalls())
}

func TestForceCache(t *testing.T) {
	client, server := setup(t, backend.WithCache(cache.NewMemory(time.Minute)))

	//nolint:exhaustruct //other fields are optional
	params := backend.BookSearchParams{PageSize: 2}

	first, err := client.ListBooks(context.Background(), params)
	require.NoError(t, err)
	second, err := client.ListBooks(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, server.Calls("GET /books"))

	var books []backend.Book
	err = client.Get(
		context.Background(),
		backend.BooksEndpoint,
		//nolint:exhaustruct //other fields are optional
		backend.RequestOptions{NoCache: true},
		&books,
	)
	require.NoError(t, err)
	assert.Equal(t, 2, server.Calls("GET /books"))
}

func TestLoginClearsCache(t *testing.T) {
	memory := cache.NewMemory(0)
	client, _ := setup(t, backend.WithCache(memory))

	_, err := client.GetBook(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, memory.Len())

	login(t, client)
	assert.Equal(t, 0, memory.Len())
}

func TestErrorsAreNotCached(t *testing.T) {
	memory := cache.NewMemory(0)
	client, server := setup(t, backend.WithCache(memory))

	_, err := client.GetBook(context.Background(), 999)
	require.ErrorIs(t, err, backend.ErrUnavailable)
	_, err = client.GetBook(context.Background(), 999)
	require.ErrorIs(t, err, backend.ErrUnavailable)

	assert.Equal(t, 2, server.Calls("GET /books/{id}"))
	assert.Equal(t, 0, memory.Len())
}

func TestTransportFailure(t *testing.T) {
	server := mocks.NewBackendServer()
	url := server.URL
	server.Close()

	client := backend.New(logging.NewNopLogger(), url)

	_, err := client.GetBook(context.Background(), 1)
	require.ErrorIs(t, err, backend.ErrUnavailable)

	var apiErr *backend.APIError
	assert.False(t, errors.As(err, &apiErr))

	//nolint:exhaustruct //other fields are optional
	_, err = client.CreateBook(context.Background(), backend.CreateBookDto{
		Title:  "Title",
		Author: "Author",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, backend.ErrUnavailable)
}

func TestTimeout(t *testing.T) {
	client, server := setup(t, backend.WithTimeout(50*time.Millisecond))
	server.Handle("GET /slow", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	err := client.Get(context.Background(), "/slow", backend.RequestOptions{}, nil)
	assert.ErrorIs(t, err, backend.ErrUnavailable)
}

func TestRateLimiter(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client, server := setup(t, backend.WithRateLimiter(limiter))

	_, err := client.GetBook(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.GetBook(ctx, 1)
	require.ErrorIs(t, err, backend.ErrUnavailable)
	assert.Equal(t, 1, server.Calls("GET /books/{id}"))
}

func TestTokenStoreSeedsSession(t *testing.T) {
	store := session.NewMemory()
	first, server := setup(t, backend.WithTokenStore(store))
	login(t, first)

	second := backend.New(
		logging.NewNopLogger(),
		server.URL,
		backend.WithTokenStore(store),
	)

	user, err := second.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mocks.TestUserID, user.ID)
	assert.Equal(t, 0, server.RefreshCalls())
}

func TestSeededSessionRefreshesAfterExpiry(t *testing.T) {
	store := session.NewMemory()
	first, server := setup(t, backend.WithTokenStore(store))
	login(t, first)

	server.ExpireSession()

	second := backend.New(
		logging.NewNopLogger(),
		server.URL,
		backend.WithTokenStore(store),
	)

	user, err := second.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mocks.TestUserID, user.ID)
	assert.Equal(t, 1, server.RefreshCalls())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, server.AccessToken(), stored.AccessToken)
	assert.Equal(t, server.RefreshToken(), stored.RefreshToken)
}

func TestExplicitRefreshUsesStoredSession(t *testing.T) {
	store := session.NewMemory()
	first, server := setup(t, backend.WithTokenStore(store))
	login(t, first)

	second := backend.New(
		logging.NewNopLogger(),
		server.URL,
		backend.WithTokenStore(store),
	)

	require.NoError(t, second.Refresh(context.Background()))
	assert.Equal(t, 1, server.RefreshCalls())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, server.AccessToken(), stored.AccessToken)
}

func TestConcurrentRefreshKeepsStoreCurrent(t *testing.T) {
	const amount = 8

	store := session.NewMemory()
	client, server := setup(t, backend.WithTokenStore(store))
	login(t, client)

	server.ExpireSession()
	server.HoldUnauthorized(amount)

	var wg sync.WaitGroup
	errs := make([]error, amount)
	for i := range amount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.Me(context.Background())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, server.RefreshCalls())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, server.AccessToken(), stored.AccessToken)
	assert.Equal(t, server.RefreshToken(), stored.RefreshToken)

	restarted := backend.New(
		logging.NewNopLogger(),
		server.URL,
		backend.WithTokenStore(store),
	)
	_, err = restarted.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, server.RefreshCalls())
}

func TestLogoutClearsSession(t *testing.T) {
	store := session.NewMemory()
	client, server := setup(t, backend.WithTokenStore(store))
	login(t, client)

	require.NoError(t, client.Logout(context.Background()))

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, stored.IsZero())

	_, err = client.Me(context.Background())
	require.ErrorIs(t, err, backend.ErrSessionExpired)
	assert.Equal(t, 1, server.RefreshCalls())
}

func TestCustomHeadersAndQuery(t *testing.T) {
	client, server := setup(t)

	var gotHeader, gotQuery string
	server.Handle("GET /echo", func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Custom")
		gotQuery = r.URL.Query().Get("q")
		w.WriteHeader(http.StatusNoContent)
	})

	//nolint:exhaustruct //other fields are optional
	opts := backend.RequestOptions{
		Query:  map[string][]string{"q": {"dune"}},
		Header: http.Header{"X-Custom": {"value"}},
	}

	var dst map[string]any
	require.NoError(t, client.Get(context.Background(), "echo", opts, &dst))
	assert.Nil(t, dst)
	assert.Equal(t, "value", gotHeader)
	assert.Equal(t, "dune", gotQuery)
}
