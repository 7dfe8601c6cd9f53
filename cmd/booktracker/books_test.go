package main

import (
	"testing"

	"books.xdoubleu.com/pkg/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooksList(t *testing.T) {
	app := setup(t)

	err := app.run(t, "books", "list")
	require.NoError(t, err)

	output := app.out.String()
	assert.Contains(t, output, "Dune")
	assert.Contains(t, output, "The Hobbit")
	assert.Contains(t, output, "Foundation")
	assert.Contains(t, output, "of 3")
}

func TestBooksListQuery(t *testing.T) {
	app := setup(t)

	err := app.run(t, "books", "list", "hobbit")
	require.NoError(t, err)

	assert.Contains(t, app.out.String(), "The Hobbit")
	assert.NotContains(t, app.out.String(), "Foundation")
}

func TestBooksListIsCached(t *testing.T) {
	app := setup(t)

	require.NoError(t, app.run(t, "books", "list"))
	require.NoError(t, app.run(t, "books", "list"))

	assert.Equal(t, 1, app.server.Calls("GET /books"))
}

func TestBooksShow(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "books", "show", "1")
	require.NoError(t, err)

	assert.Contains(t, app.out.String(), "Dune by Frank Herbert")
	assert.Contains(t, app.out.String(), "Nothing here yet.")
}

func TestBooksShowMissing(t *testing.T) {
	app := setup(t)

	err := app.run(t, "books", "show", "999")
	require.ErrorIs(t, err, backend.ErrUnavailable)
	assert.Contains(t, app.errOut.String(), "Could not load this right now")
}

func TestBooksShowInvalidID(t *testing.T) {
	app := setup(t)

	err := app.run(t, "books", "show", "dune")
	require.Error(t, err)
	assert.Contains(t, app.errOut.String(), "invalid syntax")
}

func TestBooksAdd(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "books", "add",
		"--title", "Neuromancer",
		"--author", "William Gibson",
		"--genre", "cyberpunk",
		"--pages", "271",
	)
	require.NoError(t, err)
	assert.Contains(t, app.out.String(), "Added Neuromancer by William Gibson")

	err = app.run(t, "books", "list", "neuromancer")
	require.NoError(t, err)
	assert.Contains(t, app.out.String(), "cyberpunk")
}

func TestBooksAddRequiresAuthor(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "books", "add", "--title", "Neuromancer")

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, app.errOut.String(), "title and author are required")
}

func TestBooksSearch(t *testing.T) {
	app := setup(t)

	err := app.run(t, "books", "search", "dune")
	require.NoError(t, err)

	assert.Contains(t, app.out.String(), "ext-dune")
	assert.NotContains(t, app.out.String(), "ext-hyperion")
}

func TestBooksPopular(t *testing.T) {
	app := setup(t)

	err := app.run(t, "books", "popular")
	require.NoError(t, err)

	assert.Contains(t, app.out.String(), "ext-hyperion")
}

func TestMissingBackendURL(t *testing.T) {
	app := setup(t)

	cfg := app.config
	cfg.BackendURL = ""
	broken := newTestApp(t, app.server, cfg)

	err := broken.run(t, "books", "list")
	require.ErrorIs(t, err, backend.ErrMissingBaseURL)
	assert.Contains(t, broken.errOut.String(), "BACKEND_URL is not set.")
	assert.Equal(t, 0, app.server.Calls("GET /books"))
}
