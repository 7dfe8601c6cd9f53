package main

import (
	"context"
	"strconv"
	"testing"

	"books.xdoubleu.com/pkg/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShelfFlow(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "shelf", "add", "--book", "2", "--status", "currently_reading")
	require.NoError(t, err)
	assert.Contains(t, app.out.String(), "Added to Currently reading")

	err = app.run(t, "shelf", "add", "--external", "ext-hyperion")
	require.NoError(t, err)
	assert.Contains(t, app.out.String(), "Added to Want to read")

	err = app.run(t, "shelf", "list")
	require.NoError(t, err)
	assert.Contains(t, app.out.String(), "The Hobbit by J.R.R. Tolkien")
	assert.Contains(t, app.out.String(), "ext-hyperion")

	shelves, err := app.services.Library.Shelves(context.Background())
	require.NoError(t, err)
	require.Len(t, shelves, len(backend.Statuses))

	var entryID int64
	for _, shelf := range shelves {
		if shelf.Status == backend.CurrentlyReading {
			require.Len(t, shelf.Books, 1)
			entryID = shelf.Books[0].ID
		}
	}
	require.NotZero(t, entryID)
	entry := strconv.FormatInt(entryID, 10)

	err = app.run(t, "shelf", "move", entry, "--status", "read")
	require.NoError(t, err)
	assert.Contains(t, app.out.String(), "Moved to Read")

	err = app.run(t, "shelf", "remove", entry)
	require.NoError(t, err)
	assert.Contains(t, app.out.String(), "Removed.")

	err = app.run(t, "shelf", "list")
	require.NoError(t, err)
	assert.NotContains(t, app.out.String(), "The Hobbit")
}

func TestShelfAddTwice(t *testing.T) {
	app := setup(t)
	app.login(t)

	require.NoError(t, app.run(t, "shelf", "add", "--book", "1"))

	err := app.run(t, "shelf", "add", "--book", "1")
	require.Error(t, err)
	assert.Contains(t, app.errOut.String(), "Book already in reading list")
}

func TestShelfAddNeedsOneBook(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "shelf", "add")
	require.Error(t, err)
	assert.Contains(t, app.errOut.String(), "must reference exactly one")

	err = app.run(t, "shelf", "add", "--book", "1", "--external", "ext-dune")
	require.Error(t, err)
	assert.Contains(t, app.errOut.String(), "must reference exactly one")

	assert.Equal(t, 0, app.server.Calls("POST /user-books"))
}

func TestShelfUnknownStatus(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "shelf", "move", "1", "--status", "abandoned")
	require.Error(t, err)
	assert.Contains(t, app.errOut.String(), "status")
	assert.Equal(t, 0, app.server.Calls("PUT /user-books/{id}"))
}

func TestShelfRemoveMissing(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "shelf", "remove", "404")

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}
