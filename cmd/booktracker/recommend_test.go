package main

import (
	"testing"

	"books.xdoubleu.com/cmd/booktracker/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "recommend")
	require.NoError(t, err)

	output := app.out.String()
	assert.Contains(t, output, "Book Recommendations")
	assert.Contains(t, output, "Frank Herbert")
	assert.Contains(t, output, "Ursula K. Le Guin")
	assert.Contains(t, output, "a classic you keep coming back to")
}

func TestRecommendRaw(t *testing.T) {
	app := setup(t)
	app.login(t)

	err := app.run(t, "recommend", "--raw")
	require.NoError(t, err)

	assert.Contains(t, app.out.String(), "Dune by Frank Herbert")
	assert.NotContains(t, app.out.String(), "**")
}

func TestRecommendEmpty(t *testing.T) {
	app := setup(t)
	app.login(t)
	app.server.SetRecommendation("")

	err := app.run(t, "recommend")
	require.NoError(t, err)
	assert.Contains(t, app.out.String(), "No recommendations yet.")
}

func TestRecommendNotSignedIn(t *testing.T) {
	app := setup(t)

	err := app.run(t, "recommend")
	require.ErrorIs(t, err, services.ErrNotSignedIn)
}
