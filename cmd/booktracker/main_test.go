package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"books.xdoubleu.com/internal/config"
	"books.xdoubleu.com/internal/mocks"
	"github.com/stretchr/testify/require"
	configtools "github.com/xdoubleu/essentia/v2/pkg/config"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

type testApp struct {
	*Application
	server *mocks.BackendServer
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func testConfig(t *testing.T, server *mocks.BackendServer) config.Config {
	t.Helper()

	cfg := config.New(logging.NewNopLogger())
	cfg.Env = configtools.TestEnv
	cfg.BackendURL = server.URL
	cfg.RequestTimeout = 5 * time.Second
	cfg.CacheTTL = time.Minute
	cfg.RateLimit = 0
	cfg.RedisAddr = ""
	cfg.SessionFile = filepath.Join(t.TempDir(), "session.yaml")
	cfg.SentryDsn = ""

	return cfg
}

func newTestApp(
	t *testing.T,
	server *mocks.BackendServer,
	cfg config.Config,
) *testApp {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	app, err := NewApplication(logging.NewNopLogger(), cfg, out, errOut)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	return &testApp{
		Application: app,
		server:      server,
		out:         out,
		errOut:      errOut,
	}
}

func setup(t *testing.T) *testApp {
	t.Helper()

	server := mocks.NewBackendServer()
	t.Cleanup(server.Close)

	return newTestApp(t, server, testConfig(t, server))
}

// run executes one command line and resets the captured output first.
func (app *testApp) run(t *testing.T, args ...string) error {
	t.Helper()

	app.out.Reset()
	app.errOut.Reset()

	cmd := app.Commands()
	cmd.SetArgs(args)

	return cmd.ExecuteContext(context.Background())
}

func (app *testApp) login(t *testing.T) {
	t.Helper()

	err := app.run(t, "login", "--email", mocks.TestEmail, "--password", mocks.TestPassword)
	require.NoError(t, err)
}
