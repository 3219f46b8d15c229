package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	annotatorstore "github.com/target/annotator-store"
	"github.com/target/annotator-store/config"
	"github.com/target/annotator-store/internal/testutil"
)

func testApp(out io.Writer, connect connectFunc) *app {
	return &app{
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		loadConfig: func() (config.AppConfig, error) {
			return config.AppConfig{Site: config.SiteConfig{ID: 1, Domain: "seed.example.com", Name: "Seed"}}, nil
		},
		connect: connect,
	}
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a.out = &out
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func noInfra(context.Context, *config.AppConfig, *slog.Logger) (*infra, error) {
	return nil, errors.New("no infrastructure in this test")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testApp(nil, noInfra), "version")
	require.NoError(t, err)
	assert.Equal(t, annotatorstore.Version+"\n", out)
}

func TestAbsolutizeCommand_WithDomainFlag(t *testing.T) {
	out, err := execute(t, testApp(nil, noInfra),
		"absolutize", "--domain", "notes.example.org/", "/api/search", "https://cdn.example.net/a.js", "page")
	require.NoError(t, err)
	assert.Equal(t,
		"https://notes.example.org/api/search\nhttps://cdn.example.net/a.js\nhttps://notes.example.org/page\n",
		out)
}

func TestAbsolutizeCommand_RequiresArgs(t *testing.T) {
	_, err := execute(t, testApp(nil, noInfra), "absolutize")
	require.Error(t, err)
}

func TestSiteShow_PropagatesConnectError(t *testing.T) {
	_, err := execute(t, testApp(nil, noInfra), "site", "show")
	require.Error(t, err)
}

func TestSiteShow_PropagatesConfigError(t *testing.T) {
	a := testApp(nil, noInfra)
	a.loadConfig = func() (config.AppConfig, error) { return config.AppConfig{}, errors.New("ADMIN_GROUP required") }

	_, err := execute(t, a, "site", "show")
	require.ErrorContains(t, err, "load config")
}

func TestSiteCommands_Integration(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		// No close func: the shared test DB outlives each command.
		a := testApp(nil, func(context.Context, *config.AppConfig, *slog.Logger) (*infra, error) {
			return &infra{DB: db}, nil
		})

		out, err := execute(t, a, "site", "show", "--json")
		require.NoError(t, err)
		assert.Contains(t, out, `"domain": "seed.example.com"`)

		out, err = execute(t, a, "site", "set-domain", "https://Notes.Example.org/", "--name", "Notes")
		require.NoError(t, err)
		assert.Contains(t, out, "notes.example.org")
		assert.Contains(t, out, "https://notes.example.org/")

		out, err = execute(t, a, "absolutize", "/api/")
		require.NoError(t, err)
		assert.Equal(t, "https://notes.example.org/api/\n", out)

		_, err = execute(t, a, "site", "set-domain", "http://bad.example.com")
		require.Error(t, err)
	})
}
