package bootstrap

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/annotator-store/config"
	"github.com/target/annotator-store/internal/testutil"
)

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLogger(LoggerOptions{Level: slog.LevelWarn, Out: &buf})
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "v", line["k"])
	assert.Same(t, logger, slog.Default())

	buf.Reset()
	InitLogger(LoggerOptions{Level: slog.LevelInfo, Dev: true, Out: &buf}).Info("pretty")
	assert.Contains(t, buf.String(), "pretty")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADMIN_GROUP", "admins")
	t.Setenv("USER_GROUP", "users")
	t.Setenv("SITE_DOMAIN", "  notes.example.org ")
	t.Setenv("LOG_LEVEL", "WARNING")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "notes.example.org", cfg.Site.Domain)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/auth/login", cfg.Auth.LoginURL)
}

func TestLoadConfig_MissingGroups(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"ADMIN_GROUP", "USER_GROUP"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestBuildHTTPHandler_WithoutDatabase(t *testing.T) {
	cfg := &config.AppConfig{
		Site: config.SiteConfig{ID: 1, Domain: "notes.example.org", Name: "Notes"},
		Auth: config.AuthConfig{LoginURL: "/auth/login", RedirectFieldName: "next"},
	}
	sites, err := BuildSiteService(context.Background(), SiteConfig{Site: cfg.Site}, discardLogger())
	require.NoError(t, err)

	h := BuildHTTPHandler(HTTPServerConfig{Config: cfg, Sites: sites}, nil, discardLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://notes.example.org/api/search")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/site", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?next=/api/site", rec.Header().Get("Location"))
}

func TestBuildSiteService_RejectsInvalidDomain(t *testing.T) {
	for _, domain := range []string{"http://example.com", "co.uk", "example.com/path"} {
		t.Run(domain, func(t *testing.T) {
			site := config.SiteConfig{ID: 1, Domain: domain, Name: "Bad"}
			_, err := BuildSiteService(context.Background(), SiteConfig{Site: site}, discardLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "SITE_DOMAIN")
		})
	}
}

func TestBuildSiteService_SeedsFromConfig(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		siteCfg := config.SiteConfig{ID: 1, Domain: "seed.example.com", Name: "Seed"}

		sites, err := BuildSiteService(ctx, SiteConfig{Site: siteCfg, DB: db}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, "seed.example.com", sites.Domain())

		siteCfg.Domain = "ignored.example.com"
		sites, err = BuildSiteService(ctx, SiteConfig{Site: siteCfg, DB: db}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, "seed.example.com", sites.Domain())
	})
}

func TestRedisHelpers(t *testing.T) {
	assert.Equal(t, "redis://%2A@cache:6379/0", redactAddr("redis://user:pw@cache:6379/0"))
	assert.Equal(t, "cache:6379", redactAddr("pw@cache:6379"))
	assert.Equal(t, []string{"a:1", "b:2"}, normalizeAddrs([]string{" a:1 ", "", "b:2"}))

	fb, err := clusterFallbackFromURI("rediss://u:p@cache:6380", "default")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", fb.addr)
	assert.Equal(t, "u", fb.username)
	assert.Equal(t, "p", fb.password)
	assert.NotNil(t, fb.tls)

	fb, err = clusterFallbackFromURI("cache:7000", "default")
	require.NoError(t, err)
	assert.Equal(t, clusterFallback{addr: "cache:7000", password: "default"}, fb)

	_, _, err = newDirectClient(config.RedisConfig{})
	require.Error(t, err)
	_, _, err = newSentinelClient(config.RedisConfig{SentinelNodes: []string{" "}})
	require.Error(t, err)
}
