package bootstrap

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/annotator-store/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// lazyRedis returns a client that never dials unless a command is issued.
func lazyRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func mockAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Mode:       config.AuthModeMock,
		AdminGroup: "admins",
		UserGroup:  "users",
		DevAuth: config.DevAuthConfig{
			UserID: "dev",
			Email:  "dev@example.com",
			Groups: []string{"admins"},
		},
		Token: config.TokenConfig{ConsumerKey: "annotator-store"},
	}
}

func TestBuildAuthService_RequiresRedis(t *testing.T) {
	_, err := BuildAuthService(AuthConfig{Auth: mockAuthConfig(), Logger: discardLogger()})
	require.Error(t, err)
}

func TestBuildAuthService_MockMode(t *testing.T) {
	cfg := mockAuthConfig()

	bundle, err := BuildAuthService(AuthConfig{Auth: cfg, RedisClient: lazyRedis(t), Logger: discardLogger()})
	require.NoError(t, err)
	require.NotNil(t, bundle.Auth)
	assert.False(t, bundle.Tokens.Enabled())

	cfg.Token.Secret = "s3cret"
	bundle, err = BuildAuthService(AuthConfig{Auth: cfg, RedisClient: lazyRedis(t), Logger: discardLogger()})
	require.NoError(t, err)
	assert.True(t, bundle.Tokens.Enabled())
}

func TestBuildAuthService_MockModeRequiresIdentity(t *testing.T) {
	cfg := mockAuthConfig()
	cfg.DevAuth.Email = ""

	_, err := BuildAuthService(AuthConfig{Auth: cfg, RedisClient: lazyRedis(t), Logger: discardLogger()})
	require.Error(t, err)
}

func TestBuildAuthService_OAuthDiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	cfg := config.AuthConfig{
		Mode:       config.AuthModeOAuth,
		AdminGroup: "admins",
		UserGroup:  "users",
		OAuth: config.OAuthConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			DiscoveryURL: srv.URL,
			RedirectURL:  "https://app.example.com/auth/callback",
			Scope:        "openid",
			GroupsClaim:  "memberof",
		},
	}

	_, err := BuildAuthService(AuthConfig{Auth: cfg, RedisClient: lazyRedis(t), Logger: discardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oidc")
}

func TestBuildAuthService_UnknownMode(t *testing.T) {
	cfg := mockAuthConfig()
	cfg.Mode = "saml"

	_, err := BuildAuthService(AuthConfig{Auth: cfg, RedisClient: lazyRedis(t), Logger: discardLogger()})
	require.Error(t, err)
}
