package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/annotator-store/config"
	"github.com/target/annotator-store/internal/adapters/authroles"
	"github.com/target/annotator-store/internal/adapters/devauth"
	"github.com/target/annotator-store/internal/adapters/oidc"
	redisadapter "github.com/target/annotator-store/internal/adapters/redis"
	"github.com/target/annotator-store/internal/ports"
	"github.com/target/annotator-store/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// AuthBundle is the wired authentication stack.
type AuthBundle struct {
	Auth   *service.AuthService
	Tokens *service.TokenService
}

// BuildAuthService wires the provider selected by the auth mode, the Redis
// session store and the static role mapper. Annotator tokens share the
// session store so logging out revokes them.
func BuildAuthService(cfg AuthConfig) (*AuthBundle, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth requires a redis client for sessions")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessionStore := redisadapter.NewSessionStore(cfg.RedisClient)
	roleMapper := authroles.StaticRoleMapper{
		AdminGroup: cfg.Auth.AdminGroup,
		UserGroup:  cfg.Auth.UserGroup,
	}

	provider, err := buildProvider(cfg.Auth, logger)
	if err != nil {
		return nil, err
	}

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: sessionStore,
		Roles:    roleMapper,
	})

	tokens := service.NewTokenService(service.TokenServiceOptions{
		Config: service.TokenConfig{
			ConsumerKey: cfg.Auth.Token.ConsumerKey,
			Secret:      []byte(cfg.Auth.Token.Secret),
			TTL:         cfg.Auth.Token.TTL,
		},
		Sessions: authSvc,
	})
	if !tokens.Enabled() {
		logger.Info("annotator auth tokens disabled", "reason", "AUTH_TOKEN_SECRET not set")
	}

	return &AuthBundle{Auth: authSvc, Tokens: tokens}, nil
}

//nolint:ireturn // the provider is chosen at runtime by auth mode.
func buildProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		logger.Warn("dev auth enabled; every login succeeds", "user", cfg.DevAuth.UserID)
		prov, err := devauth.NewProvider(devauth.Config{
			UserID: cfg.DevAuth.UserID,
			Email:  cfg.DevAuth.Email,
			Groups: cfg.DevAuth.Groups,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		oauth := cfg.OAuth
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			GroupsClaim:  oauth.GroupsClaim,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
