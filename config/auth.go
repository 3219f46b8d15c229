package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

const (
	// DefaultLoginURL is where unauthenticated browser requests are sent.
	DefaultLoginURL = "/auth/login"
	// DefaultRedirectFieldName is the query parameter carrying the post-login destination.
	DefaultRedirectFieldName = "next"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"annotator-store"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"annotator-store"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// GroupsClaim is a JMESPath expression evaluated against ID token and
	// userinfo claims to extract group membership.
	GroupsClaim string `env:"GROUPS_CLAIM" envDefault:"memberof"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"admins"          envSeparator:";"`
}

// TokenConfig controls Annotator auth tokens handed to the JavaScript client.
type TokenConfig struct {
	// ConsumerKey identifies this store to the client; embedded in every token.
	ConsumerKey string `env:"CONSUMER_KEY" envDefault:"annotator-store"`
	// Secret signs tokens (HS256). Tokens are disabled when empty.
	Secret string `env:"SECRET"`
	// TTL is the token lifetime.
	TTL time.Duration `env:"TTL" envDefault:"24h"`
}

// Enabled reports whether token issuance is configured.
func (c TokenConfig) Enabled() bool { return c.Secret != "" }

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Token configuration for Annotator auth tokens.
	Token TokenConfig `envPrefix:"AUTH_TOKEN_"`

	// AdminGroup is the LDAP/AD group DN for admin users.
	AdminGroup string `env:"ADMIN_GROUP,required"`

	// UserGroup is the LDAP/AD group DN for regular users.
	UserGroup string `env:"USER_GROUP,required"`

	// LoginURL is the default login location used by access guards.
	// May be a path or an absolute URL on another host.
	LoginURL string `env:"AUTH_LOGIN_URL" envDefault:"/auth/login"`

	// RedirectFieldName is the query parameter that carries the post-login destination.
	RedirectFieldName string `env:"AUTH_REDIRECT_FIELD_NAME" envDefault:"next"`
}

// Sanitize fills empty guard settings with defaults.
func (a *AuthConfig) Sanitize() {
	a.LoginURL = strings.TrimSpace(a.LoginURL)
	if a.LoginURL == "" {
		a.LoginURL = DefaultLoginURL
	}
	a.RedirectFieldName = strings.TrimSpace(a.RedirectFieldName)
	if a.RedirectFieldName == "" {
		a.RedirectFieldName = DefaultRedirectFieldName
	}
	a.OAuth.GroupsClaim = strings.TrimSpace(a.OAuth.GroupsClaim)
	if a.Token.TTL <= 0 {
		a.Token.TTL = 24 * time.Hour
	}
}
