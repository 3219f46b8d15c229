package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/annotator-store/internal/domain/auth"
	"github.com/target/annotator-store/internal/observability/statsd"
)

// TokenServiceInterface both mints and resolves Annotator auth tokens.
type TokenServiceInterface interface {
	TokenIssuer
	TokenResolver
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth   AuthServiceInterface
	Tokens TokenServiceInterface // optional
	Sites  SiteServiceInterface
	URLs   URLAbsolutizer
	// Access guards protected routes; nil builds one with defaults.
	Access *AccessControl
	// CookieDomain scopes auth cookies; empty means host-only.
	CookieDomain string
	// TrustProxyHeaders honours X-Forwarded-Proto from a fronting proxy.
	TrustProxyHeaders bool
	Metrics           statsd.Sink // optional
	Logger       *slog.Logger
}

// NewRouter creates the HTTP handler: Recover -> ProxyHeaders -> Logging -> Metrics -> LoadUser -> mux.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	access := services.Access
	if access == nil {
		access = NewAccessControl(logger)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var tokens TokenResolver
	if services.Tokens != nil {
		tokens = services.Tokens
	}

	if services.Auth != nil {
		authHandlers := &AuthHandlers{
			Svc:           services.Auth,
			RedirectField: access.RedirectFieldName,
			CookieDomain:  services.CookieDomain,
			Logger:        logger,
		}
		if services.Tokens != nil {
			authHandlers.Tokens = services.Tokens
		}
		registerAuthRoutes(mux, authHandlers, access)
	}

	if services.Sites != nil && services.URLs != nil {
		apiHandlers := &APIHandlers{
			Sites:    services.Sites,
			URLs:     services.URLs,
			LoginURL: access.LoginURL,
			Logger:   logger,
		}
		registerAPIRoutes(mux, apiHandlers, access)
	}

	var handler http.Handler = mux
	handler = LoadUser(LoadUserOptions{Sessions: services.Auth, Tokens: tokens, Logger: logger})(handler)
	handler = Metrics(services.Metrics)(handler)
	handler = Logging(logger)(handler)
	handler = ProxyHeaders(services.TrustProxyHeaders)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, access *AccessControl) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.Handle("GET /auth/token", access.LoginRequired()(http.HandlerFunc(h.Token)))
}

func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers, access *AccessControl) {
	mux.HandleFunc("GET /api/{$}", h.Root)
	mux.Handle("GET /api/permissions", access.LoginRequired()(http.HandlerFunc(h.Permissions)))
	mux.Handle("GET /api/site", access.PermissionRequired(domainauth.PermViewSite)(http.HandlerFunc(h.GetSite)))
	mux.Handle("PUT /api/site", access.PermissionRequired(domainauth.PermChangeSite)(http.HandlerFunc(h.UpdateSite)))
}
