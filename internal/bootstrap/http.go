package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/annotator-store/config"
	httpx "github.com/target/annotator-store/internal/http"
	"github.com/target/annotator-store/internal/observability/statsd"
	"github.com/target/annotator-store/internal/service"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config *config.AppConfig
	Auth   *AuthBundle
	Sites  *service.SiteService
}

// BuildHTTPHandler assembles the router and access guard from app config.
// metrics may be nil.
func BuildHTTPHandler(cfg HTTPServerConfig, metrics statsd.Sink, logger *slog.Logger) http.Handler {
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	access := httpx.NewAccessControl(logger,
		httpx.WithLoginURL(appCfg.Auth.LoginURL),
		httpx.WithRedirectField(appCfg.Auth.RedirectFieldName),
		httpx.WithMetrics(metrics),
	)

	services := httpx.RouterServices{
		Access:            access,
		CookieDomain:      appCfg.HTTP.CookieDomain,
		TrustProxyHeaders: appCfg.HTTP.TrustProxyHeaders,
		Metrics:           metrics,
		Logger:            logger,
	}
	if cfg.Auth != nil {
		services.Auth = cfg.Auth.Auth
		services.Tokens = cfg.Auth.Tokens
	}
	if cfg.Sites != nil {
		services.Sites = cfg.Sites
		services.URLs = service.NewAbsolutizer(cfg.Sites)
	}

	return httpx.NewRouter(services)
}

// NewHTTPServer returns a server with conservative timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeHTTP runs server until ctx is done, then shuts it down within timeout.
func ServeHTTP(ctx context.Context, server *http.Server, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return <-errCh
}
