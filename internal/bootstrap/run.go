package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/annotator-store/config"
	"golang.org/x/sync/errgroup"
)

// Run connects infrastructure, wires services and serves HTTP until ctx is
// canceled. The site refresher runs alongside the server.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (err error) {
	dbCfg := DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}

	db, err := ConnectDB(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close database: %w", cerr))
		}
	}()

	redisClient, err := ConnectRedis(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close redis: %w", cerr))
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if _, err = RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	authBundle, err := BuildAuthService(AuthConfig{Auth: cfg.Auth, RedisClient: redisClient, Logger: logger})
	if err != nil {
		return fmt.Errorf("build auth: %w", err)
	}

	sites, err := BuildSiteService(ctx, SiteConfig{Site: cfg.Site, DB: db, RedisClient: redisClient}, logger)
	if err != nil {
		return err
	}

	metrics, err := BuildMetrics(ctx, cfg.Metrics, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := metrics.Close(); cerr != nil {
			logger.Warn("close statsd client", "error", cerr)
		}
	}()

	handler := BuildHTTPHandler(HTTPServerConfig{Config: cfg, Auth: authBundle, Sites: sites}, metrics, logger)
	server := NewHTTPServer(cfg.HTTP.Addr, handler)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return ServeHTTP(gctx, server, cfg.HTTP.ShutdownTimeout, logger)
	})
	if cfg.Site.RefreshInterval > 0 {
		group.Go(func() error {
			if runErr := sites.Run(gctx, cfg.Site.RefreshInterval); runErr != nil && !errors.Is(runErr, context.Canceled) {
				return fmt.Errorf("site refresher: %w", runErr)
			}
			return nil
		})
	}

	return group.Wait()
}
