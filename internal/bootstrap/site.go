package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/annotator-store/config"
	redisadapter "github.com/target/annotator-store/internal/adapters/redis"
	"github.com/target/annotator-store/internal/data"
	"github.com/target/annotator-store/internal/domain/model"
	"github.com/target/annotator-store/internal/service"
)

// SiteConfig contains dependencies for the site service.
type SiteConfig struct {
	Site        config.SiteConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient // optional cache
}

// BuildSiteService wires the Postgres repository and the optional Redis
// cache, then loads the current site. A missing row is seeded from config.
func BuildSiteService(ctx context.Context, cfg SiteConfig, logger *slog.Logger) (*service.SiteService, error) {
	domain := model.NormalizeSiteDomain(cfg.Site.Domain)
	if err := model.ValidateSiteDomain(domain); err != nil {
		return nil, fmt.Errorf("SITE_DOMAIN %q: %w", cfg.Site.Domain, err)
	}

	opts := service.SiteServiceOptions{
		Defaults: model.Site{ID: cfg.Site.ID, Domain: domain, Name: cfg.Site.Name},
		Logger:   logger,
	}
	if cfg.DB != nil {
		opts.Stores.Repo = data.NewSiteRepo(cfg.DB)
	}
	if cfg.RedisClient != nil && cfg.Site.CacheTTL > 0 {
		opts.Stores.Cache = redisadapter.NewSiteCache(cfg.RedisClient, cfg.Site.CacheTTL)
	}

	svc := service.NewSiteService(opts)
	site, err := svc.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load site %d: %w", cfg.Site.ID, err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "current site loaded", "site_id", site.ID, "domain", site.Domain)
	}
	return svc, nil
}
