package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	annotatorstore "github.com/target/annotator-store"
	"github.com/target/annotator-store/config"
	"github.com/target/annotator-store/internal/observability/statsd"
)

// BuildMetrics returns a StatsD client. A disabled config yields a client
// that drops every metric, so callers never nil-check.
func BuildMetrics(ctx context.Context, cfg config.MetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	tags := map[string]string{"version": annotatorstore.Version}
	if cfg.Env != "" {
		tags["env"] = cfg.Env
	}
	client, err := statsd.NewClient(ctx, statsd.Config{
		Enabled:    cfg.Enabled,
		Address:    cfg.Address,
		Prefix:     cfg.Prefix,
		GlobalTags: tags,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build metrics: %w", err)
	}
	if client.Enabled() {
		logger.InfoContext(ctx, "statsd metrics enabled", "addr", cfg.Address, "prefix", cfg.Prefix)
	}
	return client, nil
}
