package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	annotatorstore "github.com/target/annotator-store"
	"github.com/target/annotator-store/config"
	"github.com/target/annotator-store/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		// Logger config is unknown until config loads; fall back to JSON at info.
		bootstrap.InitLogger(bootstrap.LoggerOptions{Level: slog.LevelInfo}).
			ErrorContext(ctx, "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}

	logger := bootstrap.InitLogger(bootstrap.LoggerOptions{Level: cfg.Log.SlogLevel(), Dev: cfg.IsDev})
	logStartupInfo(ctx, logger, &cfg)

	if err := bootstrap.Run(ctx, &cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger.InfoContext(ctx, "annotator store stopped")
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting annotator store",
		"version", annotatorstore.Version,
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"site_id", cfg.Site.ID,
		"db_host", cfg.Postgres.Host,
		"db_name", cfg.Postgres.Name,
		"dev", cfg.IsDev)
}
