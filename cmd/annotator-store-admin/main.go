// Command annotator-store-admin runs maintenance tasks against the store's
// database: migrations and the current site record.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/annotator-store/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger(bootstrap.LoggerOptions{Level: slog.LevelInfo, Out: os.Stderr})
	root := newRootCmd(&app{
		out:        os.Stdout,
		logger:     logger,
		loadConfig: bootstrap.LoadConfig,
		connect:    connectInfra,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		logger.ErrorContext(ctx, "command failed", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}
