package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/target/annotator-store/config"
)

// LoggerOptions controls InitLogger.
type LoggerOptions struct {
	Level slog.Level
	Dev   bool      // colored, human-readable output
	Out   io.Writer // defaults to os.Stdout
}

// InitLogger builds the process logger and installs it as slog's default.
// Development mode gets tint's colored handler; everything else logs JSON.
func InitLogger(opts LoggerOptions) *slog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	if opts.Dev {
		handler = tint.NewHandler(out, &tint.Options{
			Level:      opts.Level,
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: opts.Level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
