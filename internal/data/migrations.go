package data

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/target/annotator-store/internal/migrate"
)

// RunMigrations brings the site schema up to date and returns the versions applied.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) ([]string, error) {
	return migrate.Run(ctx, db, logger)
}
