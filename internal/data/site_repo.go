package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/annotator-store/internal/data/pgxutil"
	"github.com/target/annotator-store/internal/domain/model"
	apperrors "github.com/target/annotator-store/internal/errors"
)

const (
	siteGetByIDQuery = `
		SELECT id, domain, name, updated_at
		FROM sites
		WHERE id = $1`

	siteUpsertQuery = `
		INSERT INTO sites (id, domain, name, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET domain = EXCLUDED.domain,
		    name = EXCLUDED.name,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, domain, name, updated_at`
)

// SiteRepo provides database operations for sites.
type SiteRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSiteRepo creates a new SiteRepo with real time provider.
func NewSiteRepo(db *sql.DB) *SiteRepo {
	return &SiteRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewSiteRepoWithTimeProvider creates a new SiteRepo with a custom time provider (useful for tests).
func NewSiteRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SiteRepo {
	return &SiteRepo{DB: db, timeProvider: tp}
}

// GetByID retrieves a site by ID. A missing row maps to a not_found AppError.
func (r *SiteRepo) GetByID(ctx context.Context, id int64) (*model.Site, error) {
	var out model.Site
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, siteGetByIDQuery, id)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Site])
		return err
	})
	if err != nil {
		return nil, r.mapErr(err, fmt.Sprintf("get site %d", id))
	}
	return &out, nil
}

// Upsert inserts the site or replaces the domain and name of an existing row
// with the same ID. UpdatedAt is always set by the repository.
func (r *SiteRepo) Upsert(ctx context.Context, site model.Site) (*model.Site, error) {
	if site.ID <= 0 {
		return nil, apperrors.ValidationField("id", "site id must be positive")
	}

	now := r.timeProvider.Now().UTC()
	var out model.Site
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, siteUpsertQuery, site.ID, site.Domain, site.Name, now)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Site])
		return err
	})
	if err != nil {
		return nil, r.mapErr(err, fmt.Sprintf("upsert site %d", site.ID))
	}
	return &out, nil
}

func (r *SiteRepo) mapErr(err error, op string) error {
	mapped := apperrors.MapDBError(err)
	var appErr *apperrors.AppError
	if errors.As(mapped, &appErr) {
		return mapped
	}
	return fmt.Errorf("%s: %w", op, err)
}
