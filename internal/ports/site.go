package ports

import (
	"context"

	"github.com/target/annotator-store/internal/domain/model"
)

// SiteRepository persists Site records.
type SiteRepository interface {
	// GetByID returns the site or an error satisfying errors.IsNotFound.
	GetByID(ctx context.Context, id int64) (*model.Site, error)
	// Upsert inserts or replaces the site with the given ID.
	Upsert(ctx context.Context, site model.Site) (*model.Site, error)
}

// SiteCache is a shared cache in front of SiteRepository so that every
// instance observes domain changes without hitting the database per request.
type SiteCache interface {
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, id int64) (*model.Site, error)
	Set(ctx context.Context, site model.Site) error
	Delete(ctx context.Context, id int64) error
}
