package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/target/annotator-store/internal/domain/model"
	apperrors "github.com/target/annotator-store/internal/errors"
	"github.com/target/annotator-store/internal/ports"
)

// SiteStores are the persistence ports behind SiteService.
type SiteStores struct {
	Repo  ports.SiteRepository // Optional: without it the service serves Defaults only
	Cache ports.SiteCache      // Optional
}

// SiteServiceOptions groups dependencies for SiteService.
type SiteServiceOptions struct {
	Stores   SiteStores
	Defaults model.Site   // Required: ID selects the current site; Domain/Name seed it
	Logger   *slog.Logger // Optional: structured logger
}

// SiteService owns the current Site. Reads are served from an in-process
// snapshot; Load, Refresh and Update replace the snapshot atomically.
type SiteService struct {
	repo     ports.SiteRepository
	cache    ports.SiteCache
	defaults model.Site
	current  atomic.Pointer[model.Site]
	logger   *slog.Logger
}

// NewSiteService constructs a SiteService whose snapshot starts at Defaults.
func NewSiteService(opts SiteServiceOptions) *SiteService {
	defaults := opts.Defaults
	if defaults.ID <= 0 {
		defaults.ID = model.DefaultSiteID
	}
	defaults.Domain = model.NormalizeSiteDomain(defaults.Domain)

	logger := slog.Default()
	if opts.Logger != nil {
		logger = opts.Logger
	}

	s := &SiteService{
		repo:     opts.Stores.Repo,
		cache:    opts.Stores.Cache,
		defaults: defaults,
		logger:   logger.With("component", "site_service"),
	}
	snapshot := defaults
	s.current.Store(&snapshot)
	return s
}

// Current returns a copy of the current site.
func (s *SiteService) Current() model.Site {
	return *s.current.Load()
}

// Domain returns the current site's domain.
func (s *SiteService) Domain() string {
	return s.current.Load().Domain
}

// Load reads the current site, seeding the repository from Defaults when the
// row does not exist yet.
func (s *SiteService) Load(ctx context.Context) (model.Site, error) {
	if s.repo == nil {
		return s.Current(), nil
	}

	site, err := s.fetch(ctx)
	if apperrors.IsNotFound(err) {
		if vErr := model.ValidateSiteDomain(s.defaults.Domain); vErr != nil {
			return s.Current(), apperrors.Validation(fmt.Sprintf("seed site domain: %v", vErr))
		}
		s.logger.InfoContext(ctx, "seeding site from configuration",
			"site_id", s.defaults.ID, "domain", s.defaults.Domain)
		site, err = s.persist(ctx, s.defaults)
	}
	if err != nil {
		return s.Current(), fmt.Errorf("load site %d: %w", s.defaults.ID, err)
	}
	s.current.Store(site)
	return *site, nil
}

// Refresh re-reads the site so changes made by other instances become
// visible. A missing row leaves the snapshot unchanged.
func (s *SiteService) Refresh(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	site, err := s.fetch(ctx)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("refresh site %d: %w", s.defaults.ID, err)
	}
	if prev := s.current.Swap(site); prev.Domain != site.Domain {
		s.logger.InfoContext(ctx, "site domain changed", "from", prev.Domain, "to", site.Domain)
	}
	return nil
}

// Update validates req, persists it and swaps the snapshot. An empty Name
// keeps the current name.
func (s *SiteService) Update(ctx context.Context, req model.UpdateSiteRequest) (model.Site, error) {
	if err := req.Validate(); err != nil {
		return model.Site{}, apperrors.Validation(err.Error())
	}
	if s.repo == nil {
		return model.Site{}, apperrors.Internal("site repository not configured")
	}

	next := s.Current()
	next.Domain = req.Domain
	if req.Name != "" {
		next.Name = req.Name
	}

	site, err := s.persist(ctx, next)
	if err != nil {
		return model.Site{}, fmt.Errorf("update site %d: %w", next.ID, err)
	}
	s.current.Store(site)
	s.logger.InfoContext(ctx, "site updated", "site_id", site.ID, "domain", site.Domain)
	return *site, nil
}

// Run refreshes the snapshot every interval until ctx is done. Refresh
// failures are logged and retried on the next tick.
func (s *SiteService) Run(ctx context.Context, interval time.Duration) error {
	if s.repo == nil || interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.WarnContext(ctx, "site refresh failed", "error", err)
			}
		}
	}
}

// fetch reads through the cache. Cache failures degrade to a repository read.
func (s *SiteService) fetch(ctx context.Context) (*model.Site, error) {
	id := s.defaults.ID
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "site cache read failed", "site_id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	site, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, *site)
	return site, nil
}

func (s *SiteService) persist(ctx context.Context, site model.Site) (*model.Site, error) {
	saved, err := s.repo.Upsert(ctx, site)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, *saved)
	return saved, nil
}

func (s *SiteService) cacheSet(ctx context.Context, site model.Site) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, site); err != nil {
		s.logger.WarnContext(ctx, "site cache write failed", "site_id", site.ID, "error", err)
	}
}
