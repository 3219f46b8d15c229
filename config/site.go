package config

import (
	"strings"
	"time"
)

// SiteConfig identifies the deployment's canonical site.
//
// The domain stored in the database wins once the site row exists; Domain and
// Name here seed that row on first start and serve as the fallback when no
// database is available.
type SiteConfig struct {
	// ID selects the current site row.
	ID int64 `env:"SITE_ID" envDefault:"1"`

	// Domain is the canonical public domain (e.g. "annotations.example.com").
	Domain string `env:"SITE_DOMAIN" envDefault:"example.com"`

	// Name is a human-readable display name.
	Name string `env:"SITE_NAME" envDefault:"example.com"`

	// CacheTTL bounds how long the site record stays in the shared Redis cache.
	CacheTTL time.Duration `env:"SITE_CACHE_TTL" envDefault:"10m"`

	// RefreshInterval is how often each instance re-reads the current site.
	// Zero disables background refresh.
	RefreshInterval time.Duration `env:"SITE_REFRESH_INTERVAL" envDefault:"1m"`
}

// Sanitize applies guardrails to site configuration values.
func (s *SiteConfig) Sanitize() {
	if s.ID <= 0 {
		s.ID = 1
	}
	s.Domain = strings.TrimSpace(s.Domain)
	if s.Domain == "" {
		s.Domain = "example.com"
	}
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		s.Name = s.Domain
	}
	if s.CacheTTL < 0 {
		s.CacheTTL = 0
	}
	if s.RefreshInterval < 0 {
		s.RefreshInterval = 0
	}
}
