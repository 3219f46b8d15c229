//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/publicsuffix"
)

const (
	maxSiteDomainLen = 100
	maxSiteNameLen   = 50
)

// DefaultSiteID is the primary key of the site a deployment serves when none is configured.
const DefaultSiteID int64 = 1

// Site is a deployment's canonical public identity. Exactly one Site is
// "current" per process, selected by ID at startup.
type Site struct {
	ID        int64     `json:"id"         db:"id"`
	Domain    string    `json:"domain"     db:"domain"`
	Name      string    `json:"name"       db:"name"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateSiteRequest represents parameters to update the current Site.
type UpdateSiteRequest struct {
	Domain string `json:"domain" validate:"required,max=100"`
	Name   string `json:"name"   validate:"max=50"`
}

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate normalizes and validates the request in place.
func (r *UpdateSiteRequest) Validate() error {
	r.Domain = NormalizeSiteDomain(r.Domain)
	r.Name = strings.TrimSpace(r.Name)

	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid site: %w", err)
	}
	return ValidateSiteDomain(r.Domain)
}

// NormalizeSiteDomain trims whitespace, lowercases, and drops an https scheme
// and trailing slashes. Other schemes are left in place so validation rejects them.
func NormalizeSiteDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	return strings.TrimRight(d, "/")
}

// ValidateSiteDomain checks that domain is a host or host:port that is not a
// bare public suffix. Single-label hosts such as "localhost" are allowed.
func ValidateSiteDomain(domain string) error {
	if domain == "" {
		return errors.New("domain is required")
	}
	if len(domain) > maxSiteDomainLen {
		return fmt.Errorf("domain cannot exceed %d characters", maxSiteDomainLen)
	}
	if strings.Contains(domain, "://") {
		return errors.New("domain must not include a scheme other than https")
	}
	if strings.ContainsAny(domain, "/?#") {
		return errors.New("domain must not include a path")
	}

	host := domain
	if strings.Contains(domain, ":") {
		h, port, err := net.SplitHostPort(domain)
		if err != nil || port == "" {
			return fmt.Errorf("invalid domain %q", domain)
		}
		if portErr := validate.Var(port, "numeric"); portErr != nil {
			return fmt.Errorf("invalid port in domain %q", domain)
		}
		host = h
	}

	if err := validate.Var(host, "hostname_rfc1123"); err != nil {
		return fmt.Errorf("invalid domain %q", domain)
	}

	if strings.Contains(host, ".") {
		suffix, _ := publicsuffix.PublicSuffix(host)
		if suffix == host {
			return fmt.Errorf("domain %q is a public suffix", domain)
		}
	}
	return nil
}
