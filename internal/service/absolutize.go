package service

import "strings"

// DomainSource yields the canonical site domain, e.g. "example.com".
type DomainSource interface {
	Domain() string
}

// AbsolutizeURL turns a local URL into an https URL rooted at domain. URLs
// already starting with "https" are returned unchanged; other schemes are not
// recognized and get the domain prefixed like any path.
func AbsolutizeURL(domain, localURL string) string {
	if strings.HasPrefix(localURL, "https") {
		return localURL
	}
	root := domain
	if !strings.HasPrefix(root, "https") {
		root = "https://" + root
	}
	if strings.HasPrefix(localURL, "/") {
		root = strings.TrimRight(root, "/")
	}
	return root + localURL
}

// Absolutizer binds AbsolutizeURL to the current site domain.
type Absolutizer struct {
	Domains DomainSource
}

// NewAbsolutizer constructs an Absolutizer.
func NewAbsolutizer(domains DomainSource) *Absolutizer {
	return &Absolutizer{Domains: domains}
}

// Absolutize resolves localURL against the current site domain.
func (a *Absolutizer) Absolutize(localURL string) string {
	return AbsolutizeURL(a.Domains.Domain(), localURL)
}
