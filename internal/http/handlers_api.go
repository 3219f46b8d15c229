package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	annotatorstore "github.com/target/annotator-store"
	domainauth "github.com/target/annotator-store/internal/domain/auth"
	"github.com/target/annotator-store/internal/domain/model"
)

// SiteServiceInterface is the site surface the API handlers need.
type SiteServiceInterface interface {
	Current() model.Site
	Update(ctx context.Context, req model.UpdateSiteRequest) (model.Site, error)
}

// URLAbsolutizer turns local paths into absolute site URLs.
type URLAbsolutizer interface {
	Absolutize(localURL string) string
}

// APIHandlers serves the JSON API.
type APIHandlers struct {
	Sites    SiteServiceInterface
	URLs     URLAbsolutizer
	LoginURL string
	Logger   *slog.Logger
}

func (h *APIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type apiLink struct {
	URL    string `json:"url"`
	Method string `json:"method,omitempty"`
	Desc   string `json:"desc,omitempty"`
}

type apiRoot struct {
	Name    string             `json:"name"`
	Version string             `json:"version"`
	Links   map[string]apiLink `json:"links"`
}

// Root describes the API and links its entry points with absolute URLs.
// GET /api/.
func (h *APIHandlers) Root(w http.ResponseWriter, _ *http.Request) {
	loginURL := h.LoginURL
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}
	WriteJSON(w, http.StatusOK, apiRoot{
		Name:    "Annotator Store API",
		Version: annotatorstore.Version,
		Links: map[string]apiLink{
			"search": {
				URL:    h.URLs.Absolutize("/api/search"),
				Method: http.MethodGet,
				Desc:   "Basic search API",
			},
			"annotations": {
				URL:    h.URLs.Absolutize("/api/annotations/"),
				Method: http.MethodGet,
				Desc:   "List annotations",
			},
			"token": {
				URL:    h.URLs.Absolutize("/auth/token"),
				Method: http.MethodGet,
				Desc:   "Annotator auth token for the current session",
			},
			"login": {
				URL:  h.URLs.Absolutize(loginURL),
				Desc: "Sign in",
			},
		},
	})
}

// Permissions lists the current user's permissions.
// GET /api/permissions.
func (h *APIHandlers) Permissions(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	perms := []domainauth.Permission{}
	if su, ok := user.(*domainauth.SessionUser); ok {
		perms = su.Permissions()
	}
	slices.Sort(perms)
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        user.Username(),
		"permissions": perms,
	})
}

// GetSite returns the current site record.
// GET /api/site.
func (h *APIHandlers) GetSite(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Sites.Current())
}

// UpdateSite changes the site's domain and display name.
// PUT /api/site.
func (h *APIHandlers) UpdateSite(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSiteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	site, err := h.Sites.Update(r.Context(), req)
	if err != nil {
		h.logger().WarnContext(r.Context(), "update site failed", "error", err)
		WriteAppError(w, err)
		return
	}

	h.logger().InfoContext(r.Context(), "site updated",
		"domain", site.Domain,
		"user", UserFromContext(r.Context()).Username())
	WriteJSON(w, http.StatusOK, site)
}
