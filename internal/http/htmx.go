package httpx

import (
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsAJAX reports whether the request came from script rather than a page
// navigation: X-Requested-With: XMLHttpRequest (jQuery, Annotator.js) or htmx.
func IsAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" || IsHTMX(r)
}

// wantsJSON reports whether an error should be rendered as JSON rather than a page.
func wantsJSON(r *http.Request) bool {
	return IsAJAX(r) ||
		strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// requestScheme returns "https" for TLS requests, or when a trusted proxy
// reported https (see ProxyHeaders).
func requestScheme(r *http.Request) string {
	if r.TLS != nil || forwardedHTTPS(r.Context()) {
		return "https"
	}
	return "http"
}

// absoluteURI rebuilds the URL the client requested.
func absoluteURI(r *http.Request) string {
	return requestScheme(r) + "://" + r.Host + r.URL.RequestURI()
}
