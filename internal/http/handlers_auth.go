package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/annotator-store/internal/domain/auth"
	"github.com/target/annotator-store/internal/service"
)

const (
	stateCookieName    = "oauth_state"
	nonceCookieName    = "oauth_nonce"
	postLoginCookie    = "post_login_redirect"
	oauthCookieMaxAge  = 600 // 10 minutes
	defaultPostLoginTo = "/"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// TokenIssuer mints Annotator auth tokens for a session.
type TokenIssuer interface {
	Enabled() bool
	Issue(sess domainauth.Session) (*service.IssuedToken, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc    AuthServiceInterface
	Tokens TokenIssuer
	// RedirectField is the query parameter carrying the post-login path.
	RedirectField string
	CookieDomain  string
	Logger        *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) redirectField() string {
	if h.RedirectField != "" {
		return h.RedirectField
	}
	return DefaultRedirectFieldName
}

// Login handles the login initiation endpoint.
// GET /auth/login?next=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectTo := safeRedirect(r, r.URL.Query().Get(h.redirectField()))

	result, err := h.Svc.BeginLogin(r.Context(), redirectTo)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	h.setCookie(w, r, cookieParams{Name: stateCookieName, Value: result.State, MaxAge: oauthCookieMaxAge})
	h.setCookie(w, r, cookieParams{Name: nonceCookieName, Value: result.Nonce, MaxAge: oauthCookieMaxAge})
	h.setCookie(w, r, cookieParams{Name: postLoginCookie, Value: redirectTo, MaxAge: oauthCookieMaxAge})

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie(nonceCookieName)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	sess, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "login_completion_failed",
			Err:     errors.New("login could not be completed"),
		})
		return
	}

	h.setCookie(w, r, cookieParams{
		Name:   sessionCookieName,
		Value:  sess.ID,
		MaxAge: int(time.Until(sess.ExpiresAt).Seconds()),
	})
	h.clearCookie(w, r, stateCookieName)
	h.clearCookie(w, r, nonceCookieName)

	redirectTo := defaultPostLoginTo
	if c, cookieErr := r.Cookie(postLoginCookie); cookieErr == nil {
		redirectTo = safeRedirect(r, c.Value)
		h.clearCookie(w, r, postLoginCookie)
	}
	http.Redirect(w, r, redirectTo, http.StatusFound)
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, sessionCookieName)

	redirectTo := r.FormValue(h.redirectField())
	redirectTo = safeRedirect(r, redirectTo)

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": redirectTo,
		})
		return
	}
	http.Redirect(w, r, redirectTo, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":           session.UserID,
			"display_name": session.DisplayName(),
			"first_name":   session.FirstName,
			"last_name":    session.LastName,
			"email":        session.Email,
			"role":         session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// Token issues an Annotator auth token for the current session. The body is
// the bare token, as the Annotator.js Auth plugin expects, unless JSON is asked for.
// GET /auth/token.
func (h *AuthHandlers) Token(w http.ResponseWriter, r *http.Request) {
	if h.Tokens == nil || !h.Tokens.Enabled() {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: service.ErrTokensDisabled})
		return
	}
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	tok, err := h.Tokens.Issue(*session)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "issue token failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "token_failed", Err: err})
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, http.StatusOK, tok)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, tok.Token)
}

// cookieParams groups values for setCookie (≤3 params rule).
type cookieParams struct {
	Name   string
	Value  string
	MaxAge int
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, r *http.Request, p cookieParams) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    p.Value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   p.MaxAge,
	})
}

// clearCookie expires a cookie, mirroring the attributes used to set it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestScheme(r) == "https",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// safeRedirect accepts relative paths starting with a single "/" and absolute
// URLs pointing back at the request's host. Anything else becomes "/".
func safeRedirect(r *http.Request, candidate string) string {
	if candidate == "" {
		return defaultPostLoginTo
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return defaultPostLoginTo
	}
	if u.IsAbs() || u.Host != "" {
		if (u.Scheme == "http" || u.Scheme == "https") && u.Host == r.Host {
			return candidate
		}
		return defaultPostLoginTo
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") || strings.Contains(candidate, `\`) {
		return defaultPostLoginTo
	}
	return candidate
}
