package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/target/annotator-store/internal/domain/auth"
	apperrors "github.com/target/annotator-store/internal/errors"
	"github.com/target/annotator-store/internal/observability/statsd"
)

// ErrPermissionDenied is handed to the forbidden handler when an
// authenticated user fails a guard.
var ErrPermissionDenied = apperrors.PermissionDenied("permission denied")

// Predicate decides whether a user may proceed.
type Predicate func(domainauth.User) bool

// Outcome is what a guard does with a request.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeForbidden
	OutcomeUnauthorized
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating a guard against a request.
type Decision struct {
	Outcome  Outcome
	Location string // set for OutcomeRedirect
}

const (
	DefaultLoginURL          = "/auth/login"
	DefaultRedirectFieldName = "next"
	notAuthorizedBody        = "Not Authorized"
)

// AccessControl builds guards that protect handlers with a predicate.
type AccessControl struct {
	LoginURL          string
	RedirectFieldName string
	// Forbidden renders the response for authenticated users who fail a guard.
	Forbidden func(w http.ResponseWriter, r *http.Request, err error)
	Logger    *slog.Logger
	Metrics   statsd.Sink // optional
}

// GuardOption customizes an AccessControl.
type GuardOption func(*AccessControl)

// WithLoginURL sets the URL anonymous users are sent to.
func WithLoginURL(u string) GuardOption {
	return func(a *AccessControl) {
		if u != "" {
			a.LoginURL = u
		}
	}
}

// WithRedirectField sets the query parameter that carries the return path.
func WithRedirectField(name string) GuardOption {
	return func(a *AccessControl) {
		if name != "" {
			a.RedirectFieldName = name
		}
	}
}

// WithForbiddenHandler replaces the default 403 renderer.
func WithForbiddenHandler(h func(w http.ResponseWriter, r *http.Request, err error)) GuardOption {
	return func(a *AccessControl) {
		if h != nil {
			a.Forbidden = h
		}
	}
}

// WithMetrics counts guard outcomes on sink.
func WithMetrics(sink statsd.Sink) GuardOption {
	return func(a *AccessControl) {
		a.Metrics = sink
	}
}

// NewAccessControl returns an AccessControl with defaults applied.
func NewAccessControl(logger *slog.Logger, opts ...GuardOption) *AccessControl {
	if logger == nil {
		logger = slog.Default()
	}
	a := &AccessControl{
		LoginURL:          DefaultLoginURL,
		RedirectFieldName: DefaultRedirectFieldName,
		Forbidden:         defaultForbidden,
		Logger:            logger.With("component", "access_control"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Decide evaluates test for the request's user.
//
// A passing user is allowed. An authenticated user who fails is forbidden,
// never redirected to log in again. Anonymous AJAX callers get a bare 401
// and everyone else is redirected to the login URL with a return path.
func (a *AccessControl) Decide(r *http.Request, test Predicate) Decision {
	user := UserFromContext(r.Context())
	if test(user) {
		return Decision{Outcome: OutcomeAllow}
	}
	if user.IsAuthenticated() {
		return Decision{Outcome: OutcomeForbidden}
	}
	if IsAJAX(r) {
		return Decision{Outcome: OutcomeUnauthorized}
	}
	return Decision{Outcome: OutcomeRedirect, Location: a.loginRedirect(r)}
}

// loginRedirect builds the login URL carrying the return path. The path is
// relative when the login URL lives on the same scheme and host as the
// request, absolute otherwise.
func (a *AccessControl) loginRedirect(r *http.Request) string {
	login, err := url.Parse(a.LoginURL)
	if err != nil {
		a.Logger.Warn("invalid login url", "login_url", a.LoginURL, "error", err)
		login = &url.URL{Path: DefaultLoginURL}
	}

	next := absoluteURI(r)
	if (login.Scheme == "" || login.Scheme == requestScheme(r)) &&
		(login.Host == "" || login.Host == r.Host) {
		next = r.URL.RequestURI()
	}

	q := login.Query()
	q.Set(a.RedirectFieldName, next)
	// "/" stays literal so the return path reads as ?next=/items/5.
	login.RawQuery = strings.ReplaceAll(q.Encode(), "%2F", "/")
	return login.String()
}

// with returns a copy of a with per-guard options applied.
func (a *AccessControl) with(opts []GuardOption) *AccessControl {
	if len(opts) == 0 {
		return a
	}
	c := *a
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// UserPassesTest wraps next so it only runs for users satisfying test.
// Options override the login URL or redirect field for this guard only.
func (a *AccessControl) UserPassesTest(test Predicate, opts ...GuardOption) func(http.Handler) http.Handler {
	a = a.with(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := a.Decide(r, test)
			if a.Metrics != nil {
				a.Metrics.Count("access.decision", 1, map[string]string{"outcome": d.Outcome.String()})
			}
			switch d.Outcome {
			case OutcomeAllow:
				next.ServeHTTP(w, r)
			case OutcomeForbidden:
				a.Logger.Info("access denied",
					"path", r.URL.Path,
					"user", UserFromContext(r.Context()).Username())
				a.Forbidden(w, r, ErrPermissionDenied)
			case OutcomeUnauthorized:
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, notAuthorizedBody)
			default:
				http.Redirect(w, r, d.Location, http.StatusFound)
			}
		})
	}
}

// LoginRequired allows any authenticated user.
func (a *AccessControl) LoginRequired(opts ...GuardOption) func(http.Handler) http.Handler {
	return a.UserPassesTest(domainauth.User.IsAuthenticated, opts...)
}

// PermissionRequired allows users holding perm.
func (a *AccessControl) PermissionRequired(perm domainauth.Permission, opts ...GuardOption) func(http.Handler) http.Handler {
	return a.UserPassesTest(func(u domainauth.User) bool { return u.HasPerm(perm) }, opts...)
}

func defaultForbidden(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = ErrPermissionDenied
	}
	if wantsJSON(r) {
		WriteAppError(w, err)
		return
	}
	msg := http.StatusText(http.StatusForbidden)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		msg = appErr.Message
	}
	http.Error(w, msg, http.StatusForbidden)
}
