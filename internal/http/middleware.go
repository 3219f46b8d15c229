package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/target/annotator-store/internal/domain/auth"
	"github.com/target/annotator-store/internal/observability/statsd"
	"github.com/target/annotator-store/internal/ports"
	"github.com/target/annotator-store/internal/service"
)

const (
	sessionCookieName = "session_id"
	// AuthTokenHeader carries an Annotator auth token.
	AuthTokenHeader = "X-Annotator-Auth-Token"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			info := &requestLogInfo{}
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), logInfoKey{}, info)))
			user := info.user
			if user == "" {
				user = UserFromContext(r.Context()).Username()
			}
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.String("user", user),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// requestLogInfo lets inner middleware report fields to Logging.
type requestLogInfo struct {
	user string
}

type logInfoKey struct{}

type respWriter struct {
	http.ResponseWriter
	status int
}

// Metrics returns a middleware that times requests, tagged by method and status class.
func Metrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			sink.Timing("http.request", time.Since(start), map[string]string{
				"method": r.Method,
				"status": strconv.Itoa(ww.status/100) + "xx",
			})
		})
	}
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver resolves a session cookie value to a live session.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// TokenResolver resolves an Annotator auth token to its session.
type TokenResolver interface {
	Enabled() bool
	SessionFromToken(ctx context.Context, raw string) (*domainauth.Session, error)
}

// LoadUserOptions groups the resolvers used by LoadUser.
type LoadUserOptions struct {
	Sessions SessionResolver
	Tokens   TokenResolver // optional
	Logger   *slog.Logger
}

// LoadUser attaches the request's user to the context. An auth token header
// wins over the session cookie. Requests without valid credentials continue
// as AnonymousUser; guards decide what they may reach.
func LoadUser(opts LoadUserOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := resolveSession(r, opts, logger)
			ctx := r.Context()
			if sess != nil {
				ctx = SetSessionInContext(ctx, sess)
				ctx = SetUserInContext(ctx, domainauth.NewSessionUser(*sess))
				if info, ok := ctx.Value(logInfoKey{}).(*requestLogInfo); ok {
					info.user = sess.UserID
				}
			} else {
				ctx = SetUserInContext(ctx, domainauth.AnonymousUser{})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSession(r *http.Request, opts LoadUserOptions, logger *slog.Logger) *domainauth.Session {
	if raw := r.Header.Get(AuthTokenHeader); raw != "" && opts.Tokens != nil && opts.Tokens.Enabled() {
		sess, err := opts.Tokens.SessionFromToken(r.Context(), raw)
		if err == nil {
			return sess
		}
		logger.DebugContext(r.Context(), "auth token rejected", "error", err)
	}

	if opts.Sessions == nil {
		return nil
	}
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	sess, err := opts.Sessions.GetSession(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, ports.ErrSessionNotFound) && !errors.Is(err, service.ErrSessionExpired) {
			logger.WarnContext(r.Context(), "session lookup failed", "error", err)
		}
		return nil
	}
	return sess
}

// ProxyHeaders honours X-Forwarded-Proto only when trust is set, i.e. when the
// service runs behind a proxy that overwrites the header. Otherwise the
// header is ignored and the scheme comes from the connection alone.
func ProxyHeaders(trust bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !trust {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https") {
				r = r.WithContext(withForwardedHTTPS(r.Context()))
			}
			next.ServeHTTP(w, r)
		})
	}
}
