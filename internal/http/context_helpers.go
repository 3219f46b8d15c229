package httpx

import (
	"context"

	domainauth "github.com/target/annotator-store/internal/domain/auth"
)

// Unexported context key types avoid collisions across packages.
type (
	sessionKey        struct{}
	userKey           struct{}
	forwardedHTTPSKey struct{}
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session attached by LoadUser, if any.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	return session, ok && session != nil
}

// SetUserInContext returns a child context carrying user.
func SetUserInContext(ctx context.Context, user domainauth.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the request's user, or AnonymousUser when none was attached.
func UserFromContext(ctx context.Context) domainauth.User {
	if u, ok := ctx.Value(userKey{}).(domainauth.User); ok && u != nil {
		return u
	}
	return domainauth.AnonymousUser{}
}

func withForwardedHTTPS(ctx context.Context) context.Context {
	return context.WithValue(ctx, forwardedHTTPSKey{}, true)
}

func forwardedHTTPS(ctx context.Context) bool {
	v, _ := ctx.Value(forwardedHTTPSKey{}).(bool)
	return v
}
