package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/target/annotator-store/internal/domain/auth"
)

var (
	// ErrTokensDisabled is returned when no signing secret is configured.
	ErrTokensDisabled = errors.New("auth tokens are not configured")
	// ErrInvalidToken covers malformed, expired, foreign and orphaned tokens.
	ErrInvalidToken = errors.New("invalid auth token")
)

// SessionReader resolves a session ID to a live session.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// TokenConfig configures Annotator auth tokens.
type TokenConfig struct {
	ConsumerKey string
	Secret      []byte
	TTL         time.Duration
}

// TokenServiceOptions groups dependencies for TokenService.
type TokenServiceOptions struct {
	Config   TokenConfig
	Sessions SessionReader
	Now      func() time.Time // defaults to time.Now
}

// TokenService issues and verifies the HS256 tokens consumed by the
// Annotator.js Auth plugin. A token is a signed pointer to a server-side
// session, so logging out revokes it.
type TokenService struct {
	cfg      TokenConfig
	sessions SessionReader
	now      func() time.Time
}

// AnnotatorClaims is the token payload. Field names follow the Annotator Auth plugin.
type AnnotatorClaims struct {
	ConsumerKey string `json:"consumerKey"`
	UserID      string `json:"userId"`
	IssuedAt    string `json:"issuedAt"`
	TTL         int64  `json:"ttl"`
	SessionID   string `json:"sid"`
	jwt.RegisteredClaims
}

// IssuedToken is what GET /auth/token returns.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewTokenService constructs a TokenService.
func NewTokenService(opts TokenServiceOptions) *TokenService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &TokenService{cfg: opts.Config, sessions: opts.Sessions, now: now}
}

// Enabled reports whether tokens can be issued.
func (t *TokenService) Enabled() bool {
	return t != nil && len(t.cfg.Secret) > 0
}

// Issue signs a token for sess. The token never outlives the session.
func (t *TokenService) Issue(sess domainauth.Session) (*IssuedToken, error) {
	if !t.Enabled() {
		return nil, ErrTokensDisabled
	}

	now := t.now().UTC().Truncate(time.Second)
	exp := now.Add(t.cfg.TTL)
	if sess.ExpiresAt.Before(exp) {
		exp = sess.ExpiresAt.UTC().Truncate(time.Second)
	}
	if !exp.After(now) {
		return nil, ErrSessionExpired
	}

	claims := AnnotatorClaims{
		ConsumerKey: t.cfg.ConsumerKey,
		UserID:      sess.UserID,
		IssuedAt:    now.Format(time.RFC3339),
		TTL:         int64(exp.Sub(now) / time.Second),
		SessionID:   sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &IssuedToken{Token: signed, ExpiresAt: exp}, nil
}

// SessionFromToken verifies raw and returns the session it points at.
func (t *TokenService) SessionFromToken(ctx context.Context, raw string) (*domainauth.Session, error) {
	if !t.Enabled() {
		return nil, ErrTokensDisabled
	}

	var claims AnnotatorClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return t.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.ConsumerKey != t.cfg.ConsumerKey {
		return nil, fmt.Errorf("%w: unknown consumer %q", ErrInvalidToken, claims.ConsumerKey)
	}

	sess, err := t.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if sess.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: session user mismatch", ErrInvalidToken)
	}
	return sess, nil
}
