package httpx

import (
	"context"
	"net/http"
	"time"

	domainauth "github.com/target/annotator-store/internal/domain/auth"
	"github.com/target/annotator-store/internal/domain/model"
	apperrors "github.com/target/annotator-store/internal/errors"
	"github.com/target/annotator-store/internal/ports"
	"github.com/target/annotator-store/internal/service"
)

// mockAuthService is a test double for service.AuthService.
type mockAuthService struct {
	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	sessions          map[string]domainauth.Session
	loggedOut         []string
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/authorize?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*domainauth.Session, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, input)
	}
	return &domainauth.Session{
		ID:        "test-session-id",
		UserID:    "test-user",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *mockAuthService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return &s, nil
}

func (m *mockAuthService) Logout(_ context.Context, sessionID string) error {
	m.loggedOut = append(m.loggedOut, sessionID)
	delete(m.sessions, sessionID)
	return nil
}

// stubTokens resolves tokens from a fixed table.
type stubTokens struct {
	disabled bool
	byToken  map[string]domainauth.Session
	issueErr error
}

func (s *stubTokens) Enabled() bool { return !s.disabled }

func (s *stubTokens) Issue(sess domainauth.Session) (*service.IssuedToken, error) {
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return &service.IssuedToken{Token: "tok-" + sess.ID, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *stubTokens) SessionFromToken(_ context.Context, raw string) (*domainauth.Session, error) {
	sess, ok := s.byToken[raw]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return &sess, nil
}

// stubSites is an in-memory SiteServiceInterface.
type stubSites struct {
	site      model.Site
	updateErr error
}

func (s *stubSites) Current() model.Site { return s.site }

func (s *stubSites) Domain() string { return s.site.Domain }

func (s *stubSites) Update(_ context.Context, req model.UpdateSiteRequest) (model.Site, error) {
	if s.updateErr != nil {
		return model.Site{}, s.updateErr
	}
	if err := req.Validate(); err != nil {
		return model.Site{}, apperrors.Validation(err.Error())
	}
	s.site.Domain = req.Domain
	if req.Name != "" {
		s.site.Name = req.Name
	}
	return s.site, nil
}

func testSession(id string, role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-" + id,
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// withUser attaches a user for the given role, or AnonymousUser for "".
func withUser(r *http.Request, role domainauth.Role) *http.Request {
	if role == "" {
		return r.WithContext(SetUserInContext(r.Context(), domainauth.AnonymousUser{}))
	}
	sess := testSession("s1", role)
	ctx := SetSessionInContext(r.Context(), &sess)
	ctx = SetUserInContext(ctx, domainauth.NewSessionUser(sess))
	return r.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
