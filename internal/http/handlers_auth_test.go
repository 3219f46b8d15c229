package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/annotator-store/internal/domain/auth"
	"github.com/target/annotator-store/internal/service"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login(t *testing.T) {
	var gotRedirect string
	svc := &mockAuthService{
		beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			gotRedirect = redirectURL
			return &service.BeginLoginResult{AuthURL: "https://idp.example.com/authorize", State: "st", Nonce: "nc"}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?next=/items/5", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/authorize", rec.Header().Get("Location"))
	assert.Equal(t, "/items/5", gotRedirect)
	require.NotNil(t, findCookie(rec, stateCookieName))
	assert.Equal(t, "st", findCookie(rec, stateCookieName).Value)
	assert.Equal(t, "nc", findCookie(rec, nonceCookieName).Value)
	assert.Equal(t, "/items/5", findCookie(rec, postLoginCookie).Value)
}

func TestAuthHandlers_Login_UnsafeNextFallsBackToRoot(t *testing.T) {
	for _, next := range []string{"https://evil.example/", "//evil.example/x", "/\\evil.example", "javascript:alert(1)"} {
		h := &AuthHandlers{Svc: &mockAuthService{}}
		req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
		q := req.URL.Query()
		q.Set("next", next)
		req.URL.RawQuery = q.Encode()
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, "/", findCookie(rec, postLoginCookie).Value, next)
	}
}

func TestAuthHandlers_Login_SameHostAbsoluteNextAllowed(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}, RedirectField: "return_to"}
	req := httptest.NewRequest(http.MethodGet, "http://example.com/auth/login?return_to=https://example.com/items/5", nil)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, "https://example.com/items/5", findCookie(rec, postLoginCookie).Value)
}

func TestAuthHandlers_Login_ServiceError(t *testing.T) {
	svc := &mockAuthService{
		beginLoginFunc: func(context.Context, string) (*service.BeginLoginResult, error) {
			return nil, errors.New("idp down")
		},
	}
	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: svc}).Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func callbackRequest(state string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state="+state, nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "st"})
	req.AddCookie(&http.Cookie{Name: nonceCookieName, Value: "nc"})
	req.AddCookie(&http.Cookie{Name: postLoginCookie, Value: "/items/5"})
	return req
}

func TestAuthHandlers_Callback(t *testing.T) {
	var got service.CompleteLoginInput
	svc := &mockAuthService{
		completeLoginFunc: func(_ context.Context, in service.CompleteLoginInput) (*domainauth.Session, error) {
			got = in
			s := testSession("new-session", domainauth.RoleUser)
			return &s, nil
		},
	}
	rec := httptest.NewRecorder()

	(&AuthHandlers{Svc: svc}).Callback(rec, callbackRequest("st"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/items/5", rec.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "abc", State: "st", Nonce: "nc"}, got)
	sc := findCookie(rec, sessionCookieName)
	require.NotNil(t, sc)
	assert.Equal(t, "new-session", sc.Value)
	assert.True(t, sc.HttpOnly)
	assert.Positive(t, sc.MaxAge)
	assert.Equal(t, -1, findCookie(rec, stateCookieName).MaxAge)
}

func TestAuthHandlers_Callback_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		req      *http.Request
		wantCode string
	}{
		{
			name:     "missing code",
			req:      httptest.NewRequest(http.MethodGet, "/auth/callback?state=st", nil),
			wantCode: "missing_code",
		},
		{
			name:     "missing state",
			req:      httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc", nil),
			wantCode: "missing_state",
		},
		{
			name:     "state mismatch",
			req:      callbackRequest("forged"),
			wantCode: "invalid_state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			(&AuthHandlers{Svc: &mockAuthService{}}).Callback(rec, tt.req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, rec)["error"])
		})
	}
}

func TestAuthHandlers_Callback_ExchangeFailure(t *testing.T) {
	svc := &mockAuthService{
		completeLoginFunc: func(context.Context, service.CompleteLoginInput) (*domainauth.Session, error) {
			return nil, errors.New("nonce mismatch")
		},
	}
	rec := httptest.NewRecorder()

	(&AuthHandlers{Svc: svc}).Callback(rec, callbackRequest("st"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(rec, sessionCookieName))
}

func TestAuthHandlers_Logout(t *testing.T) {
	svc := &mockAuthService{sessions: map[string]domainauth.Session{"abc": testSession("abc", domainauth.RoleUser)}}
	h := &AuthHandlers{Svc: svc}

	t.Run("browser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout?next=/bye", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "abc"})
		rec := httptest.NewRecorder()

		h.Logout(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/bye", rec.Header().Get("Location"))
		assert.Equal(t, -1, findCookie(rec, sessionCookieName).MaxAge)
		assert.Equal(t, []string{"abc"}, svc.loggedOut)
	})

	t.Run("ajax", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(""))
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()

		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "/", body["redirect_to"])
	})
}

func TestAuthHandlers_Status(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Status(rec, withUser(httptest.NewRequest(http.MethodGet, "/auth/status", nil), domainauth.RoleAdmin))
	var body struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	assert.Equal(t, "user-s1", body.User.ID)
	assert.Equal(t, "admin", body.User.Role)
}

func TestAuthHandlers_Token(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}, Tokens: &stubTokens{}}

	t.Run("plain text for annotator", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Token(rec, withUser(httptest.NewRequest(http.MethodGet, "/auth/token", nil), domainauth.RoleUser))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok-s1", rec.Body.String())
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("json on request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/token", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.Token(rec, withUser(req, domainauth.RoleUser))

		var tok service.IssuedToken
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
		assert.Equal(t, "tok-s1", tok.Token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)
	})

	t.Run("disabled", func(t *testing.T) {
		disabled := &AuthHandlers{Svc: &mockAuthService{}, Tokens: &stubTokens{disabled: true}}
		rec := httptest.NewRecorder()
		disabled.Token(rec, withUser(httptest.NewRequest(http.MethodGet, "/auth/token", nil), domainauth.RoleUser))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
