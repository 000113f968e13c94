package auth

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/freelancer-be/internal/models"
)

func TestSessionCallbacks(t *testing.T) {
	user := models.User{ID: "u-1", Name: "Jane", Email: "jane@example.com", Role: models.RoleAdmin}

	session := SessionCallback(JWTCallback(user))
	assert.Equal(t, models.SessionUser{ID: "u-1", Email: "jane@example.com", Role: models.RoleAdmin}, session.User)
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	want := models.Session{User: models.SessionUser{ID: "u-1"}}
	got, ok := SessionFromContext(WithSession(context.Background(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSetSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	CookieConfig{}.SetSessionCookie(rec, req, "signed", time.Now().Add(time.Hour))

	c := responseCookie(t, rec)
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "signed", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Greater(t, c.MaxAge, 0)
}

func TestSessionCookieSecure(t *testing.T) {
	cases := map[string]struct {
		cfg   CookieConfig
		setup func(*http.Request)
		want  bool
	}{
		"configured":             {CookieConfig{Secure: true}, func(*http.Request) {}, true},
		"tls":                    {CookieConfig{}, func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, true},
		"trusted proxy":          {CookieConfig{TrustHost: true}, func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") }, true},
		"untrusted proxy header": {CookieConfig{}, func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") }, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)

			tc.cfg.SetSessionCookie(rec, req, "signed", time.Now().Add(time.Hour))
			assert.Equal(t, tc.want, responseCookie(t, rec).Secure)
		})
	}
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	CookieConfig{}.ClearSessionCookie(rec, httptest.NewRequest(http.MethodPost, "/api/signout", nil))

	c := responseCookie(t, rec)
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestSessionToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.Empty(t, SessionToken(req))

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "signed"})
	assert.Equal(t, "signed", SessionToken(req))
}
