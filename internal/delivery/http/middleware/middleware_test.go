package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/testutil"
	"clinic-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthMiddleware(t *testing.T) (*AuthMiddleware, *jwt.JWTService, *testutil.FakeSessionRepository) {
	t.Helper()
	cfg := config.SessionConfig{Secret: "middleware-secret", TTL: time.Hour}
	jwtService := jwt.NewJWTService(cfg)
	sessions := testutil.NewFakeSessionRepository()
	return NewAuthMiddleware(jwtService, sessions, testutil.NewLogger(), cfg), jwtService, sessions
}

// capture records the identity the wrapped handler saw.
type capture struct {
	sessionID string
	identity  Identity
	loggedIn  bool
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.sessionID, _ = GetSessionIDFromContext(r.Context())
		c.identity, c.loggedIn = GetIdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSession_IssuesSessionCookie(t *testing.T) {
	m, _, _ := newTestAuthMiddleware(t)
	var c capture

	rec := httptest.NewRecorder()
	m.Session(c.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookie := findCookie(rec, SessionCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, cookie.Value, c.sessionID)
	assert.False(t, c.loggedIn)
}

func TestSession_ReusesValidSessionCookie(t *testing.T) {
	m, _, _ := newTestAuthMiddleware(t)
	var c capture
	sid := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sid})
	rec := httptest.NewRecorder()
	m.Session(c.handler()).ServeHTTP(rec, req)

	assert.Nil(t, findCookie(rec, SessionCookieName))
	assert.Equal(t, sid, c.sessionID)

	// A tampered id is replaced
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})
	rec = httptest.NewRecorder()
	m.Session(c.handler()).ServeHTTP(rec, req)

	require.NotNil(t, findCookie(rec, SessionCookieName))
	assert.NotEqual(t, "not-a-uuid", c.sessionID)
}

func TestSession_AttachesLiveLogin(t *testing.T) {
	m, jwtService, sessions := newTestAuthMiddleware(t)
	userID := uuid.New()
	token, tokenID, err := jwtService.GenerateSessionToken(userID, "alice", false)
	require.NoError(t, err)
	require.NoError(t, sessions.SaveLogin(context.Background(), userID, tokenID, time.Hour))

	var c capture
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
	m.Session(c.handler()).ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, c.loggedIn)
	assert.Equal(t, userID, c.identity.UserID)
	assert.Equal(t, "alice", c.identity.Username)
	assert.Equal(t, tokenID, c.identity.TokenID)

	// After logout the same token no longer authenticates and the cookie is cleared
	require.NoError(t, sessions.DeleteLogin(context.Background(), userID, tokenID))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
	rec := httptest.NewRecorder()
	m.Session(c.handler()).ServeHTTP(rec, req)

	assert.False(t, c.loggedIn)
	cleared := findCookie(rec, AuthCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestRequireLogin_RedirectsWithNext(t *testing.T) {
	m, _, _ := newTestAuthMiddleware(t)
	var c capture

	rec := httptest.NewRecorder()
	m.RequireLogin(c.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/?page=2", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/?next=%2Fsearch%2F%3Fpage%3D2", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/search/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: uuid.New()}))
	rec = httptest.NewRecorder()
	m.RequireLogin(c.handler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireStaff(t *testing.T) {
	var c capture
	h := RequireStaff(c.handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/doctors", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	for staff, want := range map[bool]int{false: http.StatusForbidden, true: http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/admin/doctors", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: uuid.New(), IsStaff: staff}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "staff=%v", staff)
	}
}

func corsRequest(method, origin string) *http.Request {
	req := httptest.NewRequest(method, "/admin/appointments", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestCORS_ListedOrigin(t *testing.T) {
	var c capture
	h := NewCORSMiddleware([]string{"https://admin.clinic.test"}).Handle(c.handler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, corsRequest(http.MethodOptions, "https://admin.clinic.test"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.clinic.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, corsRequest(http.MethodGet, "https://evil.example"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_EmptyListIsSameOriginOnly(t *testing.T) {
	var c capture
	for _, origins := range [][]string{nil, {}} {
		h := NewCORSMiddleware(origins).Handle(c.handler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, corsRequest(http.MethodGet, "https://evil.example"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestCORS_WildcardNeverAllowsCredentials(t *testing.T) {
	var c capture
	h := NewCORSMiddleware([]string{"*"}).Handle(c.handler())

	for _, method := range []string{http.MethodOptions, http.MethodGet} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, corsRequest(method, "https://evil.example"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), method)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"), method)
	}

	// An explicitly listed origin next to "*" still gets credentials
	h = NewCORSMiddleware([]string{"*", "https://admin.clinic.test"}).Handle(c.handler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, corsRequest(http.MethodGet, "https://admin.clinic.test"))
	assert.Equal(t, "https://admin.clinic.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
