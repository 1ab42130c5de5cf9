package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	SessionIDKey contextKey = "session_id"
	IdentityKey  contextKey = "identity"
)

const (
	SessionCookieName = "clinic_sid"
	AuthCookieName    = "clinic_auth"

	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// Identity is the logged-in user attached to a request.
type Identity struct {
	UserID   uuid.UUID
	Username string
	IsStaff  bool
	TokenID  string
}

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	sessionRepo repository.SessionRepository
	log         *logrus.Logger
	secure      bool
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessionRepo repository.SessionRepository, log *logrus.Logger, cfg config.SessionConfig) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		sessionRepo: sessionRepo,
		log:         log,
		secure:      cfg.SecureCookie,
	}
}

// Session gives every browser a session id cookie and, when a valid login cookie is present,
// attaches the user's Identity. Anonymous requests pass through untouched.
func (m *AuthMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if c, err := r.Cookie(SessionCookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sessionID = c.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			http.SetCookie(w, m.cookie(SessionCookieName, sessionID, sessionCookieMaxAge))
		}

		ctx := WithSessionID(r.Context(), sessionID)
		if identity, ok := m.authenticate(ctx, r); ok {
			ctx = WithIdentity(ctx, identity)
		} else if _, err := r.Cookie(AuthCookieName); err == nil {
			m.ClearAuthCookie(w)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(ctx context.Context, r *http.Request) (Identity, bool) {
	c, err := r.Cookie(AuthCookieName)
	if err != nil || c.Value == "" {
		return Identity{}, false
	}

	claims, err := m.jwtService.ValidateToken(c.Value)
	if err != nil {
		return Identity{}, false
	}

	// Check the login is still live (not logged out)
	exists, err := m.sessionRepo.LoginExists(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		m.log.Warnf("Failed to validate login session: %+v", err)
		return Identity{}, false
	}
	if !exists {
		return Identity{}, false
	}

	return Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		IsStaff:  claims.IsStaff,
		TokenID:  claims.TokenID,
	}, true
}

// RequireLogin redirects anonymous browsers to the login page, remembering where they were going.
func (m *AuthMiddleware) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentityFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginURL is the login page with next set to the given return path.
func LoginURL(next string) string {
	return "/login/?" + url.Values{"next": []string{next}}.Encode()
}

func (m *AuthMiddleware) SetAuthCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, m.cookie(AuthCookieName, token, ttl))
}

func (m *AuthMiddleware) ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(AuthCookieName, "", -1))
}

func (m *AuthMiddleware) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl.Seconds())
	}
	return c
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetSessionIDFromContext extracts the browser session id from context
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}

// GetIdentityFromContext extracts the logged-in user from context
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	return identity, ok
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := GetIdentityFromContext(ctx)
	return identity.UserID, ok
}
