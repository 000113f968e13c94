package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hongminglow/freelancer-be/internal/models"
)

// SessionCookieName is the cookie holding the signed session token.
const SessionCookieName = "session-token"

// Claims is the session token payload.
type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTCallback projects an authorized user into token claims on first sign-in.
func JWTCallback(user models.User) Claims {
	return Claims{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// SessionCallback materializes the externally visible session from token claims.
func SessionCallback(claims Claims) models.Session {
	return models.Session{User: models.SessionUser{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}}
}

type sessionKey struct{}

// WithSession attaches session to ctx.
func WithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session attached by the route guard.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(models.Session)
	return session, ok
}

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Secure    bool
	TrustHost bool
}

func (c CookieConfig) secure(r *http.Request) bool {
	if c.Secure || r.TLS != nil {
		return true
	}
	return c.TrustHost && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// SetSessionCookie stores token on the client until expires.
func (c CookieConfig) SetSessionCookie(w http.ResponseWriter, r *http.Request, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session from the client.
func (c CookieConfig) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken returns the raw session token sent with r, if any.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
