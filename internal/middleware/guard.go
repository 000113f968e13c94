package middleware

import (
	"net/http"

	"github.com/hongminglow/freelancer-be/internal/auth"
	"github.com/hongminglow/freelancer-be/internal/logging"
	"github.com/hongminglow/freelancer-be/internal/routes"
)

// Guard gates every non-asset request on session presence.
//
// A signed-in visitor to the auth pages is sent to the dashboard; an anonymous
// visitor to anything outside the public allow-list is sent to the sign-in page.
// Valid sessions are attached to the request context and the cookie is re-issued
// once half of its lifetime has elapsed.
func Guard(tokens *auth.TokenManager, cookies auth.CookieConfig, logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if routes.IsStaticAsset(path) {
			next.ServeHTTP(w, r)
			return
		}

		claims, loggedIn := readSession(tokens, cookies, w, r)
		isAuthRoute := routes.IsAuthRoute(path)
		isPublic := isAuthRoute || routes.IsPublic(path)

		switch {
		case loggedIn && isAuthRoute:
			http.Redirect(w, r, routes.DefaultLoginRedirect, http.StatusTemporaryRedirect)
			return
		case !loggedIn && !isPublic:
			http.Redirect(w, r, routes.AuthPage, http.StatusTemporaryRedirect)
			return
		}

		if loggedIn {
			if tokens.NeedsRefresh(claims) {
				refresh(tokens, cookies, logger, w, r, claims)
			}
			r = r.WithContext(auth.WithSession(r.Context(), auth.SessionCallback(claims)))
		}
		next.ServeHTTP(w, r)
	})
}

func readSession(tokens *auth.TokenManager, cookies auth.CookieConfig, w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	raw := auth.SessionToken(r)
	if raw == "" {
		return auth.Claims{}, false
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		cookies.ClearSessionCookie(w, r)
		return auth.Claims{}, false
	}
	return claims, true
}

func refresh(tokens *auth.TokenManager, cookies auth.CookieConfig, logger logging.Logger, w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	signed, expires, err := tokens.Generate(auth.Claims{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
	if err != nil {
		logger.Warn(r.Context(), "refresh session token", "user_id", claims.UserID, "error", err)
		return
	}
	cookies.SetSessionCookie(w, r, signed, expires)
}
