package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/freelancer-be/internal/auth"
	"github.com/hongminglow/freelancer-be/internal/http/respond"
	"github.com/hongminglow/freelancer-be/internal/routes"
)

const (
	SessionPath = "/api/session"
	SignOutPath = "/api/signout"
)

// SessionHandler exposes the current session and signs users out.
type SessionHandler struct {
	cookies auth.CookieConfig
}

func NewSessionHandler(cookies auth.CookieConfig) *SessionHandler {
	return &SessionHandler{cookies: cookies}
}

func (h *SessionHandler) Register(r *mux.Router) {
	r.HandleFunc(SessionPath, h.handleSession).Methods(http.MethodGet)
	r.HandleFunc(SignOutPath, h.handleSignOut).Methods(http.MethodGet, http.MethodPost)
}

func (h *SessionHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respond.JSON(w, http.StatusOK, session)
}

// Sessions are stateless, so signing out only drops the cookie.
func (h *SessionHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSessionCookie(w, r)
	http.Redirect(w, r, routes.AuthPage, http.StatusSeeOther)
}
