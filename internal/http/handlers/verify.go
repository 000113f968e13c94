package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/freelancer-be/internal/auth"
	"github.com/hongminglow/freelancer-be/internal/http/respond"
	"github.com/hongminglow/freelancer-be/internal/logging"
	"github.com/hongminglow/freelancer-be/internal/routes"
)

// VerifiedRedirect is where a successful verification lands.
const VerifiedRedirect = routes.AuthPage + "?verified=true"

// VerifyHandler serves the link embedded in verification emails.
type VerifyHandler struct {
	svc    *auth.Service
	logger logging.Logger
}

func NewVerifyHandler(svc *auth.Service, logger logging.Logger) *VerifyHandler {
	return &VerifyHandler{svc: svc, logger: logger}
}

func (h *VerifyHandler) Register(r *mux.Router) {
	r.HandleFunc(routes.VerifyEmail, h.handle).Methods(http.MethodGet)
}

func (h *VerifyHandler) handle(w http.ResponseWriter, r *http.Request) {
	err := h.svc.CompleteVerification(r.Context(), r.URL.Query().Get("token"))
	if err == nil {
		http.Redirect(w, r, VerifiedRedirect, http.StatusTemporaryRedirect)
		return
	}

	kind := auth.KindOf(err)
	if kind.Category() == auth.CategoryToken {
		respond.Text(w, http.StatusBadRequest, kind.Message())
		return
	}
	h.logger.Error(r.Context(), "complete verification", "error", err)
	respond.Text(w, http.StatusInternalServerError, auth.KindInternal.Message())
}
