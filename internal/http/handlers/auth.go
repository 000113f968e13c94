package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/hongminglow/freelancer-be/internal/auth"
	"github.com/hongminglow/freelancer-be/internal/http/respond"
	"github.com/hongminglow/freelancer-be/internal/logging"
	"github.com/hongminglow/freelancer-be/internal/models/dto"
	"github.com/hongminglow/freelancer-be/internal/routes"
)

const registeredMessage = "Registration successful! Please check your email to verify your account."

// AuthHandler owns the credential and registration endpoints.
type AuthHandler struct {
	svc     *auth.Service
	tokens  *auth.TokenManager
	cookies auth.CookieConfig
	limit   func(http.Handler) http.Handler
	logger  logging.Logger
}

// NewAuthHandler constructs the handler. limit wraps the credential endpoints; nil disables it.
func NewAuthHandler(svc *auth.Service, tokens *auth.TokenManager, cookies auth.CookieConfig, limit func(http.Handler) http.Handler, logger logging.Logger) *AuthHandler {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &AuthHandler{svc: svc, tokens: tokens, cookies: cookies, limit: limit, logger: logger}
}

// Register attaches auth routes to r.
func (h *AuthHandler) Register(r *mux.Router) {
	r.Handle(routes.AuthPrefix+"/login", h.limit(http.HandlerFunc(h.handleLogin))).Methods(http.MethodPost)
	r.Handle(routes.AuthPrefix+"/register", h.limit(http.HandlerFunc(h.handleRegister))).Methods(http.MethodPost)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	form, err := decodeInput(r, &req, func(get func(string) string) {
		req.Email = get("email")
		req.Password = get("password")
	})
	if err != nil {
		respond.Error(w, http.StatusBadRequest, auth.KindInvalidCredentialsFormat.Message())
		return
	}

	user, err := h.svc.Authorize(r.Context(), req)
	if err != nil {
		h.writeError(w, r, form, err)
		return
	}

	claims := auth.JWTCallback(user)
	signed, expires, err := h.tokens.Generate(claims)
	if err != nil {
		h.writeError(w, r, form, err)
		return
	}
	h.cookies.SetSessionCookie(w, r, signed, expires)
	if form {
		http.Redirect(w, r, routes.DefaultLoginRedirect, http.StatusSeeOther)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Result{Success: true, User: auth.SessionCallback(claims).User})
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	form, err := decodeInput(r, &req, func(get func(string) string) {
		req.Name = get("name")
		req.Email = get("email")
		req.Password = get("password")
		req.ConfirmPassword = get("confirmPassword")
	})
	if err != nil {
		respond.Error(w, http.StatusBadRequest, auth.KindValidation.Message())
		return
	}

	if _, err := h.svc.Register(r.Context(), req); err != nil {
		h.writeError(w, r, form, err)
		return
	}
	if form {
		redirectToAuthPage(w, r, url.Values{"registered": {"true"}})
		return
	}
	respond.JSON(w, http.StatusCreated, respond.Result{Success: true, Message: registeredMessage})
}

// writeError answers API callers with JSON; browser form posts are sent back
// to the sign-in page with the message in the query.
func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, form bool, err error) {
	kind := auth.KindOf(err)
	if kind == auth.KindInternal {
		h.logger.Error(r.Context(), "auth request failed", "path", r.URL.Path, "error", err)
	}
	if form {
		redirectToAuthPage(w, r, url.Values{"error": {kind.Message()}})
		return
	}
	if kind == auth.KindValidation {
		respond.FieldErrors(w, statusFor(kind), kind.Message(), auth.FieldsOf(err))
		return
	}
	respond.Error(w, statusFor(kind), kind.Message())
}

func statusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindValidation, auth.KindInvalidCredentialsFormat:
		return http.StatusBadRequest
	case auth.KindNoUserFound, auth.KindIncorrectPassword:
		return http.StatusUnauthorized
	case auth.KindEmailNotVerified:
		return http.StatusForbidden
	case auth.KindUserAlreadyExists:
		return http.StatusConflict
	case auth.KindTokenNotFound, auth.KindTokenExpired, auth.KindAlreadyVerified:
		return http.StatusBadRequest
	case auth.KindEmailDeliveryFailed:
		return http.StatusBadGateway
	case auth.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

const maxBodyBytes = 1 << 16

// decodeInput reads a JSON body into v, or falls back to form values via fill.
// It reports whether the body was a form.
func decodeInput(r *http.Request, v any, fill func(get func(string) string)) (bool, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return false, json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v)
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return true, err
	}
	fill(r.PostForm.Get)
	return true, nil
}

func redirectToAuthPage(w http.ResponseWriter, r *http.Request, query url.Values) {
	http.Redirect(w, r, routes.AuthPage+"?"+query.Encode(), http.StatusSeeOther)
}
