package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hongminglow/freelancer-be/internal/auth"
	"github.com/hongminglow/freelancer-be/internal/logging"
	"github.com/hongminglow/freelancer-be/internal/models"
	"github.com/hongminglow/freelancer-be/internal/routes"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Title      string
	Session    *models.Session
	Verified   bool
	Registered bool
	Error      string
}

// PagesHandler renders the server-side pages behind the guard.
type PagesHandler struct {
	pages  map[string]*template.Template
	logger logging.Logger
}

func NewPagesHandler(logger logging.Logger) *PagesHandler {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"home", "auth", "dashboard"} {
		pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return &PagesHandler{pages: pages, logger: logger}
}

func (h *PagesHandler) Register(r *mux.Router) {
	r.HandleFunc(routes.Home, h.page("home", "Home")).Methods(http.MethodGet)
	r.HandleFunc(routes.AuthPage, h.page("auth", "Sign in")).Methods(http.MethodGet)
	r.HandleFunc(routes.DefaultLoginRedirect, h.page("dashboard", "Dashboard")).Methods(http.MethodGet)
}

func (h *PagesHandler) page(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := pageData{
			Title:      title,
			Verified:   q.Get("verified") == "true",
			Registered: q.Get("registered") == "true",
			Error:      q.Get("error"),
		}
		if s, ok := auth.SessionFromContext(r.Context()); ok {
			data.Session = &s
		}
		if name == "dashboard" && data.Session == nil {
			http.Redirect(w, r, routes.AuthPage, http.StatusTemporaryRedirect)
			return
		}

		var buf bytes.Buffer
		if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
			h.logger.Error(r.Context(), "render page", "page", name, "error", err)
			http.Error(w, "Something went wrong", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
