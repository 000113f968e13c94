package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hongminglow/freelancer-be/internal/auth"
	"github.com/hongminglow/freelancer-be/internal/config"
	"github.com/hongminglow/freelancer-be/internal/http/handlers"
	"github.com/hongminglow/freelancer-be/internal/logging"
	"github.com/hongminglow/freelancer-be/internal/middleware"
	"github.com/hongminglow/freelancer-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, mailer auth.Mailer, logger logging.Logger) *Server {
	svc := auth.NewService(store, store, mailer, logger, &cfg)
	tokens := auth.NewTokenManager(cfg.AuthSecret, cfg.AuthIssuer, cfg.SessionTTL)
	cookies := auth.CookieConfig{Secure: cfg.SecureCookies(), TrustHost: cfg.TrustHost}
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, cfg.TrustHost)

	router := mux.NewRouter()
	handlers.NewHealthHandler(time.Now(), store).Register(router)
	handlers.NewAuthHandler(svc, tokens, cookies, limiter.Middleware, logger).Register(router)
	handlers.NewVerifyHandler(svc, logger).Register(router)
	handlers.NewSessionHandler(cookies).Register(router)
	handlers.NewPagesHandler(logger).Register(router)

	var handler http.Handler = middleware.Guard(tokens, cookies, logger, router)
	handler = middleware.SecureHeaders(handler)
	handler = middleware.Recovery(logger, handler)
	handler = middleware.Logging(logger, handler)
	handler = middleware.CORS(cfg.CORSOrigins, handler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler exposes the fully wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
