// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/pixelpulse/internal/admin/dashboard"
	"github.com/taibuivan/pixelpulse/internal/blog/article"
	"github.com/taibuivan/pixelpulse/internal/blog/comment"
	"github.com/taibuivan/pixelpulse/internal/blog/taxonomy"
	"github.com/taibuivan/pixelpulse/internal/media/upload"
	"github.com/taibuivan/pixelpulse/internal/platform/config"
	"github.com/taibuivan/pixelpulse/internal/platform/constants"
	"github.com/taibuivan/pixelpulse/internal/platform/middleware"
	"github.com/taibuivan/pixelpulse/internal/site/contact"
	"github.com/taibuivan/pixelpulse/internal/site/settings"
	"github.com/taibuivan/pixelpulse/internal/users/account"
	"github.com/taibuivan/pixelpulse/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Auth      *auth.Handler
	Account   *account.Handler
	Taxonomy  *taxonomy.Handler
	Article   *article.Handler
	Comment   *comment.Handler
	Settings  *settings.Handler
	Contact   *contact.Handler
	Dashboard *dashboard.Handler
	Upload    *upload.Handler
}

// Limiters carries the two request budgets of the API.
type Limiters struct {
	// Global applies to every request.
	Global *middleware.RateLimiter

	// Strict guards credential and contact endpoints.
	Strict *middleware.RateLimiter
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// CORS runs ahead of the rate limiter and of Authenticate so that 429 and 401
// answers still carry the CORS headers a browser needs to read them.
func NewServer(
	cfg *config.Config,
	log *slog.Logger,
	proxies *middleware.ProxyTrust,
	verifier middleware.TokenVerifier,
	revocations middleware.RevocationChecker,
	limiters Limiters,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP(proxies))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.CORS(cfg, cfg.AllowedOrigins))
	r.Use(limiters.Global.Handler)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, revocations, cfg.IsProduction()))
	r.Use(chimw.CleanPath)

	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.MethodNotAllowed)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	strict := limiters.Strict.Handler

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes(strict))
		api.Mount("/me", h.Account.MeRoutes())

		api.Route("/categories", h.Taxonomy.RegisterCategoryRoutes)
		api.Route("/tags", h.Taxonomy.RegisterTagRoutes)

		api.Route("/articles", func(articles chi.Router) {
			h.Article.RegisterRoutes(articles)
			articles.Route("/{id}/comments", h.Comment.RegisterArticleRoutes)
		})
		api.Route("/comments", h.Comment.RegisterRoutes)

		api.Route("/settings", h.Settings.RegisterRoutes)
		api.Route("/contact", func(router chi.Router) {
			h.Contact.RegisterRoutes(router, strict)
		})
		api.Route("/uploads", h.Upload.RegisterRoutes)

		api.Route("/admin", func(admin chi.Router) {
			admin.Mount("/users", h.Account.AdminRoutes())
			admin.Mount("/comments", h.Comment.AdminRoutes())
			admin.Mount("/settings", h.Settings.AdminRoutes())
			admin.Mount("/contact", h.Contact.AdminRoutes())
			admin.Mount("/dashboard", h.Dashboard.AdminRoutes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the configured router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
