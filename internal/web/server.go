// Package web provides the HTTP server for the activist-base sync service:
// the training report page, JSON endpoints for reports and contacts, and
// the job trigger.
package web

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matehops/mateh/internal/config"
	"github.com/matehops/mateh/internal/sync"
	mw "github.com/matehops/mateh/internal/web/middleware"
)

// Server is the HTTP server over a sync.Service.
type Server struct {
	service *sync.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	// jobRunning is the single-flight guard: jobs scan whole tables, so
	// at most one runs at a time and concurrent triggers are rejected.
	jobRunning atomic.Bool
}

// NewServer creates a new Server instance.
func NewServer(service *sync.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleReportPage)

	// Liveness
	s.router.Get("/healthz", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// Reports
		r.Get("/trainings", s.handleTrainings)
		r.Get("/duplicates/{table}", s.handleDuplicates)

		// Jobs
		r.Get("/jobs", s.handleListJobs)

		// Contact export flow
		r.Get("/contacts/pending", s.handleContactsPending)
		r.Get("/contacts/export", s.handleContactsExport)

		// Mutating endpoints sit behind the API key (when configured)
		// and a tighter rate limit.
		r.Group(func(r chi.Router) {
			r.Use(mw.APIKeyAuth(&s.cfg.Security))
			if s.cfg.Rate.Enabled {
				jobLimiter := newRateLimiter(s.cfg.Rate.JobTriggerLimit, time.Minute)
				r.Use(jobLimiter.middleware)
			}

			r.Post("/jobs/{job}", s.handleRunJob)
			r.Post("/contacts/{uuid}/saved", s.handleMarkContactSaved)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if enableCSP {
				// Inline styles only; the report page carries its own <style>.
				w.Header().Set("Content-Security-Policy",
					"default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}

			next.ServeHTTP(w, r)
		})
	}
}
