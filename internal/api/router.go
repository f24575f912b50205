package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/movie-catalog/internal/auth"
	"github.com/nerrad567/movie-catalog/internal/catalog"
)

// healthCheckTimeout bounds the database ping behind /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	if s.metrics != nil {
		r.Use(s.metricsMiddleware)
	}
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Unauthenticated endpoints
	r.Get("/health", s.handleHealth)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", s.handleMetrics())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/", s.handleLogin)
		r.Put("/", s.handleRefresh)
	})

	directors := &resource[catalog.Director]{
		server: s, name: "director", path: "/directors",
		svc: s.catalog.Directors, id: catalog.DirectorSchema.ID,
		read: auth.RequireAuthenticated, write: auth.RequireCatalogManage,
	}
	genres := &resource[catalog.Genre]{
		server: s, name: "genre", path: "/genres",
		svc: s.catalog.Genres, id: catalog.GenreSchema.ID,
		read: auth.RequireAuthenticated, write: auth.RequireCatalogManage,
	}
	movies := &resource[catalog.Movie]{
		server: s, name: "movie", path: "/movies",
		svc: s.catalog.Movies, id: catalog.MovieSchema.ID,
		list: s.listMovies,
		read: auth.RequireAuthenticated, write: auth.RequireCatalogManage,
	}
	users := &resource[auth.User]{
		server: s, name: "user", path: "/users",
		svc: s.users, id: auth.UserSchema.ID,
		read: auth.RequireUserManage, write: auth.RequireUserManage,
	}

	r.Route("/directors", directors.routes)
	r.Route("/genres", genres.routes)
	r.Route("/movies", movies.routes)
	r.Route("/users", users.routes)

	if s.audit != nil {
		r.Route("/audit", func(r chi.Router) {
			r.With(s.require(auth.RequireUserManage)).Get("/", s.handleListAudit)
		})
	}

	return r
}

// handleHealth returns the server health status. It answers 503 when the
// database does not respond.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.db.HealthCheck(ctx); err != nil {
			s.logger.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "unavailable",
				"version": s.version,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
