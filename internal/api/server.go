package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/movie-catalog/internal/audit"
	"github.com/nerrad567/movie-catalog/internal/auth"
	"github.com/nerrad567/movie-catalog/internal/catalog"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/config"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/database"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	Logger  *logging.Logger
	DB      *database.DB
	Catalog *catalog.Services
	Users   *auth.UserService
	Auth    *auth.AuthService
	Gate    *auth.Gate

	// Audit records catalog and account writes. Optional.
	Audit *audit.SQLiteRepository

	// Registry receives the HTTP collectors and backs /metrics. When nil,
	// no metrics are recorded and /metrics is not served.
	Registry *prometheus.Registry

	Version string
}

// Server is the HTTP API server for the movie catalog.
//
// It owns the router and the HTTP listener. The server is created with New()
// and started with Start().
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	db       *database.DB
	catalog  *catalog.Services
	users    *auth.UserService
	auth     *auth.AuthService
	gate     *auth.Gate
	audit    *audit.SQLiteRepository
	registry *prometheus.Registry
	metrics  *httpMetrics
	version  string

	router http.Handler
	server *http.Server
}

// New creates a new API server with the given dependencies.
//
// The router is built immediately so Handler() is usable without starting a
// listener. The server does not accept connections until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog services are required")
	}
	if deps.Users == nil || deps.Auth == nil || deps.Gate == nil {
		return nil, fmt.Errorf("auth services are required")
	}

	s := &Server{
		cfg:      deps.Config,
		logger:   deps.Logger.With("component", "api"),
		db:       deps.DB,
		catalog:  deps.Catalog,
		users:    deps.Users,
		auth:     deps.Auth,
		gate:     deps.Gate,
		audit:    deps.Audit,
		registry: deps.Registry,
		version:  deps.Version,
	}

	if deps.Registry != nil {
		s.metrics = newHTTPMetrics()
		if err := s.metrics.register(deps.Registry); err != nil {
			return nil, fmt.Errorf("registering http metrics: %w", err)
		}
	}

	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener and serves HTTP in a background goroutine.
// A bind failure, such as the port already being in use, is returned.
// The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.server = &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ServeTLS(ln, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and its database responds.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("api health check: %w", err)
		}
	}
	return nil
}
