package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nerrad567/movie-catalog/internal/api"
	"github.com/nerrad567/movie-catalog/internal/audit"
	"github.com/nerrad567/movie-catalog/internal/auth"
	"github.com/nerrad567/movie-catalog/internal/catalog"
	"github.com/nerrad567/movie-catalog/internal/crud"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/config"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/database"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
)

// healthCheckTimeout bounds the startup health check.
const healthCheckTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Open the database, apply pending migrations, create the initial admin
account if no users exist, and serve the API until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe is the serve logic, separated from the command for testability.
// It returns nil on clean shutdown.
func runServe(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info("starting moviecatalog",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	a, err := newApp(cfg, db, log)
	if err != nil {
		return err
	}

	if _, seedErr := auth.SeedAdmin(ctx, a.users, log, os.Stderr); seedErr != nil {
		return fmt.Errorf("seeding admin: %w", seedErr)
	}

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		DB:       db,
		Catalog:  a.catalog,
		Users:    a.users,
		Auth:     a.auth,
		Gate:     a.gate,
		Audit:    audit.NewSQLiteRepository(db.DB),
		Registry: a.registry,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	healthCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if healthErr := server.HealthCheck(healthCtx); healthErr != nil {
		return fmt.Errorf("startup health check: %w", healthErr)
	}

	log.Info("moviecatalog ready",
		"address", server.Addr(),
		"metrics", cfg.Metrics.Enabled,
	)

	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// app holds the services shared by serve and the account commands.
type app struct {
	catalog  *catalog.Services
	users    *auth.UserService
	auth     *auth.AuthService
	gate     *auth.Gate
	registry *prometheus.Registry
}

// newApp wires storage, auth and metrics from cfg.
func newApp(cfg *config.Config, db *database.DB, log *logging.Logger) (*app, error) {
	hasher, err := auth.NewPasswordHasher(cfg.Security.Password)
	if err != nil {
		return nil, fmt.Errorf("configuring password hashing: %w", err)
	}
	tokens, err := auth.NewTokenService(cfg.Security.JWT)
	if err != nil {
		return nil, fmt.Errorf("configuring tokens: %w", err)
	}

	a := &app{
		catalog: catalog.NewServices(db.DB, log),
		users:   auth.NewUserService(crud.NewRepository(db.DB, auth.UserSchema), hasher, log),
	}

	var authMetrics *auth.Metrics
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		authMetrics = auth.NewMetrics()
		if err := authMetrics.Register(a.registry); err != nil {
			return nil, fmt.Errorf("registering auth metrics: %w", err)
		}
	}

	a.auth = auth.NewAuthService(a.users, hasher, tokens, log,
		auth.WithRefreshUserCheck(cfg.Security.JWT.RefreshChecksUser),
		auth.WithMetrics(authMetrics),
	)
	a.gate = auth.NewGate(tokens, authMetrics)
	return a, nil
}
