package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/config"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/database"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
	_ "github.com/nerrad567/movie-catalog/migrations"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// configEnvVar overrides the default config path when --config is not given.
const configEnvVar = "MOVIECATALOG_CONFIG"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the moviecatalog CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moviecatalog",
		Short: "Movie catalog REST API",
		Long: `moviecatalog serves a JSON REST API over a catalog of directors,
genres and movies, with token authentication and admin-only writes.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file path (default $"+configEnvVar+" or "+defaultConfigPath+")")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateUserCmd())

	return cmd
}

// getConfigPath returns the configuration file path.
// The --config flag wins, then MOVIECATALOG_CONFIG, then the default.
func getConfigPath() string {
	if configFile != "" {
		return configFile
	}
	if path := os.Getenv(configEnvVar); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig loads configuration and builds the logger it describes.
func loadConfig() (*config.Config, *logging.Logger, error) {
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	log.Debug("configuration loaded", "path", configPath)
	return cfg, log, nil
}

// openDatabase opens the configured database. The caller closes it.
func openDatabase(cfg *config.Config, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(database.ConfigFrom(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info("database connected", "path", db.Path())
	return db, nil
}

// closeDatabase closes db, logging rather than returning any error.
func closeDatabase(db *database.DB, log *logging.Logger) {
	log.Info("closing database")
	if err := db.Close(); err != nil {
		log.Error("error closing database", "error", err)
	}
}
