package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the movie catalog service.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains token and password settings.
type SecurityConfig struct {
	JWT      JWTConfig      `yaml:"jwt"`
	Password PasswordConfig `yaml:"password"`
}

// JWTConfig contains JWT token settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`

	// AccessTokenTTL is the access token lifetime in minutes.
	AccessTokenTTL int `yaml:"access_token_ttl"`

	// RefreshTokenTTL is the refresh token lifetime in hours.
	RefreshTokenTTL int `yaml:"refresh_token_ttl"`

	// RefreshChecksUser makes token refresh re-read the user so that deleted
	// accounts cannot refresh and role changes take effect. Off by default:
	// a correctly signed, unexpired refresh token is honoured as-is.
	RefreshChecksUser bool `yaml:"refresh_checks_user"`
}

// PasswordConfig contains the PBKDF2 parameters used for stored passwords.
// Changing any of them invalidates every stored hash.
type PasswordConfig struct {
	Algorithm  string `yaml:"algorithm"`
	Salt       string `yaml:"salt"`
	Iterations int    `yaml:"iterations"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: MOVIECATALOG_SECTION_KEY
// For example: MOVIECATALOG_DATABASE_PATH, MOVIECATALOG_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/movies.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				AccessTokenTTL:  30,
				RefreshTokenTTL: 130 * 24,
			},
			Password: PasswordConfig{
				Algorithm:  "sha256",
				Iterations: 100_000,
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MOVIECATALOG_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("MOVIECATALOG_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("MOVIECATALOG_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	if v := os.Getenv("MOVIECATALOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Secrets belong in the environment, not the config file.
	if v := os.Getenv("MOVIECATALOG_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
	if v := os.Getenv("MOVIECATALOG_PASSWORD_SALT"); v != "" {
		cfg.Security.Password.Salt = v
	}
}

// minJWTSecretLength is the shortest accepted HMAC signing secret.
const minJWTSecretLength = 32

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set MOVIECATALOG_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}
	if c.Security.JWT.AccessTokenTTL <= 0 {
		errs = append(errs, "security.jwt.access_token_ttl must be positive")
	}
	if c.Security.JWT.RefreshTokenTTL <= 0 {
		errs = append(errs, "security.jwt.refresh_token_ttl must be positive")
	}

	switch strings.ToLower(c.Security.Password.Algorithm) {
	case "sha1", "sha256", "sha512":
	default:
		errs = append(errs, "security.password.algorithm must be sha1, sha256, or sha512")
	}
	if c.Security.Password.Salt == "" {
		errs = append(errs, "security.password.salt is required (set MOVIECATALOG_PASSWORD_SALT environment variable)")
	}
	if c.Security.Password.Iterations < 1 {
		errs = append(errs, "security.password.iterations must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) ReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// WriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) WriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// IdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) IdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}

// AccessTTL returns the access token lifetime as a Duration.
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessTokenTTL) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a Duration.
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTokenTTL) * time.Hour
}
