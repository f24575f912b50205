// Package logging provides structured logging for the movie catalog service.
//
// This package wraps Go's standard log/slog package so every component logs
// the same way: JSON in production, text in development, with default
// service and version fields on every entry.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8080)
//	logger.Error("failed to open database", "error", err)
//
// # Security
//
// Never log secrets, tokens, passwords or password hashes.
package logging
