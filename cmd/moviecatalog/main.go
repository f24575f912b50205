// Movie Catalog - REST API for directors, genres, movies and their users.
//
// This is the main entry point for the moviecatalog binary. Subcommands:
//   - serve: run the HTTP API
//   - migrate: apply, roll back or inspect schema migrations
//   - create-user: add an account from the command line
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) so serve can shut down gracefully.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
