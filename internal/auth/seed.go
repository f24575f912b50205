package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
)

// seedPasswordBytes is the number of random bytes for the seed admin password.
const seedPasswordBytes = 16

// SeedAdminUsername is the account created on first boot.
const SeedAdminUsername = "admin"

// AccountStore is what seeding needs from the user service.
type AccountStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, user *User) error
}

// SeedAdmin creates the initial admin account on first boot if no users exist.
// The generated password is written once to notice, never to the logger, and
// must be changed immediately. Returns the generated password (empty string
// if seeding was skipped).
func SeedAdmin(ctx context.Context, users AccountStore, logger *logging.Logger, notice io.Writer) (string, error) {
	count, err := users.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("checking user count: %w", err)
	}

	if count > 0 {
		logger.Info("users exist, skipping admin seed")
		return "", nil
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	admin := &User{
		Username: SeedAdminUsername,
		Password: password,
		Role:     RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Warn("seed admin account created",
		"username", SeedAdminUsername,
		"action_required", "change this password immediately",
	)
	fmt.Fprintf(notice, "Initial admin account created.\n  username: %s\n  password: %s\nChange this password immediately.\n", //nolint:errcheck // best-effort notice
		SeedAdminUsername, password)

	return password, nil
}
