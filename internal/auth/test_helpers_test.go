package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/movie-catalog/internal/crud"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/config"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/database"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
	_ "github.com/nerrad567/movie-catalog/migrations"
)

// testSecret meets the 32-character minimum.
const testSecret = "test-secret-key-at-least-32-chars!"

// testDB creates a temporary SQLite database with every migration applied.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "auth.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

// testHasher uses few iterations to keep tests fast.
func testHasher(t *testing.T) *PasswordHasher {
	t.Helper()

	h, err := NewPasswordHasher(config.PasswordConfig{Algorithm: "sha256", Salt: "pepper", Iterations: 10})
	if err != nil {
		t.Fatalf("NewPasswordHasher() error = %v", err)
	}
	return h
}

// testTokens returns a TokenService with default lifetimes and the given clock.
func testTokens(t *testing.T, now func() time.Time) *TokenService {
	t.Helper()

	if now == nil {
		now = time.Now
	}
	s, err := NewTokenService(config.JWTConfig{
		Secret:          testSecret,
		AccessTokenTTL:  30,
		RefreshTokenTTL: 130 * 24,
	}, WithClock(now))
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return s
}

// testUsers wires a UserService over a fresh database.
func testUsers(t *testing.T) *UserService {
	t.Helper()
	db := testDB(t)
	return NewUserService(crud.NewRepository(db.DB, UserSchema), testHasher(t), logging.Discard())
}

// seedTestUser creates an account with the given credentials.
func seedTestUser(t *testing.T, users *UserService, username, password string, role Role) *User {
	t.Helper()

	u := &User{Username: username, Password: password, Role: role}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return u
}
