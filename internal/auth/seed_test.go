package auth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/config"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
)

func TestSeedAdmin_CreatesOnEmptyDB(t *testing.T) {
	users := testUsers(t)
	ctx := context.Background()

	password, err := SeedAdmin(ctx, users, logging.Discard(), io.Discard)
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if len(password) != 2*seedPasswordBytes {
		t.Fatalf("SeedAdmin() password length = %d, want %d", len(password), 2*seedPasswordBytes)
	}

	admin, err := users.FindByUsername(ctx, SeedAdminUsername)
	if err != nil {
		t.Fatalf("FindByUsername(admin) error = %v", err)
	}
	if admin.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", admin.Role, RoleAdmin)
	}

	// Stored value is the hash, and the generated password verifies against it.
	if admin.Password == password {
		t.Error("seed password stored in plaintext")
	}
	ok, err := testHasher(t).Verify(admin.Password, password)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("generated password should verify against stored hash")
	}
}

func TestSeedAdmin_PasswordOnlyInNotice(t *testing.T) {
	var logs, notice bytes.Buffer
	logger := logging.NewWithWriter(config.LoggingConfig{Level: "debug", Format: "json"}, "test", &logs)

	password, err := SeedAdmin(context.Background(), testUsers(t), logger, &notice)
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}

	if !strings.Contains(notice.String(), password) {
		t.Errorf("notice = %q, want it to carry the generated password", notice.String())
	}
	if strings.Contains(logs.String(), password) {
		t.Errorf("log output leaked the seed password: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "seed admin account created") {
		t.Errorf("log output = %q, want the seed event", logs.String())
	}
}

func TestSeedAdmin_SkipsWhenUsersExist(t *testing.T) {
	users := testUsers(t)
	ctx := context.Background()

	seedTestUser(t, users, "existing", "pw", RoleUser)

	password, err := SeedAdmin(ctx, users, logging.Discard(), io.Discard)
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if password != "" {
		t.Error("SeedAdmin() should return empty password when users exist")
	}

	count, err := users.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestSeedAdmin_UniquePasswords(t *testing.T) {
	ctx := context.Background()

	pw1, err := SeedAdmin(ctx, testUsers(t), logging.Discard(), io.Discard)
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	pw2, err := SeedAdmin(ctx, testUsers(t), logging.Discard(), io.Discard)
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}

	if pw1 == pw2 {
		t.Error("seed passwords should be unique across instances")
	}
}

type failingAccounts struct{}

func (failingAccounts) Count(context.Context) (int, error)  { return 0, errors.New("disk on fire") }
func (failingAccounts) Create(context.Context, *User) error { return nil }

func TestSeedAdmin_CountError(t *testing.T) {
	if _, err := SeedAdmin(context.Background(), failingAccounts{}, logging.Discard(), io.Discard); err == nil {
		t.Fatal("SeedAdmin() expected error when Count fails, got nil")
	}
}
