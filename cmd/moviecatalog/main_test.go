package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeTestConfig writes a complete config pointing at a temp database and
// returns its path and the API port.
func writeTestConfig(t *testing.T) (string, int) {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	port := freePort(t)

	configContent := fmt.Sprintf(`
database:
  path: %q
  wal_mode: true
  busy_timeout: 5

api:
  host: "127.0.0.1"
  port: %d
  timeouts:
    read: 5
    write: 5
    idle: 5

logging:
  level: error
  format: text
  output: stderr

security:
  jwt:
    secret: "test-secret-key-at-least-32-characters-long"
  password:
    algorithm: sha256
    salt: "test-salt"
    iterations: 10

metrics:
  enabled: true
`, filepath.Join(tmpDir, "test.db"), port)

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath, port
}

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	defer l.Close() //nolint:errcheck // port probe
	return l.Addr().(*net.TCPAddr).Port
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { configFile = "" })

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv(configEnvVar, "")
	configFile = ""

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv(configEnvVar, expected)
	configFile = ""

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

func TestGetConfigPath_FlagWins(t *testing.T) {
	t.Setenv(configEnvVar, "/from/env.yaml")
	configFile = "/from/flag.yaml"
	t.Cleanup(func() { configFile = "" })

	if path := getConfigPath(); path != "/from/flag.yaml" {
		t.Errorf("getConfigPath() = %q, want flag value", path)
	}
}

func TestRunServe_InvalidConfig(t *testing.T) {
	t.Setenv(configEnvVar, "/nonexistent/path/config.yaml")
	configFile = ""

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := runServe(ctx); err == nil {
		t.Fatal("runServe() should fail with invalid config path")
	}
}

func TestRunServe_MissingSecret(t *testing.T) {
	configPath, _ := writeTestConfig(t)
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	stripped := strings.Replace(string(data), `secret: "test-secret-key-at-least-32-characters-long"`, `secret: ""`, 1)
	if err := os.WriteFile(configPath, []byte(stripped), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("MOVIECATALOG_JWT_SECRET", "")
	t.Setenv(configEnvVar, configPath)
	configFile = ""

	if err := runServe(context.Background()); err == nil {
		t.Fatal("runServe() should fail without a JWT secret")
	}
}

func TestRunServe_StartupAndShutdown(t *testing.T) {
	configPath, port := writeTestConfig(t)
	t.Setenv(configEnvVar, configPath)
	configFile = ""

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx) }()

	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(healthURL) //nolint:noctx // test probe
		if err == nil {
			resp.Body.Close() //nolint:errcheck // test probe
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("server did not become healthy: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServe() error = %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("runServe() did not return after cancel")
	}
}

func TestRunServe_PortInUse(t *testing.T) {
	configPath, port := writeTestConfig(t)
	t.Setenv(configEnvVar, configPath)
	configFile = ""

	busy, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	defer busy.Close() //nolint:errcheck // test listener

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = runServe(ctx)
	if err == nil {
		t.Fatal("runServe() should fail when the API port is taken")
	}
	if ctx.Err() != nil {
		t.Fatalf("runServe() only returned after the context ended: %v", err)
	}
	if !strings.Contains(err.Error(), "starting API server") {
		t.Errorf("runServe() error = %v, want a start failure", err)
	}
}

func TestMigrateCommands(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := execute(t, "--config", configPath, "migrate", "status")
	if err != nil {
		t.Fatalf("migrate status error = %v", err)
	}
	if !strings.Contains(out, "pending") {
		t.Errorf("status before up = %q, want pending migrations", out)
	}

	if _, err := execute(t, "--config", configPath, "migrate", "up"); err != nil {
		t.Fatalf("migrate up error = %v", err)
	}

	out, err = execute(t, "--config", configPath, "migrate", "status")
	if err != nil {
		t.Fatalf("migrate status error = %v", err)
	}
	if !strings.Contains(out, "applied") || strings.Contains(out, "pending") {
		t.Errorf("status after up = %q, want only applied migrations", out)
	}

	if _, err := execute(t, "--config", configPath, "migrate", "down"); err != nil {
		t.Fatalf("migrate down error = %v", err)
	}

	out, err = execute(t, "--config", configPath, "migrate", "status")
	if err != nil {
		t.Fatalf("migrate status error = %v", err)
	}
	if !strings.Contains(out, "pending") {
		t.Errorf("status after down = %q, want pending migrations", out)
	}
}

func TestCreateUser(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := execute(t, "--config", configPath, "create-user",
		"--username", "alice", "--password", "wonderland", "--role", "admin")
	if err != nil {
		t.Fatalf("create-user error = %v", err)
	}
	if !strings.Contains(out, `Created admin "alice"`) {
		t.Errorf("output = %q", out)
	}

	if _, err := execute(t, "--config", configPath, "create-user",
		"--username", "alice", "--password", "other"); err == nil {
		t.Error("create-user with duplicate username expected error, got nil")
	}

	if _, err := execute(t, "--config", configPath, "create-user",
		"--username", "bob", "--password", "pw", "--role", "owner"); err == nil {
		t.Error("create-user with invalid role expected error, got nil")
	}
}

func TestCreateUser_RequiresFlags(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if _, err := execute(t, "--config", configPath, "create-user", "--username", "alice"); err == nil {
		t.Error("create-user without --password expected error, got nil")
	}
}
