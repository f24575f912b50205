package auth

import (
	"testing"
	"time"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/config"
)

// ─── Password hashing (PBKDF2, production iteration count) ──────────

func benchHasher(b *testing.B) *PasswordHasher {
	b.Helper()
	h, err := NewPasswordHasher(config.PasswordConfig{
		Algorithm:  "sha256",
		Salt:       "benchmark-salt",
		Iterations: 100000,
	})
	if err != nil {
		b.Fatalf("NewPasswordHasher: %v", err)
	}
	return h
}

func BenchmarkHash(b *testing.B) {
	h := benchHasher(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash("correct-horse-battery-staple")
	}
}

func BenchmarkVerify(b *testing.B) {
	h := benchHasher(b)
	stored := h.Hash("correct-horse-battery-staple")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Verify(stored, "correct-horse-battery-staple") //nolint:errcheck // benchmark
	}
}

// ─── JWT tokens (per-request hot path) ──────────────────────────────

func benchTokens(b *testing.B) *TokenService {
	b.Helper()
	s, err := NewTokenService(config.JWTConfig{
		Secret:          "benchmark-secret-key-32-bytes-xx",
		AccessTokenTTL:  30,
		RefreshTokenTTL: 24,
	})
	if err != nil {
		b.Fatalf("NewTokenService: %v", err)
	}
	return s
}

func BenchmarkIssue(b *testing.B) {
	s := benchTokens(b)
	identity := Identity{Username: "bench", Role: RoleAdmin}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Issue(identity, 15*time.Minute) //nolint:errcheck // benchmark
	}
}

func BenchmarkValidate(b *testing.B) {
	s := benchTokens(b)
	token, err := s.Issue(Identity{Username: "bench", Role: RoleAdmin}, 15*time.Minute)
	if err != nil {
		b.Fatalf("Issue: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Validate(token) //nolint:errcheck // benchmark
	}
}

func BenchmarkGateCheck(b *testing.B) {
	s := benchTokens(b)
	gate := NewGate(s, nil)
	pair, err := s.GeneratePair(Identity{Username: "bench", Role: RoleAdmin})
	if err != nil {
		b.Fatalf("GeneratePair: %v", err)
	}
	header := "Bearer " + pair.AccessToken

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gate.Check(header, RequireCatalogManage)
	}
}
