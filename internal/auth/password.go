package auth

import (
	"crypto/sha1" //nolint:gosec // G505: selectable for compatibility with existing hashes
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/config"
)

// PasswordHasher derives and verifies PBKDF2-HMAC password hashes.
//
// Parameters (digest, salt, iterations) are fixed at construction; changing
// any of them invalidates every stored hash. Hashes are the standard base64
// encoding of the raw derived key, which is as long as the digest.
//
// Thread Safety:
//   - Immutable after construction; safe for concurrent use.
type PasswordHasher struct {
	digest     func() hash.Hash
	keyLen     int
	salt       []byte
	iterations int
}

// NewPasswordHasher builds a hasher from the password config section.
// Algorithm is one of sha1, sha256 (default when empty) or sha512.
func NewPasswordHasher(cfg config.PasswordConfig) (*PasswordHasher, error) {
	var digest func() hash.Hash
	switch strings.ToLower(cfg.Algorithm) {
	case "", "sha256":
		digest = sha256.New
	case "sha512":
		digest = sha512.New
	case "sha1":
		digest = sha1.New
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", cfg.Algorithm)
	}

	if cfg.Salt == "" {
		return nil, errors.New("password salt is required")
	}
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("password iterations must be at least 1, got %d", cfg.Iterations)
	}

	return &PasswordHasher{
		digest:     digest,
		keyLen:     digest().Size(),
		salt:       []byte(cfg.Salt),
		iterations: cfg.Iterations,
	}, nil
}

// Hash returns the encoded hash of password. It is deterministic.
func (h *PasswordHasher) Hash(password string) string {
	return base64.StdEncoding.EncodeToString(h.derive(password))
}

// Verify reports whether candidate hashes to storedHash. A storedHash that
// is not valid base64 yields ErrMalformedHash rather than false.
func (h *PasswordHasher) Verify(storedHash, candidate string) (bool, error) {
	want, err := base64.StdEncoding.DecodeString(storedHash)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	return subtle.ConstantTimeCompare(want, h.derive(candidate)) == 1, nil
}

func (h *PasswordHasher) derive(password string) []byte {
	return pbkdf2.Key([]byte(password), h.salt, h.iterations, h.keyLen, h.digest)
}
