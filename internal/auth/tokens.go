package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/config"
)

// Claims is the signed token payload: {username, role, expires}.
//
// Expiry lives in the custom "expires" field (epoch seconds), not the
// registered "exp" claim, so the jwt library does not enforce it. Validate
// checks it explicitly.
type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Expires  int64  `json:"expires"`
	jwt.RegisteredClaims
}

// EffectiveRole returns the role claim, defaulting to RoleUser when empty.
func (c *Claims) EffectiveRole() Role {
	if c.Role == "" {
		return RoleUser
	}
	return c.Role
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService issues and validates HS256-signed tokens.
//
// Access and refresh tokens share the same claim shape; they differ only in
// lifetime and in which endpoint accepts them.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now. Intended for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService from the JWT config section.
func NewTokenService(cfg config.JWTConfig, opts ...TokenOption) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.AccessTTL() <= 0 || cfg.RefreshTTL() <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	s := &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL(),
		refreshTTL: cfg.RefreshTTL(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for identity that expires after ttl.
// A non-positive ttl yields a token that is already expired.
func (s *TokenService) Issue(identity Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		Username: identity.Username,
		Role:     identity.Role,
		Expires:  s.now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// GeneratePair issues an access and a refresh token for identity.
func (s *TokenService) GeneratePair(identity Identity) (TokenPair, error) {
	access, err := s.Issue(identity, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, err := s.Issue(identity, s.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issuing refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Validate verifies the signature and algorithm of raw, then rejects it if
// the expires claim is not in the future.
//
// Every failure wraps ErrTokenInvalid or ErrTokenExpired, and therefore
// ErrUnauthenticated.
func (s *TokenService) Validate(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrTokenInvalid)
	}
	if claims.Expires == 0 {
		return nil, fmt.Errorf("%w: missing expires", ErrTokenInvalid)
	}

	if !s.now().Before(time.Unix(claims.Expires, 0)) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}
