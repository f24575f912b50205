package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/movie-catalog/internal/crud"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
)

// UserLookup finds accounts by username. *UserService satisfies it.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// AuthService turns credentials into token pairs and refreshes them.
type AuthService struct {
	users   UserLookup
	hasher  *PasswordHasher
	tokens  *TokenService
	metrics *Metrics
	logger  *logging.Logger

	// refreshChecksUser re-reads the account on refresh instead of trusting
	// the token's claims.
	refreshChecksUser bool
}

// AuthServiceOption configures an AuthService.
type AuthServiceOption func(*AuthService)

// WithRefreshUserCheck makes Refresh require that the account still exists
// and issue tokens with its current role.
func WithRefreshUserCheck(enabled bool) AuthServiceOption {
	return func(s *AuthService) {
		s.refreshChecksUser = enabled
	}
}

// WithMetrics records login and issuance counters.
func WithMetrics(m *Metrics) AuthServiceOption {
	return func(s *AuthService) {
		s.metrics = m
	}
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserLookup, hasher *PasswordHasher, tokens *TokenService, logger *logging.Logger, opts ...AuthServiceOption) *AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("component", "auth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies username and password and returns a fresh token pair
// carrying the account's current role.
//
// Errors:
//   - crud.ErrInvalidArgument: a field is missing
//   - ErrUserNotFound: no such account
//   - ErrInvalidCredentials: the password does not match
//   - anything else (including ErrMalformedHash) is a server fault
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	if username == "" || password == "" {
		return TokenPair{}, crud.Errorf(crud.ErrInvalidArgument, "username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.observeLogin(ResultUnknownUser)
			s.logger.Info("login failed", "username", username, "reason", "unknown user")
			return TokenPair{}, ErrUserNotFound
		}
		s.metrics.observeLogin(ResultError)
		return TokenPair{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := s.hasher.Verify(user.Password, password)
	if err != nil {
		s.metrics.observeLogin(ResultError)
		s.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		return TokenPair{}, fmt.Errorf("verifying password for user %d: %w", user.ID, err)
	}
	if !ok {
		s.metrics.observeLogin(ResultBadPassword)
		s.logger.Info("login failed", "username", username, "reason", "bad password")
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(Identity{Username: user.Username, Role: user.Role})
	if err != nil {
		s.metrics.observeLogin(ResultError)
		return TokenPair{}, err
	}

	s.metrics.observeLogin(ResultSuccess)
	s.metrics.observePairIssued("login")
	s.logger.Info("login succeeded", "username", user.Username)
	return pair, nil
}

// Refresh validates a refresh token and issues a new pair from its claims.
//
// By default the claims are trusted as signed: there is no revocation and no
// account lookup, so any unexpired token is honoured. With
// WithRefreshUserCheck the account must still exist and its current role is
// used.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, crud.Errorf(crud.ErrInvalidArgument, "refresh_token is required")
	}

	claims, err := s.tokens.Validate(refreshToken)
	if err != nil {
		s.logger.Info("refresh rejected", "error", err)
		return TokenPair{}, err
	}

	identity := Identity{Username: claims.Username, Role: claims.EffectiveRole()}
	if s.refreshChecksUser {
		user, err := s.users.FindByUsername(ctx, claims.Username)
		if err != nil {
			return TokenPair{}, err
		}
		identity.Role = user.Role
	}

	pair, err := s.tokens.GeneratePair(identity)
	if err != nil {
		return TokenPair{}, err
	}
	s.metrics.observePairIssued("refresh")
	return pair, nil
}
