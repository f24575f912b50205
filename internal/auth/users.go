package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/movie-catalog/internal/crud"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
)

// UserSchema maps User onto the "user" table.
var UserSchema = crud.Schema[User]{
	Table:  "user",
	Entity: "user",
	ID:     func(u *User) *int64 { return &u.ID },
	Columns: []crud.Column[User]{
		{Name: "username", Field: func(u *User) any { return &u.Username }},
		{Name: "password", Field: func(u *User) any { return &u.Password }},
		{Name: "role", Field: func(u *User) any { return &u.Role }},
	},
}

// UserService manages accounts. Passwords are hashed on every write, and
// usernames are checked for uniqueness before insert.
type UserService struct {
	*crud.Service[User]
}

// NewUserService creates the user service over store.
//
// Updates always overwrite username and password together; the role is
// fixed at creation.
func NewUserService(store crud.Store[User], hasher *PasswordHasher, logger *logging.Logger) *UserService {
	s := &UserService{}
	s.Service = crud.NewService(store, "user", crud.FixedColumns("username", "password"), crud.Hooks[User]{
		Validate: validateUser,
		BeforeCreate: func(ctx context.Context, u *User) error {
			if u.Role == "" {
				u.Role = RoleUser
			}
			return s.ensureUnique(ctx, u.Username)
		},
		BeforeWrite: func(_ context.Context, u *User) error {
			u.Password = hasher.Hash(u.Password)
			return nil
		},
	}, logger)
	return s
}

// FindByUsername returns the account with the given username, or
// ErrUserNotFound.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.FindBy(ctx, "username", username)
	if errors.Is(err, crud.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ensureUnique(ctx context.Context, username string) error {
	_, err := s.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameExists
	case errors.Is(err, ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("checking username: %w", err)
	}
}

func validateUser(u *User) error {
	if !IsValidUsername(u.Username) {
		return crud.Errorf(crud.ErrInvalidArgument,
			"username must be 1-64 characters of letters, digits, dots, hyphens or underscores")
	}
	if u.Password == "" {
		return crud.Errorf(crud.ErrInvalidArgument, "password is required")
	}
	if u.Role != "" && !IsValidUserRole(u.Role) {
		return crud.Errorf(crud.ErrInvalidArgument, "role must be one of user, admin")
	}
	return nil
}
