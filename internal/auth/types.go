package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/nerrad567/movie-catalog/internal/crud"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxUsernameLength is the maximum allowed username length.
const maxUsernameLength = 64

// IsValidUsername checks if a username meets format requirements.
// Usernames must be 1-64 characters, alphanumeric with dots, hyphens, underscores.
func IsValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleUser can browse the catalog. It is the default for new accounts
	// and for tokens whose role claim is empty.
	RoleUser Role = "user"

	// RoleAdmin can additionally change the catalog and manage accounts.
	RoleAdmin Role = "admin"
)

// ValidRoles is the set of valid user roles.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// IsValidUserRole returns true if the role is a valid role for a user account.
func IsValidUserRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User is an account that can log in.
//
// Password holds the plaintext only while a request body is being decoded;
// the service replaces it with a hash before it reaches storage. It is never
// serialised back out.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// MarshalJSON omits the password.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Role     Role   `json:"role"`
	}{u.ID, u.Username, u.Role})
}

// Identity is what a token asserts about its bearer.
type Identity struct {
	Username string
	Role     Role
}

// Sentinel errors for auth operations.
//
// ErrUnauthenticated and ErrForbidden are the gate outcomes; token failures
// wrap ErrUnauthenticated. Errors a client can cause at login or during user
// management are crud domain errors so the API maps them uniformly.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("insufficient permissions")

	ErrTokenInvalid = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrTokenExpired = fmt.Errorf("%w: token has expired", ErrUnauthenticated)

	// ErrMalformedHash means a stored password hash could not be decoded.
	// It is a server-side fault, never a password mismatch.
	ErrMalformedHash = errors.New("malformed password hash")

	ErrInvalidCredentials error = &crud.Error{Kind: crud.ErrInvalidArgument, Message: "invalid credentials"}
	ErrUserNotFound       error = &crud.Error{Kind: crud.ErrNotFound, Message: "user not found"}
	ErrUsernameExists     error = &crud.Error{Kind: crud.ErrConflict, Message: "username already exists"}
)
