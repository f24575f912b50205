// Package auth provides authentication and authorisation for the movie catalog.
//
// It implements a two-tier role model (user → admin) with:
//   - PBKDF2-HMAC password hashing with configured digest, salt and iterations
//   - HS256 access and refresh tokens carrying {username, role, expires}
//   - A Gate that turns an Authorization header into an explicit Decision
//   - Static role-permission mapping (compile-time, no database lookup)
//
// Refresh is stateless: a correctly signed, unexpired refresh token is
// enough to obtain a new pair unless the account check is enabled.
package auth
