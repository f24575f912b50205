// Package api implements the HTTP REST API for the movie catalog.
//
// This package provides:
//   - CRUD endpoints for directors, genres, movies and user accounts
//   - Token login and refresh under /auth/
//   - Per-route access gates backed by internal/auth
//   - Middleware stack (request ID, logging, recovery, CORS, metrics)
//   - Health and Prometheus exposition endpoints
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// # Security
//
// Catalog reads need any valid bearer token. Catalog writes and every
// /users/ route need the admin role. Gate failures render 401 when the
// caller is not authenticated and 403 when they are but lack the role.
//
// # Errors
//
// Domain errors from internal/crud and internal/auth are translated to
// status codes in writeDomainError. Clients always receive the structured
// Error body, except movie query validation which returns a per-field map.
package api
