package auth

import (
	"fmt"
	"strings"
)

// bearerPrefix is the required Authorization scheme prefix.
const bearerPrefix = "Bearer "

// Requirement is what an operation demands of its caller. The zero value
// demands only a valid token.
type Requirement struct {
	Permission Permission
}

// Common requirements.
var (
	RequireAuthenticated = Requirement{}
	RequireCatalogManage = Requirement{Permission: PermCatalogManage}
	RequireUserManage    = Requirement{Permission: PermUserManage}
)

// Decision is the outcome of a gate check. Claims is set whenever the token
// decoded, including when the request is forbidden.
type Decision struct {
	Allowed bool
	Claims  *Claims
	Err     error
}

// TokenValidator decodes and verifies a raw token.
type TokenValidator interface {
	Validate(raw string) (*Claims, error)
}

// Gate enforces Requirements against an Authorization header value.
type Gate struct {
	tokens  TokenValidator
	metrics *Metrics
}

// NewGate creates a Gate. metrics may be nil.
func NewGate(tokens TokenValidator, metrics *Metrics) *Gate {
	return &Gate{tokens: tokens, metrics: metrics}
}

// Check evaluates header against req.
//
// A missing header is rejected before anything is decoded. Any header or
// token problem yields ErrUnauthenticated; only a valid token whose role
// lacks the required permission yields ErrForbidden.
func (g *Gate) Check(header string, req Requirement) Decision {
	d := g.check(header, req)
	g.metrics.observeDecision(d)
	return d
}

func (g *Gate) check(header string, req Requirement) Decision {
	if header == "" {
		return Decision{Err: fmt.Errorf("%w: missing authorization header", ErrUnauthenticated)}
	}

	raw, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || strings.TrimSpace(raw) == "" {
		return Decision{Err: fmt.Errorf("%w: expected bearer token", ErrUnauthenticated)}
	}

	claims, err := g.tokens.Validate(strings.TrimSpace(raw))
	if err != nil {
		return Decision{Err: err}
	}

	if req.Permission != "" && !HasPermission(claims.EffectiveRole(), req.Permission) {
		return Decision{Claims: claims, Err: fmt.Errorf("%w: %s required", ErrForbidden, req.Permission)}
	}

	return Decision{Allowed: true, Claims: claims}
}
