package domain

import (
	"context"
	"time"
)

// TokenClaims is the decoded payload of a valid bearer token.
type TokenClaims struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    string
	Email     string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

type principalKey struct{}

// ContextWithPrincipal returns a copy of ctx carrying p.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored by ContextWithPrincipal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
