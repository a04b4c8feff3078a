package ports

import (
	"context"
	"time"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

// PasswordHasher produces salted one-way digests. Verify never errors: a
// malformed digest simply does not match.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// IssuedToken is a freshly signed bearer token.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer mints and validates bearer tokens.
type TokenIssuer interface {
	Issue(subject string) (*IssuedToken, error)
	Validate(token string) (*domain.TokenClaims, error)
}

// TokenRevoker remembers revoked token ids until the token would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.UserView
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, principal *domain.Principal) error
}

// Authenticator resolves the caller behind an Authorization header.
type Authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*domain.Principal, error)
}
