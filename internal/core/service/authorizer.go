package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gamblers/ledger-api/internal/pkg/metrics"
	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

// Authorizer turns an Authorization header into a Principal.
type Authorizer struct {
	tokens  ports.TokenIssuer
	users   ports.UserRepository
	revoker ports.TokenRevoker
	log     zerolog.Logger
}

// NewAuthorizer builds the request authorizer. revoker may be nil.
func NewAuthorizer(tokens ports.TokenIssuer, users ports.UserRepository, revoker ports.TokenRevoker, log zerolog.Logger) *Authorizer {
	return &Authorizer{tokens: tokens, users: users, revoker: revoker, log: log}
}

// Authenticate validates the bearer token in header and resolves its subject
// to a user. Every rejection wraps domain.ErrUnauthenticated; store failures
// are returned as-is.
func (a *Authorizer) Authenticate(ctx context.Context, header string) (*domain.Principal, error) {
	raw, ok := BearerToken(header)
	if !ok {
		metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
		return nil, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	}

	claims, err := a.tokens.Validate(raw)
	if err != nil {
		metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
		return nil, domain.ErrInvalidToken
	}

	if a.revoker != nil {
		revoked, err := a.revoker.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			metrics.AuthRejectionsTotal.WithLabelValues("revoked_token").Inc()
			return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthenticated)
		}
	}

	user, err := a.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthRejectionsTotal.WithLabelValues("unknown_subject").Inc()
			a.log.Debug().Str("jti", claims.TokenID).Msg("token subject no longer exists")
			return nil, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}

	return &domain.Principal{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Authorize evaluates policy for p. A nil principal is unauthenticated; a
// principal lacking the required level is forbidden.
func Authorize(p *domain.Principal, policy domain.Policy) error {
	if p == nil {
		return domain.ErrUnauthenticated
	}
	if !policy.Allows(p) {
		metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
		return domain.ErrForbidden
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
