package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamblers/ledger-api/internal/pkg/metrics"
	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

// AuthService implements login and logout.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	revoker ports.TokenRevoker
	audit   ports.AuditRecorder
	log     zerolog.Logger
	now     func() time.Time

	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthService wires the authentication gate. revoker may be nil, in which
// case Logout is a no-op.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	revoker ports.TokenRevoker,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		audit:   audit,
		log:     log,
		now:     time.Now,
	}
}

// Login verifies the credentials and issues a token for the user's email.
// Unknown emails and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		s.reject(ctx, email, "", "empty_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		// Burn a comparable amount of time so response latency does not reveal
		// whether the email exists.
		s.hasher.Verify(password, s.dummy())
		s.reject(ctx, email, "", "unknown_email")
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.reject(ctx, email, user.ID, "wrong_password")
		return nil, domain.ErrInvalidCredentials
	}

	issued, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("jti", issued.TokenID).Msg("login succeeded")

	return &ports.LoginResult{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      user.View(),
	}, nil
}

// Logout revokes the caller's current token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if s.revoker == nil {
		s.log.Warn().Str("user_id", principal.UserID).Msg("logout without revocation store, token stays valid until expiry")
		return nil
	}
	if err := s.revoker.Revoke(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	metrics.TokensRevokedTotal.Inc()
	s.log.Info().Str("user_id", principal.UserID).Str("jti", principal.TokenID).Msg("token revoked")
	return nil
}

func (s *AuthService) reject(ctx context.Context, email, userID, reason string) {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	s.log.Warn().Str("email", email).Str("reason", reason).Msg("login failed")
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, domain.AuditEvent{
		Action:     domain.AuditLoginFailed,
		TargetID:   userID,
		Subject:    email,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	})
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("ledger-api/timing-equaliser")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy digest")
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}
