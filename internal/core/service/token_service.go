package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

// MinSigningKeyBytes is the HS256 minimum key size (256 bits).
const MinSigningKeyBytes = 32

const defaultTokenTTL = time.Hour

// KeySource tells where the signing key came from.
type KeySource int

const (
	// KeySourceConfigured means the configured secret was strong enough and is used as-is.
	KeySourceConfigured KeySource = iota
	// KeySourceEphemeral means the configured secret was rejected and a random
	// key was generated; tokens will not survive a restart.
	KeySourceEphemeral
)

func (s KeySource) String() string {
	if s == KeySourceEphemeral {
		return "ephemeral"
	}
	return "configured"
}

// SigningKey is the result of LoadSigningKey.
type SigningKey struct {
	Bytes  []byte
	Source KeySource
}

// LoadSigningKey validates secret for HS256. A weak secret is replaced by a
// random key when allowEphemeral is set, otherwise domain.ErrWeakSigningKey is
// returned. Callers must warn loudly on KeySourceEphemeral.
func LoadSigningKey(secret string, allowEphemeral bool) (SigningKey, error) {
	if len(secret) >= MinSigningKeyBytes {
		return SigningKey{Bytes: []byte(secret), Source: KeySourceConfigured}, nil
	}
	if !allowEphemeral {
		return SigningKey{}, fmt.Errorf("%w: got %d bytes, need %d", domain.ErrWeakSigningKey, len(secret), MinSigningKeyBytes)
	}
	key := make([]byte, MinSigningKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return SigningKey{}, fmt.Errorf("generate signing key: %w", err)
	}
	return SigningKey{Bytes: key, Source: KeySourceEphemeral}, nil
}

// TokenService issues and validates HS256 bearer tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenService builds a TokenService. A non-positive ttl falls back to one hour.
func NewTokenService(key SigningKey, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{key: key.Bytes, ttl: ttl, now: time.Now}
}

// Issue signs a token for subject with a fresh jti.
func (s *TokenService) Issue(subject string) (*ports.IssuedToken, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &ports.IssuedToken{
		Token:     signed,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate checks signature, algorithm and expiry and returns the claims.
// Every failure is reported as domain.ErrInvalidToken.
func (s *TokenService) Validate(token string) (*domain.TokenClaims, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.TokenClaims{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
