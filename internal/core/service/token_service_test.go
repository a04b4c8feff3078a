package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

func TestLoadSigningKey(t *testing.T) {
	t.Run("strong secret is used as-is", func(t *testing.T) {
		key, err := LoadSigningKey(testSecret, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if key.Source != KeySourceConfigured || string(key.Bytes) != testSecret {
			t.Fatalf("unexpected key: %+v", key)
		}
	})

	t.Run("weak secret falls back to an ephemeral key", func(t *testing.T) {
		key, err := LoadSigningKey("short", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if key.Source != KeySourceEphemeral || len(key.Bytes) != MinSigningKeyBytes {
			t.Fatalf("unexpected key: source=%s len=%d", key.Source, len(key.Bytes))
		}
		if string(key.Bytes) == "short" {
			t.Fatalf("weak secret must not be used")
		}
	})

	t.Run("weak secret refused without fallback", func(t *testing.T) {
		if _, err := LoadSigningKey("", false); !errors.Is(err, domain.ErrWeakSigningKey) {
			t.Fatalf("expected ErrWeakSigningKey, got %v", err)
		}
	})

	t.Run("ephemeral keys differ", func(t *testing.T) {
		a, _ := LoadSigningKey("", true)
		b, _ := LoadSigningKey("", true)
		if string(a.Bytes) == string(b.Bytes) {
			t.Fatalf("two ephemeral keys should not be equal")
		}
	})
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := newTokenService(t)
	svc.now = func() time.Time { return fixedNow }

	issued, err := svc.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.TokenID == "" || issued.Token == "" {
		t.Fatalf("incomplete token: %+v", issued)
	}
	if !issued.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", fixedNow.Add(time.Hour), issued.ExpiresAt)
	}

	claims, err := svc.Validate(issued.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "alice@example.com" || claims.TokenID != issued.TokenID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IssuedAt.Equal(fixedNow) {
		t.Fatalf("expected issued-at %v, got %v", fixedNow, claims.IssuedAt)
	}
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	svc := newTokenService(t)
	a, _ := svc.Issue("alice@example.com")
	b, _ := svc.Issue("alice@example.com")
	if a.TokenID == b.TokenID {
		t.Fatalf("token ids must be unique")
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTokenService(t)
	svc.now = func() time.Time { return fixedNow }
	issued, err := svc.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return fixedNow.Add(time.Hour + time.Second) }
	if _, err := svc.Validate(issued.Token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	svc := newTokenService(t)
	issued, err := svc.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	otherKey, _ := LoadSigningKey("ffffffffffffffffffffffffffffffff", false)
	foreign, _ := NewTokenService(otherKey, time.Hour).Issue("alice@example.com")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		ID:        "jti",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice@example.com",
		ID:      "jti",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        "jti",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(issued.Token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	cases := map[string]string{
		"empty":           "",
		"garbage":         "not-a-jwt",
		"tampered":        tampered,
		"foreign key":     foreign.Token,
		"alg none":        unsigned,
		"missing expiry":  noExpiry,
		"missing subject": noSubject,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
			if _, err := svc.Validate(token); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("ErrInvalidToken should be an authentication failure")
			}
		})
	}
}
