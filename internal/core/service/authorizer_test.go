package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/infrastructure/db/memory"
)

func TestAuthorizer_Authenticate(t *testing.T) {
	users := newUserRepo()
	alice := users.seed(domain.User{ID: "u-alice", Name: "Alice", Email: "alice@example.com"}, "")
	users.seed(domain.User{ID: "u-admin", Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}, "")
	tokens := newTokenService(t)
	revoker := memory.NewRevocationList()
	authz := NewAuthorizer(tokens, users, revoker, nopLog)

	aliceToken, _ := tokens.Issue("alice@example.com")
	adminToken, _ := tokens.Issue("admin@example.com")
	ghostToken, _ := tokens.Issue("ghost@example.com")
	revokedToken, _ := tokens.Issue("alice@example.com")
	if err := revoker.Revoke(context.Background(), revokedToken.TokenID, revokedToken.ExpiresAt); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	t.Run("valid user token", func(t *testing.T) {
		p, err := authz.Authenticate(context.Background(), "Bearer "+aliceToken.Token)
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if p.UserID != alice.ID || p.Role != domain.RoleUser || p.TokenID != aliceToken.TokenID {
			t.Fatalf("unexpected principal: %+v", p)
		}
	})

	t.Run("admin role comes from the store", func(t *testing.T) {
		p, err := authz.Authenticate(context.Background(), "bearer "+adminToken.Token)
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if !p.IsAdmin() {
			t.Fatalf("expected admin principal")
		}
	})

	rejections := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Basic " + aliceToken.Token,
		"bare token":      aliceToken.Token,
		"malformed token": "Bearer abc.def",
		"revoked token":   "Bearer " + revokedToken.Token,
		"deleted subject": "Bearer " + ghostToken.Token,
	}
	for name, header := range rejections {
		t.Run(name, func(t *testing.T) {
			p, err := authz.Authenticate(context.Background(), header)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if p != nil {
				t.Fatalf("no principal expected")
			}
		})
	}
}

func TestAuthorizer_Authenticate_StoreFailures(t *testing.T) {
	users := newUserRepo()
	users.seed(domain.User{ID: "u-alice", Email: "alice@example.com"}, "")
	tokens := newTokenService(t)
	token, _ := tokens.Issue("alice@example.com")

	authz := NewAuthorizer(tokens, users, failingRevoker{}, nopLog)
	_, err := authz.Authenticate(context.Background(), "Bearer "+token.Token)
	if !errors.Is(err, errStore) || errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("revocation store failure should surface as-is, got %v", err)
	}

	users.failAll = true
	authz = NewAuthorizer(tokens, users, nil, nopLog)
	_, err = authz.Authenticate(context.Background(), "Bearer "+token.Token)
	if !errors.Is(err, errStore) || errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("user store failure should surface as-is, got %v", err)
	}
}

func TestAuthorizer_ExpiredToken(t *testing.T) {
	users := newUserRepo()
	users.seed(domain.User{ID: "u-alice", Email: "alice@example.com"}, "")
	tokens := newTokenService(t)
	tokens.now = func() time.Time { return fixedNow }
	token, _ := tokens.Issue("alice@example.com")
	tokens.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }

	_, err := NewAuthorizer(tokens, users, nil, nopLog).Authenticate(context.Background(), "Bearer "+token.Token)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	alice := &domain.Principal{UserID: "u-alice", Role: domain.RoleUser}
	admin := &domain.Principal{UserID: "u-admin", Role: domain.RoleAdmin}

	cases := []struct {
		name   string
		p      *domain.Principal
		policy domain.Policy
		want   error
	}{
		{"anonymous", nil, domain.SelfOrAdmin("u-alice"), domain.ErrUnauthenticated},
		{"self", alice, domain.SelfOrAdmin("u-alice"), nil},
		{"other", alice, domain.SelfOrAdmin("u-bob"), domain.ErrForbidden},
		{"admin on other", admin, domain.SelfOrAdmin("u-bob"), nil},
		{"user on admin-only", alice, domain.AdminOnly(), domain.ErrForbidden},
		{"admin on admin-only", admin, domain.AdminOnly(), nil},
		{"anonymous on admin-only", nil, domain.AdminOnly(), domain.ErrUnauthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Authorize(tc.p, tc.policy); !errors.Is(err, tc.want) && err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		token string
		ok    bool
	}{
		"Bearer abc":   {"abc", true},
		"bearer abc":   {"abc", true},
		"BEARER  abc ": {"abc", true},
		"Bearer ":      {"", false},
		"Basic abc":    {"", false},
		"abc":          {"", false},
		"":             {"", false},
	}
	for header, want := range cases {
		token, ok := BearerToken(header)
		if token != want.token || ok != want.ok {
			t.Fatalf("%q: expected (%q, %v), got (%q, %v)", header, want.token, want.ok, token, ok)
		}
	}
}
