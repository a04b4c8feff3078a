package domain

import (
	"context"
	"testing"
	"time"
)

func TestPolicy_Allows(t *testing.T) {
	user := &Principal{UserID: "u-1", Role: RoleUser}
	admin := &Principal{UserID: "u-9", Role: RoleAdmin}

	cases := []struct {
		name   string
		policy Policy
		p      *Principal
		want   bool
	}{
		{"nil principal", SelfOrAdmin("u-1"), nil, false},
		{"self", SelfOrAdmin("u-1"), user, true},
		{"other", SelfOrAdmin("u-2"), user, false},
		{"empty owner", SelfOrAdmin(""), &Principal{UserID: "", Role: RoleUser}, false},
		{"admin on other", SelfOrAdmin("u-2"), admin, true},
		{"admin-only as user", AdminOnly(), user, false},
		{"admin-only as admin", AdminOnly(), admin, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.policy.Allows(tc.p); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestUser_SetConsent(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	u := &User{}

	u.SetConsent(true, now)
	if !u.ConsentGiven || u.ConsentAt == nil || !u.ConsentAt.Equal(now) {
		t.Fatalf("grant should stamp consent: %+v", u)
	}
	u.SetConsent(false, now.Add(time.Hour))
	if u.ConsentGiven || u.ConsentAt != nil {
		t.Fatalf("revoke should clear consent: %+v", u)
	}
}

func TestPrincipalContext(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatalf("empty context should carry no principal")
	}
	p := &Principal{UserID: "u-1"}
	got, ok := PrincipalFromContext(ContextWithPrincipal(context.Background(), p))
	if !ok || got != p {
		t.Fatalf("principal not round-tripped")
	}
	if _, ok := PrincipalFromContext(ContextWithPrincipal(context.Background(), nil)); ok {
		t.Fatalf("nil principal should not count")
	}
}
