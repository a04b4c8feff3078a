package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RevocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationStore(client), mr
}

func TestRevocationStore_RevokeAndCheck(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatalf("fresh token reported revoked")
	}

	if err := store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if !mr.Exists("revoked:jti-1") {
		t.Fatalf("expected revoked:jti-1 key")
	}

	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Fatalf("expected token to be revoked")
	}
}

func TestRevocationStore_EntryExpiresWithToken(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "jti-2", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatalf("entry should expire together with the token")
	}
}

func TestRevocationStore_AlreadyExpiredTokenIsNoop(t *testing.T) {
	store, mr := newTestStore(t)

	if err := store.Revoke(context.Background(), "jti-3", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if mr.Exists("revoked:jti-3") {
		t.Fatalf("no key expected for an expired token")
	}
}

func TestRevocationStore_UnavailableRedis(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	if _, err := store.IsRevoked(context.Background(), "jti-4"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
