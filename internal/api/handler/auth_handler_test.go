package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn func(ctx context.Context, p *domain.Principal) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, p *domain.Principal) error {
	return s.logoutFn(ctx, p)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "s3cret123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				Token:     "signed.jwt.token",
				ExpiresAt: expires,
				User:      domain.UserView{ID: "u-alice", Email: email, Role: domain.RoleUser},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"s3cret123"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed.jwt.token" || resp["token_type"] != "Bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u-alice" {
		t.Fatalf("expected user in response: %+v", resp)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("response must not expose the password hash")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"wrong"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_BadPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"not-an-email"}`, nil)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked *domain.Principal
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, p *domain.Principal) error {
			revoked = p
			return nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/auth/logout", "", alice)
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if revoked == nil || revoked.TokenID != "jti-alice" {
		t.Fatalf("expected caller's token to be revoked, got %+v", revoked)
	}
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newTestContext(http.MethodPost, "/auth/logout", "", nil)
	if err := h.Logout(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
