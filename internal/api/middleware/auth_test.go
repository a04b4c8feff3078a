package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

type stubAuthenticator struct {
	principal *domain.Principal
	err       error
	calls     int
}

func (s *stubAuthenticator) Authenticate(_ context.Context, header string) (*domain.Principal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if header != "Bearer good" {
		return nil, domain.ErrInvalidToken
	}
	return s.principal, nil
}

func newAlice() *domain.Principal {
	return &domain.Principal{UserID: "u-1", Email: "alice@example.com", Role: domain.RoleUser, TokenID: "jti-1"}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	authn := &stubAuthenticator{principal: newAlice()}
	called := false
	handler := Auth(authn)(func(c echo.Context) error {
		called = true
		p, _ := c.Get(PrincipalKey).(*domain.Principal)
		if p == nil || p.UserID != "u-1" {
			t.Fatalf("principal not set on echo context: %+v", p)
		}
		fromCtx, ok := domain.PrincipalFromContext(c.Request().Context())
		if !ok || fromCtx.Email != "alice@example.com" {
			t.Fatalf("principal not set on request context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubAuthenticator{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubAuthenticator{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
	if he.Message != "authentication required" {
		t.Fatalf("rejection reason leaked: %v", he.Message)
	}
}

func TestAuthMiddleware_StoreFailurePassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	c := e.NewContext(req, httptest.NewRecorder())

	storeErr := fmt.Errorf("check revocation: %w", errors.New("redis down"))
	handler := Auth(&stubAuthenticator{err: storeErr})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		t.Fatalf("store failure must not become a 401, got %v", he)
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	authn := &stubAuthenticator{}
	handler := OptionalAuth(authn)(func(c echo.Context) error {
		if _, ok := domain.PrincipalFromContext(c.Request().Context()); ok {
			t.Fatalf("anonymous request must not carry a principal")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if authn.calls != 0 {
		t.Fatalf("authenticator should not be called without a header")
	}
}

func TestOptionalAuth_BadTokenRejected(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	req.Header.Set("Authorization", "Bearer forged")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := OptionalAuth(&stubAuthenticator{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	var he *echo.HTTPError
	if err := handler(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
