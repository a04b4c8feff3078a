package handler

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

var (
	alice = &domain.Principal{UserID: "u-alice", Email: "alice@example.com", Role: domain.RoleUser, TokenID: "jti-alice"}
	admin = &domain.Principal{UserID: "u-admin", Email: "admin@example.com", Role: domain.RoleAdmin, TokenID: "jti-admin"}
)

// newTestContext builds an echo context for a JSON request, optionally as p.
func newTestContext(method, target, body string, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if p != nil {
		req = req.WithContext(domain.ContextWithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
