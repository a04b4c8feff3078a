package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

// PrincipalKey is the echo.Context key holding the authenticated *domain.Principal.
const PrincipalKey = "principal"

// Auth resolves the bearer token into a principal and injects it into both
// the echo context and the request context. Requests without a valid token
// never reach next.
func Auth(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := authn.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return authError(err)
			}
			setPrincipal(c, p)
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth when an Authorization header is present and
// lets anonymous requests through otherwise.
func OptionalAuth(authn ports.Authenticator) echo.MiddlewareFunc {
	required := Auth(authn)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withAuth := required(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			return withAuth(c)
		}
	}
}

func setPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(PrincipalKey, p)
	c.SetRequest(c.Request().WithContext(domain.ContextWithPrincipal(c.Request().Context(), p)))
}

// authError hides the rejection reason from the client. Store failures are
// passed through so they surface as 500s.
func authError(err error) error {
	if errors.Is(err, domain.ErrUnauthenticated) {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").SetInternal(err)
	}
	return err
}
