package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/service"
)

// currentPrincipal returns the caller injected by the Auth middleware, or nil.
func currentPrincipal(c echo.Context) *domain.Principal {
	p, _ := domain.PrincipalFromContext(c.Request().Context())
	return p
}

// authorize evaluates policy for the current caller before any guarded
// domain operation runs.
func authorize(c echo.Context, policy domain.Policy) error {
	return service.Authorize(currentPrincipal(c), policy)
}

// bindAndValidate decodes the body into req and runs struct validation.
// Both failures are client errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// optionalQuery returns nil when name is absent from the query string.
func optionalQuery(c echo.Context, name string) *string {
	values, ok := c.QueryParams()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
