package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

type UserHandler struct {
	svc ports.UserService
}

func NewUserHandler(svc ports.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create registers a new account. Anyone may register a USER; creating an
// ADMIN requires an authenticated admin caller.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if domain.Role(req.Role) == domain.RoleAdmin && !currentPrincipal(c).IsAdmin() {
		return domain.ErrForbidden
	}

	view, err := h.svc.Create(c.Request().Context(), toCreateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(*view))
}

// List returns every user, optionally filtered by name or email substring.
//
// @Summary      List users
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        name   query     string  false  "Name contains (case-insensitive)"
// @Param        email  query     string  false  "Email contains (case-insensitive)"
// @Success      200    {array}   userResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := ports.UserFilter{
		Name:  optionalQuery(c, "name"),
		Email: optionalQuery(c, "email"),
	}
	views, err := h.svc.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(views))
}

// Get returns one user.
//
// @Summary      Get user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := authorize(c, domain.SelfOrAdmin(id)); err != nil {
		return err
	}
	view, err := h.svc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*view))
}

// Update applies a partial update. Only admins may change a role.
//
// @Summary      Update user
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if err := authorize(c, domain.SelfOrAdmin(id)); err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Role != nil {
		if err := authorize(c, domain.AdminOnly()); err != nil {
			return err
		}
	}

	view, err := h.svc.Update(c.Request().Context(), id, toUpdateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*view))
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetConsent grants or revokes the user's data-processing consent.
//
// @Summary      Set consent
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "User ID"
// @Param        body  body      consentRequest  true  "Consent flag"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/consent [post]
func (h *UserHandler) SetConsent(c echo.Context) error {
	id := c.Param("id")
	if err := authorize(c, domain.SelfOrAdmin(id)); err != nil {
		return err
	}

	var req consentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.svc.SetConsent(c.Request().Context(), id, *req.Granted)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*view))
}
