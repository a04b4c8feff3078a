package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
	"github.com/gamblers/ledger-api/internal/core/service"
)

type TransactionHandler struct {
	svc ports.TransactionService
}

func NewTransactionHandler(svc ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// Create records a ledger movement for the given user.
//
// @Summary      Create transaction
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      createTransactionRequest  true  "Movement details"
// @Success      201   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	var req createTransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := authorize(c, domain.SelfOrAdmin(req.UserID)); err != nil {
		return err
	}

	tx, err := h.svc.Create(c.Request().Context(), toCreateTransactionInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTransactionResponse(*tx))
}

// List returns every transaction, optionally filtered.
//
// @Summary      List transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        description  query     string  false  "Description contains (case-sensitive)"
// @Param        type         query     string  false  "Exact type"  Enums(DEPOSIT, WITHDRAWAL, DEBIT, CREDIT)
// @Success      200          {array}   transactionResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	filter := ports.TransactionFilter{Description: optionalQuery(c, "description")}
	if raw := optionalQuery(c, "type"); raw != nil {
		t := domain.TransactionType(*raw)
		if !t.Valid() {
			return domain.InvalidArgument("unknown transaction type %q", *raw)
		}
		filter.Type = &t
	}

	txs, err := h.svc.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionListResponse(txs))
}

// ListByUser returns the movements belonging to one user.
//
// @Summary      List a user's transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {array}   transactionResponse
// @Failure      403  {object}  errorResponse
// @Router       /transactions/user/{id} [get]
func (h *TransactionHandler) ListByUser(c echo.Context) error {
	userID := c.Param("id")
	if err := authorize(c, domain.SelfOrAdmin(userID)); err != nil {
		return err
	}
	txs, err := h.svc.FindByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionListResponse(txs))
}

// Get returns one transaction.
//
// @Summary      Get transaction
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  transactionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	tx, err := h.owned(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionResponse(*tx))
}

// Update replaces amount, description and type. Owner and creation time are kept.
//
// @Summary      Update transaction
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Transaction ID"
// @Param        body  body      transactionRequest  true  "New values"
// @Success      200   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	var req transactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in := toUpdateTransactionInput(req)
	if err := service.ValidateMovement(in.Amount, in.Description, in.Type); err != nil {
		return err
	}
	if _, err := h.owned(c); err != nil {
		return err
	}

	tx, err := h.svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionResponse(*tx))
}

// Delete removes a transaction.
//
// @Summary      Delete transaction
// @Tags         transactions
// @Security     BearerAuth
// @Param        id   path  string  true  "Transaction ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	if _, err := h.owned(c); err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// owned loads the transaction named by the path and checks the caller owns
// it or is an admin.
func (h *TransactionHandler) owned(c echo.Context) (*domain.Transaction, error) {
	tx, err := h.svc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if err := authorize(c, domain.SelfOrAdmin(tx.UserID)); err != nil {
		return nil, err
	}
	return tx, nil
}
