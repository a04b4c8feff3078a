package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

type CreateTransactionInput struct {
	UserID      string
	Amount      decimal.Decimal
	Description string
	Type        domain.TransactionType
}

// UpdateTransactionInput overwrites the mutable fields of a transaction.
// UserID and CreatedAt are deliberately absent.
type UpdateTransactionInput struct {
	Amount      decimal.Decimal
	Description string
	Type        domain.TransactionType
}

// TransactionFilter narrows FindAll; nil fields match everything.
type TransactionFilter struct {
	Description *string
	Type        *domain.TransactionType
}

type TransactionService interface {
	Create(ctx context.Context, in CreateTransactionInput) (*domain.Transaction, error)
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
	Update(ctx context.Context, id string, in UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
}
