package ports

import (
	"context"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

// TransactionRepository persists transactions. A missing id yields
// domain.ErrTransactionNotFound.
type TransactionRepository interface {
	// Save inserts the transaction or replaces the stored record with the same ID.
	Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	// FindAll returns every transaction ordered by creation time, then id.
	FindAll(ctx context.Context) ([]*domain.Transaction, error)
	FindByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}
