package ports

import (
	"context"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups of a missing id or email
// return domain.ErrUserNotFound; any other error is an infrastructure failure.
type UserRepository interface {
	// Save inserts the user or replaces the stored record with the same ID.
	// A case-insensitive email clash with another user yields domain.ErrEmailTaken.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches the stored email exactly.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// EmailTaken reports whether a user other than excludeID already owns email,
	// compared case-insensitively.
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	// FindAll returns every user ordered by creation time, then id.
	FindAll(ctx context.Context) ([]*domain.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}
