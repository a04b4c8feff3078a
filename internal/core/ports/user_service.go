package ports

import (
	"context"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

// CreateUserInput carries registration data. An empty Role means USER.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Consent  bool
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *domain.Role
}

// UserFilter narrows FindAll; nil fields match everything.
type UserFilter struct {
	Name  *string
	Email *string
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.UserView, error)
	FindByID(ctx context.Context, id string) (*domain.UserView, error)
	FindAll(ctx context.Context, filter UserFilter) ([]domain.UserView, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.UserView, error)
	Delete(ctx context.Context, id string) error
	SetConsent(ctx context.Context, id string, granted bool) (*domain.UserView, error)
}
