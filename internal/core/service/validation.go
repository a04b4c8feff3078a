package service

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

var validate = validator.New()

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.InvalidArgument("name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return domain.InvalidArgument("name must be at most %d characters", domain.MaxNameLength)
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return domain.InvalidArgument("email must be a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return domain.InvalidArgument("password must be at least %d characters", domain.MinPasswordLength)
	}
	if len(password) > domain.MaxPasswordBytes {
		return domain.InvalidArgument("password must be at most %d bytes", domain.MaxPasswordBytes)
	}
	return nil
}

func validateRole(role domain.Role) error {
	if !role.Valid() {
		return domain.InvalidArgument("role must be one of: USER ADMIN")
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return domain.InvalidArgument("description must be at most %d characters", domain.MaxDescriptionLength)
	}
	return nil
}

func validateTransactionType(t domain.TransactionType) error {
	if !t.Valid() {
		return domain.InvalidArgument("type must be one of: DEPOSIT WITHDRAWAL DEBIT CREDIT")
	}
	return nil
}

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
