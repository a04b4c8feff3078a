package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so the transport
// layer can map it with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrEmailTaken          = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrInvalidToken        = fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	ErrWeakSigningKey      = errors.New("signing key is shorter than the HS256 minimum")
)

// InvalidArgument builds an ErrInvalidArgument carrying a client-safe reason.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
