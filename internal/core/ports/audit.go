package ports

import (
	"context"

	"github.com/gamblers/ledger-api/internal/core/domain"
)

// AuditRecorder receives auditable events. Implementations must not block the
// caller on slow storage.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event domain.AuditEvent) error
}
