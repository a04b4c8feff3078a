package domain

import "time"

type AuditAction string

const (
	AuditConsentGranted AuditAction = "consent_granted"
	AuditConsentRevoked AuditAction = "consent_revoked"
	AuditLoginFailed    AuditAction = "login_failed"
)

// AuditEvent is a single auditable fact: who did what to whom, and when.
type AuditEvent struct {
	Action     AuditAction
	ActorID    string // empty for anonymous callers
	TargetID   string // user the event is about; empty when unknown
	Subject    string // e.g. the email presented at login
	Reason     string
	OccurredAt time.Time
}

// ShardKey returns the value used to keep per-user audit ordering.
func (e AuditEvent) ShardKey() string {
	if e.TargetID != "" {
		return e.TargetID
	}
	return e.Subject
}
