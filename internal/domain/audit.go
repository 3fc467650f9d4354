package domain

import "time"

// AuditOutcome classifies an audited action.
type AuditOutcome string

const (
	AuditOutcomeSuccess AuditOutcome = "SUCCESS"
	AuditOutcomeFailure AuditOutcome = "FAILURE"
)

// AuditEntry records a security-relevant action. Writes are best-effort and
// never affect the outcome of the action being audited.
type AuditEntry struct {
	ID             string
	EventType      string
	ActorIdentity  string
	ActorID        string
	TargetIdentity string
	TargetID       string
	Description    string
	Outcome        AuditOutcome
	SourceAddress  string
	CreatedAt      time.Time
}
