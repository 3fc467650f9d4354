package events

import (
	"time"

	"github.com/spec-kit/user-account-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoginSucceeded EventType = "user_login_succeeded"
	EventUserLoginFailed    EventType = "user_login_failed"
	EventUserRegistered     EventType = "user_registered"
	EventUserStatusChanged  EventType = "user_status_changed"
	EventUserDeleted        EventType = "user_deleted"
)

// Event represents a security-relevant occurrence emitted by services.
// Actor fields identify who performed the action, target fields the account
// acted upon. For login events actor and target coincide.
type Event struct {
	ID             string              `json:"id"`
	Type           EventType           `json:"type"`
	ActorIdentity  string              `json:"actor_identity,omitempty"`
	ActorID        string              `json:"actor_id,omitempty"`
	TargetIdentity string              `json:"target_identity,omitempty"`
	TargetID       string              `json:"target_id,omitempty"`
	Description    string              `json:"description,omitempty"`
	Outcome        domain.AuditOutcome `json:"outcome"`
	SourceAddress  string              `json:"source_address,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
}
