package events

import (
	"time"

	"github.com/spec-kit/repair-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted     EventType = "ticket_submitted"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services. Actor is the username
// of the authenticated caller; it is empty for the public intake path.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	ReferenceKey string                `json:"reference_key"`
	DeviceMake   string                `json:"device_make"`
	DeviceModel  string                `json:"device_model"`
	Priority     domain.TicketPriority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus  domain.TicketStatus `json:"old_status"`
	NewStatus  domain.TicketStatus `json:"new_status"`
	ResolvedBy string              `json:"resolved_by,omitempty"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	ReferenceKey string              `json:"reference_key"`
	Status       domain.TicketStatus `json:"status"`
}
