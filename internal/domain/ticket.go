package domain

import (
	"errors"
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for repair tickets.
type TicketStatus string

const (
	TicketStatusPending     TicketStatus = "pending"
	TicketStatusResolved    TicketStatus = "resolved"
	TicketStatusNotResolved TicketStatus = "not_resolved"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for laptop repair requests.
type Ticket struct {
	ID            string
	ReferenceKey  string
	RequesterName string
	DeviceMake    string
	DeviceModel   string
	Issue         string
	ContactInfo   *string
	Status        TicketStatus
	Priority      TicketPriority
	EstimatedCost *float64
	ActualCost    *float64
	ResolvedBy    *string
	Resolution    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransitionPayload carries the resolution data supplied with a status change.
type TransitionPayload struct {
	ResolvedBy string
	Resolution string
	ActualCost *float64
}

// ErrNotPending signals a transition attempted from a terminal state.
var ErrNotPending = errors.New("ticket is not pending")

// FieldError describes a rejected transition payload field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CanTransition validates a status change without touching storage. Tickets
// move from pending to exactly one of the two terminal states; resolving
// requires a resolver and resolution text, and any actual cost must be
// non-negative.
func CanTransition(current, target TicketStatus, payload TransitionPayload) error {
	if current != TicketStatusPending {
		return ErrNotPending
	}
	switch target {
	case TicketStatusResolved:
		if payload.ResolvedBy == "" {
			return &FieldError{Field: "resolved_by", Reason: "required to resolve a ticket"}
		}
		if payload.Resolution == "" {
			return &FieldError{Field: "resolution", Reason: "required to resolve a ticket"}
		}
		if payload.ActualCost != nil && *payload.ActualCost < 0 {
			return &FieldError{Field: "actual_cost", Reason: "must be non-negative"}
		}
		return nil
	case TicketStatusNotResolved:
		return nil
	default:
		return &FieldError{Field: "status", Reason: fmt.Sprintf("unknown target status %q", target)}
	}
}
