package dto

import (
	"time"

	"github.com/spec-kit/repair-tracker/internal/domain"
)

// SubmitTicketRequest payload for the public intake endpoint.
type SubmitTicketRequest struct {
	RequesterName string                `json:"requester_name"`
	DeviceMake    string                `json:"device_make"`
	DeviceModel   string                `json:"device_model"`
	Issue         string                `json:"issue"`
	ContactInfo   string                `json:"contact_info"`
	Priority      domain.TicketPriority `json:"priority"`
	EstimatedCost *float64              `json:"estimated_cost"`
}

// TransitionRequest payload for a status change.
type TransitionRequest struct {
	Status     domain.TicketStatus `json:"status"`
	ResolvedBy string              `json:"resolved_by"`
	Resolution string              `json:"resolution"`
	ActualCost *float64            `json:"actual_cost"`
}

// TicketResponse is the full ticket record.
type TicketResponse struct {
	ID            string                `json:"id"`
	ReferenceKey  string                `json:"reference_key"`
	RequesterName string                `json:"requester_name"`
	DeviceMake    string                `json:"device_make"`
	DeviceModel   string                `json:"device_model"`
	Issue         string                `json:"issue"`
	ContactInfo   *string               `json:"contact_info,omitempty"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	EstimatedCost *float64              `json:"estimated_cost,omitempty"`
	ActualCost    *float64              `json:"actual_cost,omitempty"`
	ResolvedBy    *string               `json:"resolved_by,omitempty"`
	Resolution    *string               `json:"resolution,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}
