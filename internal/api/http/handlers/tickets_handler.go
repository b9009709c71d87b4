package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-tracker/internal/api/dto"
	"github.com/spec-kit/repair-tracker/internal/auth"
	"github.com/spec-kit/repair-tracker/internal/domain"
	"github.com/spec-kit/repair-tracker/internal/service"
	apperrors "github.com/spec-kit/repair-tracker/pkg/util"
)

// TicketsHandler manages repair ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Submit POST /tickets. Public intake, no session required.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Submit(c.Context(), service.SubmitInput{
		RequesterName: req.RequesterName,
		DeviceMake:    req.DeviceMake,
		DeviceModel:   req.DeviceModel,
		Issue:         req.Issue,
		ContactInfo:   req.ContactInfo,
		Priority:      req.Priority,
		EstimatedCost: req.EstimatedCost,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": ticketResponse(ticket)})
}

// ListPending GET /tickets/pending.
func (h *TicketsHandler) ListPending(c *fiber.Ctx) error {
	tickets, err := h.service.ListPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": ticketResponses(tickets)})
}

// ListResolved GET /tickets/resolved.
func (h *TicketsHandler) ListResolved(c *fiber.Ctx) error {
	tickets, err := h.service.ListResolved(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": ticketResponses(tickets)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": ticketResponse(ticket)})
}

// Transition PUT /tickets/:id/status.
func (h *TicketsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("session required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	ticket, err := h.service.Transition(c.Context(), principal.Username, c.Params("id"), req.Status, domain.TransitionPayload{
		ResolvedBy: req.ResolvedBy,
		Resolution: req.Resolution,
		ActualCost: req.ActualCost,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": ticketResponse(ticket)})
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("session required")
	}
	if err := h.service.Remove(c.Context(), principal.Username, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:            ticket.ID,
		ReferenceKey:  ticket.ReferenceKey,
		RequesterName: ticket.RequesterName,
		DeviceMake:    ticket.DeviceMake,
		DeviceModel:   ticket.DeviceModel,
		Issue:         ticket.Issue,
		ContactInfo:   ticket.ContactInfo,
		Status:        ticket.Status,
		Priority:      ticket.Priority,
		EstimatedCost: ticket.EstimatedCost,
		ActualCost:    ticket.ActualCost,
		ResolvedBy:    ticket.ResolvedBy,
		Resolution:    ticket.Resolution,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}
