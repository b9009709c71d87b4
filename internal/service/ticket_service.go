package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-tracker/internal/domain"
	"github.com/spec-kit/repair-tracker/internal/events"
	"github.com/spec-kit/repair-tracker/internal/repository"
	apperrors "github.com/spec-kit/repair-tracker/pkg/util"
)

// TicketService enforces the ticket lifecycle: tickets enter as pending and
// leave through exactly one terminal transition. It holds no ticket state
// between calls; every operation re-reads the store.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// SubmitInput describes the public intake payload.
type SubmitInput struct {
	RequesterName string
	DeviceMake    string
	DeviceModel   string
	Issue         string
	ContactInfo   string
	Priority      domain.TicketPriority
	EstimatedCost *float64
}

// Submit validates and creates a new pending ticket. No authentication is
// required; intake is public.
func (s *TicketService) Submit(ctx context.Context, input SubmitInput) (*domain.Ticket, error) {
	requester := strings.TrimSpace(input.RequesterName)
	deviceMake := strings.TrimSpace(input.DeviceMake)
	deviceModel := strings.TrimSpace(input.DeviceModel)
	issue := strings.TrimSpace(input.Issue)

	missing := map[string]any{}
	if requester == "" {
		missing["requester_name"] = "required"
	}
	if deviceMake == "" {
		missing["device_make"] = "required"
	}
	if deviceModel == "" {
		missing["device_model"] = "required"
	}
	if issue == "" {
		missing["issue"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", missing)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(priority)})
	}
	if input.EstimatedCost != nil && *input.EstimatedCost < 0 {
		return nil, apperrors.NewValidationError("estimated cost must be non-negative", nil)
	}

	ticket := &domain.Ticket{
		ReferenceKey:  generateReferenceKey(),
		RequesterName: requester,
		DeviceMake:    deviceMake,
		DeviceModel:   deviceModel,
		Issue:         issue,
		Status:        domain.TicketStatusPending,
		Priority:      priority,
		EstimatedCost: input.EstimatedCost,
	}
	if contact := strings.TrimSpace(input.ContactInfo); contact != "" {
		ticket.ContactInfo = &contact
	}

	if err := s.tickets.Insert(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: ticket.ID,
		Payload: events.TicketSubmittedPayload{
			ReferenceKey: ticket.ReferenceKey,
			DeviceMake:   ticket.DeviceMake,
			DeviceModel:  ticket.DeviceModel,
			Priority:     ticket.Priority,
		},
	})
	return ticket, nil
}

// ListPending returns pending tickets, newest submission first.
func (s *TicketService) ListPending(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListByStatus(ctx,
		[]domain.TicketStatus{domain.TicketStatusPending},
		repository.OrderCreatedDesc)
}

// ListResolved returns terminal tickets, most recently worked first.
func (s *TicketService) ListResolved(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListByStatus(ctx,
		[]domain.TicketStatus{domain.TicketStatusResolved, domain.TicketStatusNotResolved},
		repository.OrderUpdatedDesc)
}

// Get fetches a single ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	return ticket, nil
}

// Transition moves a pending ticket to a terminal status. The write is
// conditional on the ticket still being pending, so concurrent transitions
// against the same ticket produce exactly one winner; the loser observes an
// invalid transition.
func (s *TicketService) Transition(ctx context.Context, actor, id string, target domain.TicketStatus, payload domain.TransitionPayload) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	payload.ResolvedBy = strings.TrimSpace(payload.ResolvedBy)
	payload.Resolution = strings.TrimSpace(payload.Resolution)

	if err := domain.CanTransition(ticket.Status, target, payload); err != nil {
		if errors.Is(err, domain.ErrNotPending) {
			return nil, apperrors.NewInvalidTransition("ticket already in a terminal state",
				map[string]any{"status": string(ticket.Status)})
		}
		var fieldErr *domain.FieldError
		if errors.As(err, &fieldErr) {
			return nil, apperrors.NewValidationError(fieldErr.Error(), map[string]any{fieldErr.Field: fieldErr.Reason})
		}
		return nil, err
	}

	patch := repository.TicketPatch{Status: target}
	if target == domain.TicketStatusResolved {
		patch.ResolvedBy = &payload.ResolvedBy
		patch.Resolution = &payload.Resolution
		patch.ActualCost = payload.ActualCost
	}

	updated, err := s.tickets.UpdateIfStatus(ctx, id, domain.TicketStatusPending, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race to a concurrent transition
			return nil, apperrors.NewInvalidTransition("ticket already in a terminal state", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: updated.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus:  domain.TicketStatusPending,
			NewStatus:  updated.Status,
			ResolvedBy: payload.ResolvedBy,
		},
	})
	return updated, nil
}

// Remove deletes a ticket regardless of its status.
func (s *TicketService) Remove(ctx context.Context, actor, id string) error {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketDeletedPayload{
			ReferenceKey: ticket.ReferenceKey,
			Status:       ticket.Status,
		},
	})
	return nil
}

func generateReferenceKey() string {
	return "RPR-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
