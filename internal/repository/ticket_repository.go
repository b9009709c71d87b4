package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-tracker/internal/domain"
	"github.com/spec-kit/repair-tracker/internal/persistence"
	apperrors "github.com/spec-kit/repair-tracker/pkg/util"
)

// ListOrder selects the sort column for status listings.
type ListOrder string

const (
	OrderCreatedDesc ListOrder = "created_at DESC"
	OrderUpdatedDesc ListOrder = "updated_at DESC"
)

// TicketPatch is the field set applied by a conditional status update.
type TicketPatch struct {
	Status     domain.TicketStatus
	ResolvedBy *string
	Resolution *string
	ActualCost *float64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Insert(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByStatus(ctx context.Context, statuses []domain.TicketStatus, order ListOrder) ([]domain.Ticket, error)
	// UpdateIfStatus applies the patch only while the ticket still has the
	// expected status. pgx.ErrNoRows signals the precondition failed.
	UpdateIfStatus(ctx context.Context, id string, expected domain.TicketStatus, patch TicketPatch) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ticketRepository struct {
	pg *persistence.Postgres
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pg *persistence.Postgres) TicketRepository {
	return &ticketRepository{pg: pg}
}

const ticketColumns = `id, reference_key, requester_name, device_make, device_model, issue,
               contact_info, status, priority, estimated_cost, actual_cost,
               resolved_by, resolution, created_at, updated_at`

func (r *ticketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	pool, err := r.pg.Pool(ctx)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	const query = `
        INSERT INTO tickets (reference_key, requester_name, device_make, device_model, issue,
                             contact_info, status, priority, estimated_cost)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return pool.QueryRow(ctx, query,
		ticket.ReferenceKey,
		ticket.RequesterName,
		ticket.DeviceMake,
		ticket.DeviceModel,
		ticket.Issue,
		ticket.ContactInfo,
		ticket.Status,
		ticket.Priority,
		ticket.EstimatedCost,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	pool, err := r.pg.Pool(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return scanTicket(pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) ListByStatus(ctx context.Context, statuses []domain.TicketStatus, order ListOrder) ([]domain.Ticket, error) {
	pool, err := r.pg.Pool(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = status
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE status IN (%s) ORDER BY %s`,
		ticketColumns, strings.Join(placeholders, ","), order)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) UpdateIfStatus(ctx context.Context, id string, expected domain.TicketStatus, patch TicketPatch) (*domain.Ticket, error) {
	pool, err := r.pg.Pool(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	query := fmt.Sprintf(`
        UPDATE tickets
        SET status=$1, resolved_by=$2, resolution=$3, actual_cost=$4, updated_at=NOW()
        WHERE id=$5 AND status=$6
        RETURNING %s`, ticketColumns)

	return scanTicket(pool.QueryRow(ctx, query,
		patch.Status,
		patch.ResolvedBy,
		patch.Resolution,
		patch.ActualCost,
		id,
		expected,
	))
}

func (r *ticketRepository) Delete(ctx context.Context, id string) (bool, error) {
	pool, err := r.pg.Pool(ctx)
	if err != nil {
		return false, apperrors.NewStoreUnavailable(err)
	}

	cmd, err := pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ReferenceKey,
		&ticket.RequesterName,
		&ticket.DeviceMake,
		&ticket.DeviceModel,
		&ticket.Issue,
		&ticket.ContactInfo,
		&ticket.Status,
		&ticket.Priority,
		&ticket.EstimatedCost,
		&ticket.ActualCost,
		&ticket.ResolvedBy,
		&ticket.Resolution,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
