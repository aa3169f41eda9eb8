package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/slopmesh/internal/domain"
)

// ticketColumns is the shared list of columns for ticket queries.
var ticketColumns = []string{
	"id", "title", "description", "type", "priority", "status",
	"assigned_agent_id", "created_by", "due_date", "created_at", "updated_at",
}

// priorityOrder ranks priorities for sorting, critical first.
const priorityOrder = "CASE priority WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'normal' THEN 3 WHEN 'low' THEN 4 END"

// PostgresTicketRepository handles database operations for tickets.
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository.
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

// scanTicket scans a single row into a Ticket struct.
func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Type,
		&ticket.Priority,
		&ticket.Status,
		&ticket.AssignedAgentID,
		&ticket.CreatedBy,
		&ticket.DueDate,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return &ticket, nil
}

// scanTickets scans multiple rows into a slice of Ticket structs.
func scanTickets(rows pgx.Rows) ([]*domain.Ticket, error) {
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tickets, nil
}

// Create persists a new ticket. The caller has already populated the ID and
// timestamps, so both store implementations behave identically.
func (r *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query, args, err := psql.
		Insert("tickets").
		Columns(ticketColumns...).
		Values(
			ticket.ID,
			ticket.Title,
			ticket.Description,
			ticket.Type,
			ticket.Priority,
			ticket.Status,
			ticket.AssignedAgentID,
			ticket.CreatedBy,
			ticket.DueDate,
			ticket.CreatedAt,
			ticket.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for ticket: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket by ID.
func (r *PostgresTicketRepository) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query, args, err := psql.
		Select(ticketColumns...).
		From("tickets").
		Where(sq.Eq{"id": ticketID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for ticket: %w", err)
	}

	return scanTicket(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves tickets matching the filter, critical priority first and
// oldest first within the same priority.
func (r *PostgresTicketRepository) List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error) {
	qb := psql.Select(ticketColumns...).From("tickets")

	if len(filter.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": filter.Statuses})
	}
	if filter.Unassigned {
		qb = qb.Where(sq.Eq{"assigned_agent_id": nil})
	} else if filter.AssignedTo != nil {
		qb = qb.Where(sq.Eq{"assigned_agent_id": *filter.AssignedTo})
	}
	if len(filter.Priorities) > 0 {
		qb = qb.Where(sq.Eq{"priority": filter.Priorities})
	}
	if filter.Overdue {
		qb = qb.Where("due_date < NOW()").Where(sq.NotEq{"status": domain.TicketStatusDone})
	}
	if filter.DueBefore != nil {
		qb = qb.Where(sq.Lt{"due_date": *filter.DueBefore})
	}

	qb = qb.OrderBy(priorityOrder+" ASC", "created_at ASC", "id ASC")

	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for tickets: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}

	return scanTickets(rows)
}

// UpdateStatus moves a ticket between statuses with optimistic locking.
// Returns domain.ErrStatusConflict if the stored status no longer equals from.
func (r *PostgresTicketRepository) UpdateStatus(ctx context.Context, ticketID string, from, to domain.TicketStatus) (*domain.Ticket, error) {
	query, args, err := psql.
		Update("tickets").
		Set("status", to).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     ticketID,
			"status": from,
		}).
		Suffix("RETURNING " + strings.Join(ticketColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateStatus query for ticket %s: %w", ticketID, err)
	}

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, domain.ErrTicketNotFound) {
		// No row matched: either the ticket is gone or its status moved.
		if _, getErr := r.GetByID(ctx, ticketID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: ticket %s is no longer %s", domain.ErrStatusConflict, ticketID, from)
	}
	return ticket, err
}

// UpdateAssignee sets or clears the assigned agent.
func (r *PostgresTicketRepository) UpdateAssignee(ctx context.Context, ticketID string, agentID *string) (*domain.Ticket, error) {
	query, args, err := psql.
		Update("tickets").
		Set("assigned_agent_id", agentID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": ticketID}).
		Suffix("RETURNING " + strings.Join(ticketColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateAssignee query for ticket %s: %w", ticketID, err)
	}

	return scanTicket(r.pool.QueryRow(ctx, query, args...))
}
