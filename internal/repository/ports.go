// Package repository provides persistence for tickets and the event journal.
// Two implementations exist for each store: an in-memory one used by tests
// and single-process deployments, and a PostgreSQL one for durable setups.
package repository

import (
	"context"
	"time"

	"github.com/mtlprog/slopmesh/internal/domain"
)

// TicketFilter holds all supported filters for ticket listing.
// The zero value matches every ticket.
type TicketFilter struct {
	Statuses   []domain.TicketStatus   // Optional: filter by status
	AssignedTo *string                 // Optional: filter by assigned agent
	Unassigned bool                    // Optional: show only unassigned
	Priorities []domain.TicketPriority // Optional: filter by priority
	Overdue    bool                    // Optional: show only past-due, not yet done
	DueBefore  *time.Time              // Optional: show only tickets due before this instant
	Limit      int                     // Optional: page size, 0 means unlimited
	Offset     int                     // Optional: page offset
}

// EventFilter holds all supported filters for journal queries.
// The zero value matches every event.
type EventFilter struct {
	Types []domain.EventType // Optional: filter by event type
	Since *time.Time         // Optional: only events at or after this instant
	Limit int                // Optional: max events returned, 0 means unlimited
}

// TicketRepository stores tickets. Implementations must never return tickets
// that alias their internal state.
type TicketRepository interface {
	// Create persists a new ticket.
	Create(ctx context.Context, ticket *domain.Ticket) error

	// GetByID retrieves a ticket by ID.
	// Returns domain.ErrTicketNotFound if no such ticket exists.
	GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error)

	// List retrieves tickets matching the filter, ordered by priority
	// (critical first) and then by creation time.
	List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error)

	// UpdateStatus moves a ticket between statuses with optimistic locking.
	// Returns domain.ErrStatusConflict if the stored status no longer equals
	// from, and domain.ErrTicketNotFound if the ticket does not exist.
	UpdateStatus(ctx context.Context, ticketID string, from, to domain.TicketStatus) (*domain.Ticket, error)

	// UpdateAssignee sets or clears the assigned agent.
	UpdateAssignee(ctx context.Context, ticketID string, agentID *string) (*domain.Ticket, error)
}

// EventJournal is the durable record of every event the bus dispatched.
type EventJournal interface {
	// Append persists an event. The bus has already assigned its sequence
	// number, so appends arrive in total order.
	Append(ctx context.Context, event *domain.Event) error

	// List retrieves events matching the filter in sequence order.
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, error)

	// LastSequence returns the highest stored sequence number, or zero for
	// an empty journal. The bus resumes numbering from it on startup.
	LastSequence(ctx context.Context) (uint64, error)
}
