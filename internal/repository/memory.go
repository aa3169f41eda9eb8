package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mtlprog/slopmesh/internal/domain"
)

// MemoryTicketRepository keeps tickets in process memory guarded by a mutex.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
}

// NewMemoryTicketRepository creates an empty MemoryTicketRepository.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{tickets: make(map[string]*domain.Ticket)}
}

// Create persists a new ticket.
func (r *MemoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tickets[ticket.ID] = ticket.Clone()
	return nil
}

// GetByID retrieves a ticket by ID.
func (r *MemoryTicketRepository) GetByID(_ context.Context, ticketID string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, ok := r.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
	}
	return ticket.Clone(), nil
}

// List retrieves tickets matching the filter, critical priority first and
// oldest first within the same priority.
func (r *MemoryTicketRepository) List(_ context.Context, filter TicketFilter) ([]*domain.Ticket, error) {
	now := time.Now().UTC()

	r.mu.RLock()
	matched := make([]*domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		if matchTicket(ticket, filter, now) {
			matched = append(matched, ticket.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		ri, rj := matched[i].Priority.Urgency().Rank(), matched[j].Priority.Urgency().Rank()
		if ri != rj {
			return ri > rj
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*domain.Ticket{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// UpdateStatus moves a ticket between statuses with optimistic locking.
func (r *MemoryTicketRepository) UpdateStatus(_ context.Context, ticketID string, from, to domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
	}
	if ticket.Status != from {
		return nil, fmt.Errorf("%w: ticket %s is %s, expected %s", domain.ErrStatusConflict, ticketID, ticket.Status, from)
	}

	ticket.Status = to
	ticket.UpdatedAt = time.Now().UTC()
	return ticket.Clone(), nil
}

// UpdateAssignee sets or clears the assigned agent.
func (r *MemoryTicketRepository) UpdateAssignee(_ context.Context, ticketID string, agentID *string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
	}

	if agentID != nil {
		id := *agentID
		ticket.AssignedAgentID = &id
	} else {
		ticket.AssignedAgentID = nil
	}
	ticket.UpdatedAt = time.Now().UTC()
	return ticket.Clone(), nil
}

func matchTicket(ticket *domain.Ticket, filter TicketFilter, now time.Time) bool {
	if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, ticket.Status) {
		return false
	}
	if filter.Unassigned {
		if ticket.AssignedAgentID != nil {
			return false
		}
	} else if filter.AssignedTo != nil {
		if !ticket.IsAssignedTo(*filter.AssignedTo) {
			return false
		}
	}
	if len(filter.Priorities) > 0 && !slices.Contains(filter.Priorities, ticket.Priority) {
		return false
	}
	if filter.Overdue && !ticket.IsOverdue(now) {
		return false
	}
	if filter.DueBefore != nil {
		if ticket.DueDate == nil || !ticket.DueDate.Before(*filter.DueBefore) {
			return false
		}
	}
	return true
}

// MemoryEventJournal keeps the event journal in process memory. Events are
// immutable after dispatch, so it stores and returns shared pointers.
type MemoryEventJournal struct {
	mu     sync.RWMutex
	events []*domain.Event
}

// NewMemoryEventJournal creates an empty MemoryEventJournal.
func NewMemoryEventJournal() *MemoryEventJournal {
	return &MemoryEventJournal{}
}

// Append persists an event. The bus appends in dispatch order, so the slice
// stays sorted by sequence number.
func (j *MemoryEventJournal) Append(_ context.Context, event *domain.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.events = append(j.events, event)
	return nil
}

// LastSequence returns the highest stored sequence number.
func (j *MemoryEventJournal) LastSequence(_ context.Context) (uint64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if len(j.events) == 0 {
		return 0, nil
	}
	return j.events[len(j.events)-1].Sequence, nil
}

// List retrieves events matching the filter in sequence order.
func (j *MemoryEventJournal) List(_ context.Context, filter EventFilter) ([]*domain.Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var events []*domain.Event
	for _, event := range j.events {
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, event.Type) {
			continue
		}
		if filter.Since != nil && event.Timestamp.Before(*filter.Since) {
			continue
		}
		events = append(events, event)
		if filter.Limit > 0 && len(events) == filter.Limit {
			break
		}
	}
	return events, nil
}
