package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func strptr(s string) *string { return &s }

type MemoryTicketRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo *repository.MemoryTicketRepository
	base time.Time
}

func TestMemoryTicketRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryTicketRepositoryTestSuite))
}

func (s *MemoryTicketRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repository.NewMemoryTicketRepository()
	s.base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// seed stores a ticket, filling required fields left empty.
func (s *MemoryTicketRepositoryTestSuite) seed(ticket *domain.Ticket) *domain.Ticket {
	if ticket.Title == "" {
		ticket.Title = "seeded ticket"
	}
	if ticket.Type == "" {
		ticket.Type = domain.TicketTypeTask
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityNormal
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusBacklog
	}
	if ticket.CreatedBy == "" {
		ticket.CreatedBy = "alice"
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = s.base
	}
	if ticket.UpdatedAt.IsZero() {
		ticket.UpdatedAt = ticket.CreatedAt
	}
	s.Require().NoError(s.repo.Create(s.ctx, ticket))
	return ticket
}

func (s *MemoryTicketRepositoryTestSuite) TestCreate_StoredTicketDoesNotAliasCaller() {
	ticket := s.seed(&domain.Ticket{ID: "t-1", AssignedAgentID: strptr("bob")})

	// Mutating the caller's copy must not leak into the store.
	ticket.Title = "tampered"
	*ticket.AssignedAgentID = "mallory"

	stored, err := s.repo.GetByID(s.ctx, "t-1")
	s.Require().NoError(err)
	s.Equal("seeded ticket", stored.Title)
	s.Equal("bob", *stored.AssignedAgentID)
}

func (s *MemoryTicketRepositoryTestSuite) TestGetByID_ReturnedTicketDoesNotAliasStore() {
	s.seed(&domain.Ticket{ID: "t-1", AssignedAgentID: strptr("bob")})

	first, err := s.repo.GetByID(s.ctx, "t-1")
	s.Require().NoError(err)
	first.Title = "tampered"
	*first.AssignedAgentID = "mallory"

	second, err := s.repo.GetByID(s.ctx, "t-1")
	s.Require().NoError(err)
	s.Equal("seeded ticket", second.Title)
	s.Equal("bob", *second.AssignedAgentID)
}

func (s *MemoryTicketRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(s.ctx, "nope")
	s.ErrorIs(err, domain.ErrTicketNotFound)
}

func (s *MemoryTicketRepositoryTestSuite) TestList_FiltersByStatus() {
	s.seed(&domain.Ticket{ID: "t-1", Status: domain.TicketStatusBacklog})
	s.seed(&domain.Ticket{ID: "t-2", Status: domain.TicketStatusReady})
	s.seed(&domain.Ticket{ID: "t-3", Status: domain.TicketStatusDone})

	tickets, err := s.repo.List(s.ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusReady, domain.TicketStatusDone},
	})
	s.Require().NoError(err)
	s.Len(tickets, 2)
}

func (s *MemoryTicketRepositoryTestSuite) TestList_FiltersByAssignee() {
	s.seed(&domain.Ticket{ID: "t-1", AssignedAgentID: strptr("bob")})
	s.seed(&domain.Ticket{ID: "t-2", AssignedAgentID: strptr("alice")})
	s.seed(&domain.Ticket{ID: "t-3"})

	tickets, err := s.repo.List(s.ctx, repository.TicketFilter{AssignedTo: strptr("bob")})
	s.Require().NoError(err)
	s.Require().Len(tickets, 1)
	s.Equal("t-1", tickets[0].ID)

	tickets, err = s.repo.List(s.ctx, repository.TicketFilter{Unassigned: true})
	s.Require().NoError(err)
	s.Require().Len(tickets, 1)
	s.Equal("t-3", tickets[0].ID)
}

func (s *MemoryTicketRepositoryTestSuite) TestList_FiltersByPriority() {
	s.seed(&domain.Ticket{ID: "t-1", Priority: domain.TicketPriorityLow})
	s.seed(&domain.Ticket{ID: "t-2", Priority: domain.TicketPriorityCritical})

	tickets, err := s.repo.List(s.ctx, repository.TicketFilter{
		Priorities: []domain.TicketPriority{domain.TicketPriorityCritical},
	})
	s.Require().NoError(err)
	s.Require().Len(tickets, 1)
	s.Equal("t-2", tickets[0].ID)
}

func (s *MemoryTicketRepositoryTestSuite) TestList_FiltersOverdue() {
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	s.seed(&domain.Ticket{ID: "t-late", DueDate: &past})
	s.seed(&domain.Ticket{ID: "t-closed", DueDate: &past, Status: domain.TicketStatusDone})
	s.seed(&domain.Ticket{ID: "t-future", DueDate: &future})
	s.seed(&domain.Ticket{ID: "t-no-due"})

	tickets, err := s.repo.List(s.ctx, repository.TicketFilter{Overdue: true})
	s.Require().NoError(err)
	s.Require().Len(tickets, 1)
	s.Equal("t-late", tickets[0].ID, "done and future-due tickets are not overdue")
}

func (s *MemoryTicketRepositoryTestSuite) TestList_FiltersDueBefore() {
	horizon := s.base.Add(72 * time.Hour)
	within := s.base.Add(24 * time.Hour)
	at := horizon
	beyond := s.base.Add(100 * time.Hour)
	s.seed(&domain.Ticket{ID: "t-within", DueDate: &within})
	s.seed(&domain.Ticket{ID: "t-at", DueDate: &at})
	s.seed(&domain.Ticket{ID: "t-beyond", DueDate: &beyond})
	s.seed(&domain.Ticket{ID: "t-no-due"})

	tickets, err := s.repo.List(s.ctx, repository.TicketFilter{DueBefore: &horizon})
	s.Require().NoError(err)
	s.Require().Len(tickets, 1)
	s.Equal("t-within", tickets[0].ID, "the horizon is exclusive and undated tickets never match")
}

func (s *MemoryTicketRepositoryTestSuite) TestList_OrdersByPriorityThenAge() {
	s.seed(&domain.Ticket{ID: "t-normal-old", Priority: domain.TicketPriorityNormal, CreatedAt: s.base})
	s.seed(&domain.Ticket{ID: "t-critical", Priority: domain.TicketPriorityCritical, CreatedAt: s.base.Add(2 * time.Hour)})
	s.seed(&domain.Ticket{ID: "t-high", Priority: domain.TicketPriorityHigh, CreatedAt: s.base.Add(time.Hour)})
	s.seed(&domain.Ticket{ID: "t-normal-new", Priority: domain.TicketPriorityNormal, CreatedAt: s.base.Add(time.Hour)})

	tickets, err := s.repo.List(s.ctx, repository.TicketFilter{})
	s.Require().NoError(err)
	s.Require().Len(tickets, 4)

	ids := make([]string, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}
	s.Equal([]string{"t-critical", "t-high", "t-normal-old", "t-normal-new"}, ids)
}

func (s *MemoryTicketRepositoryTestSuite) TestList_TiesBreakOnID() {
	s.seed(&domain.Ticket{ID: "t-b", CreatedAt: s.base})
	s.seed(&domain.Ticket{ID: "t-a", CreatedAt: s.base})

	tickets, err := s.repo.List(s.ctx, repository.TicketFilter{})
	s.Require().NoError(err)
	s.Require().Len(tickets, 2)
	s.Equal("t-a", tickets[0].ID)
	s.Equal("t-b", tickets[1].ID)
}

func (s *MemoryTicketRepositoryTestSuite) TestList_Pagination() {
	for i, id := range []string{"t-1", "t-2", "t-3", "t-4", "t-5"} {
		s.seed(&domain.Ticket{ID: id, CreatedAt: s.base.Add(time.Duration(i) * time.Minute)})
	}

	page, err := s.repo.List(s.ctx, repository.TicketFilter{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("t-1", page[0].ID)
	s.Equal("t-2", page[1].ID)

	page, err = s.repo.List(s.ctx, repository.TicketFilter{Offset: 2, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("t-3", page[0].ID)
	s.Equal("t-4", page[1].ID)

	page, err = s.repo.List(s.ctx, repository.TicketFilter{Offset: 10})
	s.Require().NoError(err)
	s.Empty(page)
}

func (s *MemoryTicketRepositoryTestSuite) TestUpdateStatus_MovesTicket() {
	s.seed(&domain.Ticket{ID: "t-1", Status: domain.TicketStatusBacklog})

	updated, err := s.repo.UpdateStatus(s.ctx, "t-1", domain.TicketStatusBacklog, domain.TicketStatusReady)
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusReady, updated.Status)
	s.True(updated.UpdatedAt.After(updated.CreatedAt))

	stored, err := s.repo.GetByID(s.ctx, "t-1")
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusReady, stored.Status)
}

func (s *MemoryTicketRepositoryTestSuite) TestUpdateStatus_ConflictOnStaleFrom() {
	s.seed(&domain.Ticket{ID: "t-1", Status: domain.TicketStatusBacklog})

	_, err := s.repo.UpdateStatus(s.ctx, "t-1", domain.TicketStatusReady, domain.TicketStatusInProgress)
	s.Require().Error(err)
	s.ErrorIs(err, domain.ErrStatusConflict)
	s.Contains(err.Error(), "is BACKLOG, expected READY")

	stored, err := s.repo.GetByID(s.ctx, "t-1")
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusBacklog, stored.Status)
}

func (s *MemoryTicketRepositoryTestSuite) TestUpdateStatus_NotFound() {
	_, err := s.repo.UpdateStatus(s.ctx, "nope", domain.TicketStatusBacklog, domain.TicketStatusReady)
	s.ErrorIs(err, domain.ErrTicketNotFound)
}

func (s *MemoryTicketRepositoryTestSuite) TestUpdateAssignee_SetsAndClears() {
	s.seed(&domain.Ticket{ID: "t-1"})

	updated, err := s.repo.UpdateAssignee(s.ctx, "t-1", strptr("bob"))
	s.Require().NoError(err)
	s.Require().NotNil(updated.AssignedAgentID)
	s.Equal("bob", *updated.AssignedAgentID)

	updated, err = s.repo.UpdateAssignee(s.ctx, "t-1", nil)
	s.Require().NoError(err)
	s.Nil(updated.AssignedAgentID)
}

func (s *MemoryTicketRepositoryTestSuite) TestUpdateAssignee_NotFound() {
	_, err := s.repo.UpdateAssignee(s.ctx, "nope", strptr("bob"))
	s.ErrorIs(err, domain.ErrTicketNotFound)
}

func journalEvent(seq uint64, typ domain.EventType, at time.Time) *domain.Event {
	payload, ok := domain.NewPayload(typ)
	if !ok {
		panic("unknown event type in test fixture: " + string(typ))
	}
	ev := domain.NewEvent(domain.SystemSource(), domain.UrgencyMedium, payload)
	ev.Sequence = seq
	ev.Timestamp = at
	return ev
}

func TestMemoryEventJournal_AppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	journal := repository.NewMemoryEventJournal()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, journal.Append(ctx, journalEvent(i, domain.EventTypeTaskCreated, base.Add(time.Duration(i)*time.Minute))))
	}

	events, err := journal.List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Sequence)
	}
}

func TestMemoryEventJournal_ListFilters(t *testing.T) {
	ctx := context.Background()
	journal := repository.NewMemoryEventJournal()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, journal.Append(ctx, journalEvent(1, domain.EventTypeTaskCreated, base)))
	require.NoError(t, journal.Append(ctx, journalEvent(2, domain.EventTypeQuestionRaised, base.Add(time.Minute))))
	require.NoError(t, journal.Append(ctx, journalEvent(3, domain.EventTypeTaskCreated, base.Add(2*time.Minute))))

	events, err := journal.List(ctx, repository.EventFilter{Types: []domain.EventType{domain.EventTypeTaskCreated}})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	since := base.Add(time.Minute)
	events, err = journal.List(ctx, repository.EventFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, events, 2, "since is inclusive")

	events, err = journal.List(ctx, repository.EventFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(1), events[0].Sequence)
}

func TestMemoryEventJournal_LastSequence(t *testing.T) {
	ctx := context.Background()
	journal := repository.NewMemoryEventJournal()

	last, err := journal.LastSequence(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, journal.Append(ctx, journalEvent(7, domain.EventTypeTaskCreated, base)))
	require.NoError(t, journal.Append(ctx, journalEvent(8, domain.EventTypeTaskCompleted, base.Add(time.Minute))))

	last, err = journal.LastSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), last)
}
