package domain_test

import (
	"testing"
	"time"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []domain.TicketStatus{
	domain.TicketStatusBacklog,
	domain.TicketStatusReady,
	domain.TicketStatusInProgress,
	domain.TicketStatusBlocked,
	domain.TicketStatusInReview,
	domain.TicketStatusDone,
}

// TestTicketStatus_CanTransitionTo checks the full transition table: every
// pair not listed as allowed must be rejected.
func TestTicketStatus_CanTransitionTo(t *testing.T) {
	allowed := map[domain.TicketStatus][]domain.TicketStatus{
		domain.TicketStatusBacklog:    {domain.TicketStatusReady, domain.TicketStatusDone},
		domain.TicketStatusReady:      {domain.TicketStatusInProgress},
		domain.TicketStatusInProgress: {domain.TicketStatusBlocked, domain.TicketStatusInReview, domain.TicketStatusDone},
		domain.TicketStatusBlocked:    {domain.TicketStatusInProgress},
		domain.TicketStatusInReview:   {domain.TicketStatusInProgress, domain.TicketStatusDone},
		domain.TicketStatusDone:       {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTicketStatus_SelfTransitionRejected(t *testing.T) {
	for _, status := range allStatuses {
		assert.False(t, status.CanTransitionTo(status), "%s -> %s", status, status)
	}
}

func TestTicketStatus_IsTerminal(t *testing.T) {
	for _, status := range allStatuses {
		assert.Equal(t, status == domain.TicketStatusDone, status.IsTerminal(), "%s", status)
	}
}

func TestTicketStatus_IsActive(t *testing.T) {
	active := map[domain.TicketStatus]bool{
		domain.TicketStatusReady:      true,
		domain.TicketStatusInProgress: true,
		domain.TicketStatusBlocked:    true,
		domain.TicketStatusInReview:   true,
	}
	for _, status := range allStatuses {
		assert.Equal(t, active[status], status.IsActive(), "%s", status)
	}
}

func TestTicketStatus_IsValid(t *testing.T) {
	for _, status := range allStatuses {
		assert.True(t, status.IsValid(), "%s", status)
	}
	assert.False(t, domain.TicketStatus("").IsValid())
	assert.False(t, domain.TicketStatus("backlog").IsValid(), "statuses are uppercase")
	assert.False(t, domain.TicketStatus("CANCELLED").IsValid())
}

func TestTicketType_IsValid(t *testing.T) {
	for _, typ := range []domain.TicketType{
		domain.TicketTypeTask, domain.TicketTypeBug, domain.TicketTypeFeature, domain.TicketTypeResearch,
	} {
		assert.True(t, typ.IsValid(), "%s", typ)
	}
	assert.False(t, domain.TicketType("").IsValid())
	assert.False(t, domain.TicketType("TASK").IsValid(), "types are lowercase")
}

func TestTicketPriority_Urgency(t *testing.T) {
	assert.Equal(t, domain.UrgencyLow, domain.TicketPriorityLow.Urgency())
	assert.Equal(t, domain.UrgencyMedium, domain.TicketPriorityNormal.Urgency())
	assert.Equal(t, domain.UrgencyHigh, domain.TicketPriorityHigh.Urgency())
	assert.Equal(t, domain.UrgencyCritical, domain.TicketPriorityCritical.Urgency())
}

func TestTicket_IsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	ticket := &domain.Ticket{Status: domain.TicketStatusInProgress}
	assert.False(t, ticket.IsOverdue(now), "no due date")

	ticket.DueDate = &future
	assert.False(t, ticket.IsOverdue(now), "due date ahead")

	ticket.DueDate = &past
	assert.True(t, ticket.IsOverdue(now), "due date behind")

	ticket.Status = domain.TicketStatusDone
	assert.False(t, ticket.IsOverdue(now), "done tickets are never overdue")
}

func TestTicket_Clone(t *testing.T) {
	assignee := "alice"
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	original := &domain.Ticket{
		ID:              "t-1",
		Title:           "Original",
		Status:          domain.TicketStatusBacklog,
		AssignedAgentID: &assignee,
		DueDate:         &due,
	}

	clone := original.Clone()
	require.NotSame(t, original, clone)

	*clone.AssignedAgentID = "bob"
	*clone.DueDate = due.Add(time.Hour)
	clone.Title = "Changed"

	assert.Equal(t, "alice", *original.AssignedAgentID)
	assert.True(t, original.DueDate.Equal(due))
	assert.Equal(t, "Original", original.Title)
}
