package service_test

import (
	"testing"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyReason(t *testing.T) {
	cases := []struct {
		reason string
		want   domain.EscalationCategory
	}{
		{"need sign-off from the security team", domain.EscalationAuthorization},
		{"customer has not confirmed the contract terms", domain.EscalationExternalCustomer},
		{"waiting on vendor API access", domain.EscalationExternalVendor},
		{"cost approval pending from finance", domain.EscalationBudgetCostApproval},
		{"not enough staffing for the migration", domain.EscalationBudgetResourceAllocation},
		{"the deadline moved up two weeks", domain.EscalationBudgetTimeline},
		{"new requirement landed mid-sprint", domain.EscalationScopeExpansion},
		{"we should cut scope on reporting", domain.EscalationScopeReduction},
		{"competing asks from two teams", domain.EscalationPrioritiesConflict},
		{"reprioritization requested by the lead", domain.EscalationPrioritiesReprioritization},
		{"blocked by the schema redesign", domain.EscalationPrioritiesDependency},
		{"roadmap call needed before we commit", domain.EscalationDecisionProduct},
		{"tradeoff between latency and durability", domain.EscalationDecisionTechnical},
		{"acceptance criteria are ambiguous", domain.EscalationDiscussionRequirements},
		{"architecture disagreement on the event store", domain.EscalationDiscussionArchitecture},
		{"design of the retry loop is contested", domain.EscalationDiscussionDesign},
		{"review has been sitting for days", domain.EscalationDiscussionCodeReview},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, service.ClassifyReason(tc.reason), "%q", tc.reason)
	}
}

func TestClassifyReason_FirstMatchingRuleWins(t *testing.T) {
	// "waiting on" belongs to the dependency rule, but the vendor rule sits
	// above it and matches first.
	assert.Equal(t, domain.EscalationExternalVendor, service.ClassifyReason("waiting on vendor quote"))

	// "design" would match the design bucket, but "blocked by" matches the
	// dependency rule earlier in the table.
	assert.Equal(t, domain.EscalationPrioritiesDependency, service.ClassifyReason("blocked by the API design"))
}

func TestClassifyReason_IsCaseInsensitive(t *testing.T) {
	assert.Equal(t, domain.EscalationAuthorization, service.ClassifyReason("NEED SIGN-OFF ASAP"))
	assert.Equal(t, domain.EscalationExternalVendor, service.ClassifyReason("Vendor Contract Stuck"))
}

func TestClassifyReason_DefaultsToRequirementsDiscussion(t *testing.T) {
	assert.Equal(t, domain.EscalationDiscussionRequirements, service.ClassifyReason("no idea what is going on"))
	assert.Equal(t, domain.EscalationDiscussionRequirements, service.ClassifyReason(""))
}

func blockedTicket(priority domain.TicketPriority) *domain.Ticket {
	return &domain.Ticket{
		ID:       "t-1",
		Title:    "ship the thing",
		Priority: priority,
		Status:   domain.TicketStatusBlocked,
	}
}

func TestEvaluateEscalation_PrioritySetsBaseline(t *testing.T) {
	cases := []struct {
		priority domain.TicketPriority
		want     domain.UrgencyLevel
	}{
		{domain.TicketPriorityLow, domain.UrgencyLevelNormal},
		{domain.TicketPriorityNormal, domain.UrgencyLevelNormal},
		{domain.TicketPriorityHigh, domain.UrgencyLevelElevated},
		{domain.TicketPriorityCritical, domain.UrgencyLevelCritical},
	}

	for _, tc := range cases {
		decision := service.EvaluateEscalation(domain.EscalationContext{
			Ticket: blockedTicket(tc.priority),
			Reason: "waiting on vendor",
		})
		assert.Equal(t, tc.want, decision.Urgency, "%s", tc.priority)
		require.Len(t, decision.Reasons, 1)
		assert.Equal(t, "ticket priority is "+string(tc.priority), decision.Reasons[0])
	}
}

func TestEvaluateEscalation_BlockedTicketsRaiseUrgency(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket:   blockedTicket(domain.TicketPriorityLow),
		Reason:   "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{BlockedTickets: 3},
	})
	assert.Equal(t, domain.UrgencyLevelElevated, decision.Urgency)
	require.Len(t, decision.Reasons, 2)
	assert.Equal(t, "3 tickets now blocked", decision.Reasons[1])

	decision = service.EvaluateEscalation(domain.EscalationContext{
		Ticket:   blockedTicket(domain.TicketPriorityLow),
		Reason:   "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{BlockedTickets: 5},
	})
	assert.Equal(t, domain.UrgencyLevelCritical, decision.Urgency)
	assert.Contains(t, decision.Reasons, "5 tickets now blocked")
}

func TestEvaluateEscalation_OverdueTicketsRaiseUrgency(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket:   blockedTicket(domain.TicketPriorityLow),
		Reason:   "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{OverdueTickets: 2},
	})
	assert.Equal(t, domain.UrgencyLevelElevated, decision.Urgency)
	assert.Contains(t, decision.Reasons, "2 tickets are overdue")

	decision = service.EvaluateEscalation(domain.EscalationContext{
		Ticket:   blockedTicket(domain.TicketPriorityLow),
		Reason:   "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{OverdueTickets: 5},
	})
	assert.Equal(t, domain.UrgencyLevelCritical, decision.Urgency)
	assert.Contains(t, decision.Reasons, "5 tickets are overdue")
}

func TestEvaluateEscalation_OtherHighPriorityBlockedRaisesUrgency(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket:   blockedTicket(domain.TicketPriorityLow),
		Reason:   "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{OtherHighPrioBlocked: 2},
	})
	assert.Equal(t, domain.UrgencyLevelElevated, decision.Urgency)
	assert.Contains(t, decision.Reasons, "2 other high priority tickets are blocked")
}

func TestEvaluateEscalation_OverloadedAgentsRaiseUrgency(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket: blockedTicket(domain.TicketPriorityLow),
		Reason: "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{
			// Exactly five active tickets is busy, not overloaded.
			ActiveByAgent: map[string]int{"alice": 6, "bob": 7, "charlie": 5, "dave": 1},
		},
	})
	assert.Equal(t, domain.UrgencyLevelElevated, decision.Urgency)
	assert.Contains(t, decision.Reasons, "2 agents have more than 5 active tickets")
}

func TestEvaluateEscalation_SingleOverloadedAgentIsNotASignal(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket:   blockedTicket(domain.TicketPriorityLow),
		Reason:   "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{ActiveByAgent: map[string]int{"alice": 9}},
	})
	assert.Equal(t, domain.UrgencyLevelNormal, decision.Urgency)
	assert.Len(t, decision.Reasons, 1)
}

func TestEvaluateEscalation_AssigneeBlockedRaisesUrgency(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket:   blockedTicket(domain.TicketPriorityLow),
		Reason:   "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{AssigneeBlocked: 2},
	})
	assert.Equal(t, domain.UrgencyLevelElevated, decision.Urgency)
	assert.Contains(t, decision.Reasons, "assigned agent already has 2 blocked tickets")
}

func TestEvaluateEscalation_SignalsNeverLowerUrgency(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket:   blockedTicket(domain.TicketPriorityCritical),
		Reason:   "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{BlockedTickets: 3},
	})
	assert.Equal(t, domain.UrgencyLevelCritical, decision.Urgency, "an elevated signal cannot soften a critical baseline")
	assert.Len(t, decision.Reasons, 2)
}

func TestEvaluateEscalation_ReasonsAccumulateInSignalOrder(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket: blockedTicket(domain.TicketPriorityLow),
		Reason: "waiting on vendor",
		Snapshot: &domain.ProjectSnapshot{
			BlockedTickets:       3,
			OverdueTickets:       2,
			OtherHighPrioBlocked: 2,
			ActiveByAgent:        map[string]int{"alice": 6, "bob": 6},
			AssigneeBlocked:      2,
		},
	})

	assert.Equal(t, domain.EscalationExternalVendor, decision.Category)
	assert.Equal(t, domain.UrgencyLevelElevated, decision.Urgency)
	assert.Equal(t, []string{
		"ticket priority is low",
		"3 tickets now blocked",
		"2 tickets are overdue",
		"2 other high priority tickets are blocked",
		"2 agents have more than 5 active tickets",
		"assigned agent already has 2 blocked tickets",
	}, decision.Reasons)
}

func TestEvaluateEscalation_NilSnapshotSkipsProjectSignals(t *testing.T) {
	decision := service.EvaluateEscalation(domain.EscalationContext{
		Ticket: blockedTicket(domain.TicketPriorityHigh),
		Reason: "waiting on vendor",
	})
	assert.Equal(t, domain.UrgencyLevelElevated, decision.Urgency)
	assert.Equal(t, []string{"ticket priority is high"}, decision.Reasons)
}
