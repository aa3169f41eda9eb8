package domain

// EscalationCategory classifies why work is blocked. The closed set is
// grouped by the area that has to unblock it; the dotted form keeps the
// grouping visible on the wire.
type EscalationCategory string

const (
	EscalationAuthorization EscalationCategory = "Authorization"

	EscalationExternalCustomer EscalationCategory = "External.Customer"
	EscalationExternalVendor   EscalationCategory = "External.Vendor"

	EscalationBudgetCostApproval       EscalationCategory = "Budget.CostApproval"
	EscalationBudgetResourceAllocation EscalationCategory = "Budget.ResourceAllocation"
	EscalationBudgetTimeline           EscalationCategory = "Budget.Timeline"

	EscalationScopeExpansion EscalationCategory = "Scope.Expansion"
	EscalationScopeReduction EscalationCategory = "Scope.Reduction"

	EscalationPrioritiesConflict         EscalationCategory = "Priorities.Conflict"
	EscalationPrioritiesReprioritization EscalationCategory = "Priorities.Reprioritization"
	EscalationPrioritiesDependency       EscalationCategory = "Priorities.Dependency"

	EscalationDecisionProduct   EscalationCategory = "Decision.Product"
	EscalationDecisionTechnical EscalationCategory = "Decision.Technical"

	EscalationDiscussionRequirements EscalationCategory = "Discussion.Requirements"
	EscalationDiscussionArchitecture EscalationCategory = "Discussion.Architecture"
	EscalationDiscussionDesign       EscalationCategory = "Discussion.Design"
	EscalationDiscussionCodeReview   EscalationCategory = "Discussion.CodeReview"
)

// UrgencyLevel orders escalation severity, NORMAL < ELEVATED < CRITICAL.
type UrgencyLevel string

const (
	UrgencyLevelNormal   UrgencyLevel = "NORMAL"
	UrgencyLevelElevated UrgencyLevel = "ELEVATED"
	UrgencyLevelCritical UrgencyLevel = "CRITICAL"
)

// Rank returns the position of l in the severity order.
func (l UrgencyLevel) Rank() int {
	switch l {
	case UrgencyLevelNormal:
		return 1
	case UrgencyLevelElevated:
		return 2
	case UrgencyLevelCritical:
		return 3
	default:
		return 0
	}
}

// MaxUrgencyLevel returns the more severe of a and b.
func MaxUrgencyLevel(a, b UrgencyLevel) UrgencyLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ProjectSnapshot captures the live project state an escalation decision may
// consider. Counts are taken after the triggering ticket entered Blocked, so
// BlockedTickets includes it.
type ProjectSnapshot struct {
	BlockedTickets       int
	OverdueTickets       int
	OtherHighPrioBlocked int            // blocked tickets other than this one at high or critical priority
	ActiveByAgent        map[string]int // agent id -> active ticket count
	AssigneeBlocked      int            // other blocked tickets held by this ticket's assignee
}

// EscalationContext is the input of one escalation evaluation. Built per
// evaluation and discarded afterwards.
type EscalationContext struct {
	Ticket   *Ticket
	Reason   string
	Snapshot *ProjectSnapshot // optional; nil skips project-state signals
}

// EscalationDecision is the pure result of evaluating a blocked ticket:
// a category, a severity, and the reasons that produced them in the order
// the signals fired.
type EscalationDecision struct {
	Category EscalationCategory
	Urgency  UrgencyLevel
	Reasons  []string
}

// Meeting describes a coordination meeting requested for an escalation. The
// meeting subsystem itself is external; this is only the request shape.
type Meeting struct {
	Topic        string
	TicketID     string
	Participants []string
	Urgency      UrgencyLevel
}

// ScheduleOutcome reports what the scheduling collaborator did with a
// request.
type ScheduleOutcome struct {
	Scheduled bool
	MeetingID string
	Note      string
}
