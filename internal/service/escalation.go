package service

import (
	"fmt"
	"strings"

	"github.com/mtlprog/slopmesh/internal/domain"
)

// EscalationPolicy decides how a blocked ticket escalates. Implementations
// must be pure: the same context always yields the same decision.
type EscalationPolicy func(ectx domain.EscalationContext) domain.EscalationDecision

// escalationRule maps a category to the keywords that select it.
type escalationRule struct {
	category domain.EscalationCategory
	keywords []string
}

// escalationRules is scanned top to bottom against the lower-cased blocking
// reason; the first rule with any substring match wins. More specific
// categories sit above the broad discussion buckets.
var escalationRules = []escalationRule{
	{domain.EscalationAuthorization, []string{"authorization", "authorize", "permission", "sign-off", "sign off", "credentials", "access grant"}},
	{domain.EscalationExternalCustomer, []string{"customer", "client"}},
	{domain.EscalationExternalVendor, []string{"vendor", "supplier", "third-party", "third party"}},
	{domain.EscalationBudgetCostApproval, []string{"cost approval", "budget approval", "cost", "expense", "pricing", "invoice"}},
	{domain.EscalationBudgetResourceAllocation, []string{"headcount", "staffing", "resource", "capacity"}},
	{domain.EscalationBudgetTimeline, []string{"deadline", "timeline", "schedule slip", "delay"}},
	{domain.EscalationScopeExpansion, []string{"scope creep", "expand scope", "new requirement", "additional requirement", "additional feature"}},
	{domain.EscalationScopeReduction, []string{"descope", "de-scope", "cut scope", "reduce scope", "drop feature"}},
	{domain.EscalationPrioritiesConflict, []string{"priority conflict", "conflicting priorit", "competing"}},
	{domain.EscalationPrioritiesReprioritization, []string{"reprioritiz", "re-prioritiz", "priority change"}},
	{domain.EscalationPrioritiesDependency, []string{"depends on", "dependency", "blocked by", "waiting on", "waiting for"}},
	{domain.EscalationDecisionProduct, []string{"product decision", "feature decision", "roadmap"}},
	{domain.EscalationDecisionTechnical, []string{"technical decision", "tech decision", "trade-off", "tradeoff"}},
	{domain.EscalationDiscussionRequirements, []string{"requirement", "unclear", "ambiguous", "clarif"}},
	{domain.EscalationDiscussionArchitecture, []string{"architecture", "architectural"}},
	{domain.EscalationDiscussionDesign, []string{"design"}},
	{domain.EscalationDiscussionCodeReview, []string{"code review", "review"}},
}

// EvaluateEscalation classifies a blocking reason and derives the urgency of
// getting it unblocked. Pure function; it is the default EscalationPolicy.
func EvaluateEscalation(ectx domain.EscalationContext) domain.EscalationDecision {
	urgency, reasons := deriveUrgency(ectx)
	return domain.EscalationDecision{
		Category: ClassifyReason(ectx.Reason),
		Urgency:  urgency,
		Reasons:  reasons,
	}
}

// ClassifyReason picks the escalation category for a free-text blocking
// reason. Unmatched reasons default to a requirements discussion.
func ClassifyReason(reason string) domain.EscalationCategory {
	lowered := strings.ToLower(reason)
	for _, rule := range escalationRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.category
			}
		}
	}
	return domain.EscalationDiscussionRequirements
}

// deriveUrgency starts from the ticket priority and raises the level for
// each project-state signal that fires. Signals only ever raise the result,
// so adding one can never lower the decision.
func deriveUrgency(ectx domain.EscalationContext) (domain.UrgencyLevel, []string) {
	urgency := urgencyFromPriority(ectx.Ticket.Priority)
	reasons := []string{fmt.Sprintf("ticket priority is %s", ectx.Ticket.Priority)}

	raise := func(to domain.UrgencyLevel, reason string) {
		urgency = domain.MaxUrgencyLevel(urgency, to)
		reasons = append(reasons, reason)
	}

	snap := ectx.Snapshot
	if snap == nil {
		return urgency, reasons
	}

	switch {
	case snap.BlockedTickets >= 5:
		raise(domain.UrgencyLevelCritical, fmt.Sprintf("%d tickets now blocked", snap.BlockedTickets))
	case snap.BlockedTickets >= 3:
		raise(domain.UrgencyLevelElevated, fmt.Sprintf("%d tickets now blocked", snap.BlockedTickets))
	}

	switch {
	case snap.OverdueTickets >= 5:
		raise(domain.UrgencyLevelCritical, fmt.Sprintf("%d tickets are overdue", snap.OverdueTickets))
	case snap.OverdueTickets >= 2:
		raise(domain.UrgencyLevelElevated, fmt.Sprintf("%d tickets are overdue", snap.OverdueTickets))
	}

	if snap.OtherHighPrioBlocked >= 2 {
		raise(domain.UrgencyLevelElevated, fmt.Sprintf("%d other high priority tickets are blocked", snap.OtherHighPrioBlocked))
	}

	if overloaded := countOverloadedAgents(snap.ActiveByAgent); overloaded >= 2 {
		raise(domain.UrgencyLevelElevated, fmt.Sprintf("%d agents have more than %d active tickets", overloaded, overloadThreshold))
	}

	if snap.AssigneeBlocked >= 2 {
		raise(domain.UrgencyLevelElevated, fmt.Sprintf("assigned agent already has %d blocked tickets", snap.AssigneeBlocked))
	}

	return urgency, reasons
}

func urgencyFromPriority(p domain.TicketPriority) domain.UrgencyLevel {
	switch p {
	case domain.TicketPriorityCritical:
		return domain.UrgencyLevelCritical
	case domain.TicketPriorityHigh:
		return domain.UrgencyLevelElevated
	default:
		return domain.UrgencyLevelNormal
	}
}

// overloadThreshold is the active-ticket count above which an agent counts
// as overloaded.
const overloadThreshold = 5

func countOverloadedAgents(activeByAgent map[string]int) int {
	overloaded := 0
	for _, active := range activeByAgent {
		if active > overloadThreshold {
			overloaded++
		}
	}
	return overloaded
}
