package domain

import "time"

// InteractionType classifies a directed coordination act between agents, or
// between an agent and a human.
type InteractionType string

const (
	InteractionTicketAssigned        InteractionType = "TICKET_ASSIGNED"
	InteractionDelegation            InteractionType = "DELEGATION"
	InteractionClarificationRequest  InteractionType = "CLARIFICATION_REQUEST"
	InteractionClarificationResponse InteractionType = "CLARIFICATION_RESPONSE"
	InteractionReviewRequest         InteractionType = "REVIEW_REQUEST"
	InteractionReviewComplete        InteractionType = "REVIEW_COMPLETE"
	InteractionHelpRequest           InteractionType = "HELP_REQUEST"
	InteractionHelpResponse          InteractionType = "HELP_RESPONSE"
	InteractionHumanEscalation       InteractionType = "HUMAN_ESCALATION"
	InteractionHumanResponse         InteractionType = "HUMAN_RESPONSE"
	InteractionMeetingInvite         InteractionType = "MEETING_INVITE"
)

// IsResponse reports whether the type answers an earlier request and can
// retire a pending handoff on the reversed pair.
func (t InteractionType) IsResponse() bool {
	switch t {
	case InteractionClarificationResponse, InteractionReviewComplete,
		InteractionHelpResponse, InteractionHumanResponse:
		return true
	default:
		return false
	}
}

// Reserved participant ids for non-agent actors in the coordination graph.
const (
	HumanParticipantID  = "human"
	SystemParticipantID = "system"
)

// ParticipantID maps an event source onto a coordination-graph node id.
func (s EventSource) ParticipantID() string {
	switch s.Kind {
	case SourceKindAgent:
		return s.AgentID
	case SourceKindHuman:
		return HumanParticipantID
	default:
		return SystemParticipantID
	}
}

// SourceForParticipant is the inverse of ParticipantID: it rebuilds an event
// source from a coordination-graph node id.
func SourceForParticipant(id string) EventSource {
	switch id {
	case HumanParticipantID:
		return HumanSource()
	case SystemParticipantID:
		return SystemSource()
	default:
		return AgentSource(id)
	}
}

// AgentInteraction is one classified coordination act derived from the event
// stream. Never mutated after creation.
type AgentInteraction struct {
	SourceAgentID string
	TargetAgentID *string // nil for human-directed or untargeted acts
	Type          InteractionType
	Timestamp     time.Time
	SourceEventID string
	Context       string // free text, truncated by the classifier
}

// SameIdentity reports whether two interactions describe the same act. The
// tracker uses it to count an event and its routed notification once.
func (i *AgentInteraction) SameIdentity(other *AgentInteraction) bool {
	if i.SourceEventID != other.SourceEventID || i.Type != other.Type || i.SourceAgentID != other.SourceAgentID {
		return false
	}
	if (i.TargetAgentID == nil) != (other.TargetAgentID == nil) {
		return false
	}
	return i.TargetAgentID == nil || *i.TargetAgentID == *other.TargetAgentID
}
