package domain

import "time"

// TicketStatus represents the status of a ticket in the workflow state machine.
type TicketStatus string

const (
	TicketStatusBacklog    TicketStatus = "BACKLOG"
	TicketStatusReady      TicketStatus = "READY"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusBlocked    TicketStatus = "BLOCKED"
	TicketStatusInReview   TicketStatus = "IN_REVIEW"
	TicketStatusDone       TicketStatus = "DONE"
)

// statusTransitions is the closed transition table. A status without an
// entry is terminal.
var statusTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusBacklog:    {TicketStatusReady, TicketStatusDone},
	TicketStatusReady:      {TicketStatusInProgress},
	TicketStatusInProgress: {TicketStatusBlocked, TicketStatusInReview, TicketStatusDone},
	TicketStatusBlocked:    {TicketStatusInProgress},
	TicketStatusInReview:   {TicketStatusInProgress, TicketStatusDone},
}

// CanTransitionTo returns true if the table allows moving from s to next.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status allows no further transitions.
func (s TicketStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// IsActive returns true if the status counts toward an agent's live workload.
func (s TicketStatus) IsActive() bool {
	switch s {
	case TicketStatusReady, TicketStatusInProgress, TicketStatusBlocked, TicketStatusInReview:
		return true
	default:
		return false
	}
}

// IsValid checks if the status is one of the allowed values.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusBacklog, TicketStatusReady, TicketStatusInProgress,
		TicketStatusBlocked, TicketStatusInReview, TicketStatusDone:
		return true
	default:
		return false
	}
}

// TicketType represents the kind of work a ticket tracks.
type TicketType string

const (
	TicketTypeTask     TicketType = "task"
	TicketTypeBug      TicketType = "bug"
	TicketTypeFeature  TicketType = "feature"
	TicketTypeResearch TicketType = "research"
)

// IsValid checks if the type is one of the allowed values.
func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeTask, TicketTypeBug, TicketTypeFeature, TicketTypeResearch:
		return true
	default:
		return false
	}
}

// TicketPriority represents the priority level of a ticket.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityNormal   TicketPriority = "normal"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// IsValid checks if the priority is one of the allowed values.
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityCritical:
		return true
	default:
		return false
	}
}

// Urgency maps a ticket priority onto the event urgency scale.
func (p TicketPriority) Urgency() Urgency {
	switch p {
	case TicketPriorityCritical:
		return UrgencyCritical
	case TicketPriorityHigh:
		return UrgencyHigh
	case TicketPriorityLow:
		return UrgencyLow
	default:
		return UrgencyMedium
	}
}

// Ticket represents a unit of trackable work. It is created once, mutated
// only through assign and transition operations, and never deleted; DONE
// tickets are retained.
type Ticket struct {
	ID              string
	Title           string
	Description     string
	Type            TicketType
	Priority        TicketPriority
	Status          TicketStatus
	AssignedAgentID *string
	CreatedBy       string
	DueDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAssignedTo checks if the ticket is assigned to the given agent.
func (t *Ticket) IsAssignedTo(agentID string) bool {
	return t.AssignedAgentID != nil && *t.AssignedAgentID == agentID
}

// IsOverdue returns true if the ticket has a due date in the past and is not
// done yet.
func (t *Ticket) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TicketStatusDone
}

// Clone returns a deep copy so stored tickets never alias caller-held ones.
func (t *Ticket) Clone() *Ticket {
	c := *t
	if t.AssignedAgentID != nil {
		id := *t.AssignedAgentID
		c.AssignedAgentID = &id
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}
