package domain

import "time"

// Payload carries the type-specific fields of an event. Implementations are
// one struct per event type; the closed set lives in payloadFactories.
type Payload interface {
	EventType() EventType
}

// payloadFactories maps every known event type to its payload constructor.
// It doubles as the authoritative list of valid event types.
var payloadFactories = map[EventType]func() Payload{
	EventTypeTaskCreated:         func() Payload { return &TaskCreatedPayload{} },
	EventTypeTaskCompleted:       func() Payload { return &TaskCompletedPayload{} },
	EventTypeQuestionRaised:      func() Payload { return &QuestionRaisedPayload{} },
	EventTypeQuestionAnswered:    func() Payload { return &QuestionAnsweredPayload{} },
	EventTypeCodeSubmitted:       func() Payload { return &CodeSubmittedPayload{} },
	EventTypeReviewCompleted:     func() Payload { return &ReviewCompletedPayload{} },
	EventTypeTicketAssigned:      func() Payload { return &TicketAssignedPayload{} },
	EventTypeTicketStatusChanged: func() Payload { return &TicketStatusChangedPayload{} },
	EventTypeThreadStatusChanged: func() Payload { return &ThreadStatusChangedPayload{} },
	EventTypeEscalationRaised:    func() Payload { return &EscalationRaisedPayload{} },
	EventTypeHumanResponded:      func() Payload { return &HumanRespondedPayload{} },
	EventTypeMeetingScheduled:    func() Payload { return &MeetingScheduledPayload{} },
}

// NewPayload returns an empty payload value for t, or false when t is not a
// known event type.
func NewPayload(t EventType) (Payload, bool) {
	factory, ok := payloadFactories[t]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// TaskCreatedPayload announces new work entering the system. TicketID is set
// when the orchestrator has already materialized the ticket; producers leave
// it empty to request materialization.
type TaskCreatedPayload struct {
	TicketID    string         `json:"ticketId,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	TicketType  TicketType     `json:"ticketType,omitempty"`
	Priority    TicketPriority `json:"priority,omitempty"`
	AssignedTo  *string        `json:"assignedTo,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
}

func (p *TaskCreatedPayload) EventType() EventType { return EventTypeTaskCreated }

// TaskCompletedPayload reports finished work on a ticket.
type TaskCompletedPayload struct {
	TicketID string `json:"ticketId"`
	Summary  string `json:"summary,omitempty"`
}

func (p *TaskCompletedPayload) EventType() EventType { return EventTypeTaskCompleted }

// QuestionRaisedPayload carries a free-text question; the addressee, if any,
// is an @mention inside the question text.
type QuestionRaisedPayload struct {
	TicketID string `json:"ticketId,omitempty"`
	Question string `json:"question"`
}

func (p *QuestionRaisedPayload) EventType() EventType { return EventTypeQuestionRaised }

// QuestionAnsweredPayload resolves an earlier question.
type QuestionAnsweredPayload struct {
	TicketID string `json:"ticketId,omitempty"`
	AskedBy  string `json:"askedBy,omitempty"` // agent whose question is being answered
	Answer   string `json:"answer"`
}

func (p *QuestionAnsweredPayload) EventType() EventType { return EventTypeQuestionAnswered }

// CodeSubmittedPayload announces code ready for attention. AssignedTo names
// the requested reviewer when a review is required.
type CodeSubmittedPayload struct {
	TicketID       string  `json:"ticketId,omitempty"`
	Description    string  `json:"description,omitempty"`
	Branch         string  `json:"branch,omitempty"`
	ReviewRequired bool    `json:"reviewRequired"`
	AssignedTo     *string `json:"assignedTo,omitempty"`
}

func (p *CodeSubmittedPayload) EventType() EventType { return EventTypeCodeSubmitted }

// ReviewCompletedPayload closes out a review request.
type ReviewCompletedPayload struct {
	TicketID    string `json:"ticketId,omitempty"`
	SubmittedBy string `json:"submittedBy"` // author whose code was reviewed
	Approved    bool   `json:"approved"`
	Notes       string `json:"notes,omitempty"`
}

func (p *ReviewCompletedPayload) EventType() EventType { return EventTypeReviewCompleted }

// TicketAssignedPayload records an assignee change. A nil AssignedTo clears
// the assignee.
type TicketAssignedPayload struct {
	TicketID   string  `json:"ticketId"`
	AssignedTo *string `json:"assignedTo"`
}

func (p *TicketAssignedPayload) EventType() EventType { return EventTypeTicketAssigned }

// TicketStatusChangedPayload records a workflow transition.
type TicketStatusChangedPayload struct {
	TicketID string       `json:"ticketId"`
	From     TicketStatus `json:"from"`
	To       TicketStatus `json:"to"`
	Reason   string       `json:"reason,omitempty"`
}

func (p *TicketStatusChangedPayload) EventType() EventType { return EventTypeTicketStatusChanged }

// ThreadStatusChangedPayload mirrors a message-thread lifecycle change owned
// by the external messaging component.
type ThreadStatusChangedPayload struct {
	ThreadID string `json:"threadId"`
	Status   string `json:"status"`
}

func (p *ThreadStatusChangedPayload) EventType() EventType { return EventTypeThreadStatusChanged }

// EscalationRaisedPayload carries a blocker escalation decision.
type EscalationRaisedPayload struct {
	TicketID string             `json:"ticketId"`
	Reason   string             `json:"reason"`
	Category EscalationCategory `json:"category"`
	Urgency  UrgencyLevel       `json:"urgencyLevel"`
	Details  []string           `json:"details,omitempty"`
}

func (p *EscalationRaisedPayload) EventType() EventType { return EventTypeEscalationRaised }

// HumanRespondedPayload records a human reply addressed to an agent.
type HumanRespondedPayload struct {
	TargetAgentID string `json:"targetAgentId"`
	Response      string `json:"response"`
}

func (p *HumanRespondedPayload) EventType() EventType { return EventTypeHumanResponded }

// MeetingScheduledPayload confirms a meeting booked through the scheduling
// port.
type MeetingScheduledPayload struct {
	MeetingID    string   `json:"meetingId,omitempty"`
	TicketID     string   `json:"ticketId,omitempty"`
	Topic        string   `json:"topic"`
	Participants []string `json:"participants,omitempty"`
}

func (p *MeetingScheduledPayload) EventType() EventType { return EventTypeMeetingScheduled }
