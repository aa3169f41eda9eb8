package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the kind of domain occurrence an event records.
type EventType string

const (
	EventTypeTaskCreated         EventType = "task_created"
	EventTypeTaskCompleted       EventType = "task_completed"
	EventTypeQuestionRaised      EventType = "question_raised"
	EventTypeQuestionAnswered    EventType = "question_answered"
	EventTypeCodeSubmitted       EventType = "code_submitted"
	EventTypeReviewCompleted     EventType = "review_completed"
	EventTypeTicketAssigned      EventType = "ticket_assigned"
	EventTypeTicketStatusChanged EventType = "ticket_status_changed"
	EventTypeThreadStatusChanged EventType = "thread_status_changed"
	EventTypeEscalationRaised    EventType = "escalation_raised"
	EventTypeHumanResponded      EventType = "human_responded"
	EventTypeMeetingScheduled    EventType = "meeting_scheduled"
)

// IsValid checks if the event type is one of the allowed values.
func (t EventType) IsValid() bool {
	_, ok := payloadFactories[t]
	return ok
}

// SourceKind discriminates who produced an event.
type SourceKind string

const (
	SourceKindAgent  SourceKind = "agent"
	SourceKindHuman  SourceKind = "human"
	SourceKindSystem SourceKind = "system"
)

// EventSource identifies the producer of an event.
type EventSource struct {
	Kind    SourceKind
	AgentID string // set only when Kind is agent
}

// AgentSource builds the source for an agent-produced event.
func AgentSource(agentID string) EventSource {
	return EventSource{Kind: SourceKindAgent, AgentID: agentID}
}

// HumanSource builds the source for a human-produced event.
func HumanSource() EventSource {
	return EventSource{Kind: SourceKindHuman}
}

// SystemSource builds the source for a system-produced event.
func SystemSource() EventSource {
	return EventSource{Kind: SourceKindSystem}
}

// IsAgent checks if the source is the given agent.
func (s EventSource) IsAgent(agentID string) bool {
	return s.Kind == SourceKindAgent && s.AgentID == agentID
}

// Urgency represents how pressing an event is, ordered LOW < MEDIUM < HIGH <
// CRITICAL.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// Rank returns the position of u in the urgency order; unknown values rank
// below LOW.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	case UrgencyCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast checks if u meets the given urgency floor.
func (u Urgency) AtLeast(floor Urgency) bool {
	return u.Rank() >= floor.Rank()
}

// IsValid checks if the urgency is one of the allowed values.
func (u Urgency) IsValid() bool {
	return u.Rank() > 0
}

// Event is an immutable record of a domain occurrence. Sequence is zero
// until the bus assigns the total order at dispatch; no other field changes
// after publication.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Source    EventSource
	Urgency   Urgency
	Sequence  uint64
	Payload   Payload
}

// NewEvent builds an event with a fresh ID and the current time.
func NewEvent(source EventSource, urgency Urgency, payload Payload) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      payload.EventType(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		Urgency:   urgency,
		Payload:   payload,
	}
}

// eventJSON is the wire form of an event: one JSON object per event with an
// epoch-millisecond timestamp and a type-specific payload object.
type eventJSON struct {
	EventID     string          `json:"eventId"`
	EventType   EventType       `json:"eventType"`
	Timestamp   int64           `json:"timestamp"`
	EventSource sourceJSON      `json:"eventSource"`
	Urgency     Urgency         `json:"urgency"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

type sourceJSON struct {
	Kind SourceKind `json:"kind"`
	ID   *string    `json:"id,omitempty"`
}

// MarshalJSON encodes the event in its wire form.
func (e *Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{
		EventID:   e.ID,
		EventType: e.Type,
		Timestamp: e.Timestamp.UnixMilli(),
		Urgency:   e.Urgency,
		EventSource: sourceJSON{
			Kind: e.Source.Kind,
		},
	}
	if e.Source.Kind == SourceKindAgent {
		id := e.Source.AgentID
		out.EventSource.ID = &id
	}
	if e.Payload != nil {
		raw, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", e.Type, err)
		}
		out.Payload = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire form, selecting the payload type from
// eventType. Unknown event types fail with ErrUnknownEventType.
func (e *Event) UnmarshalJSON(data []byte) error {
	var in eventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	factory, ok := payloadFactories[in.EventType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEventType, in.EventType)
	}

	e.ID = in.EventID
	e.Type = in.EventType
	e.Timestamp = time.UnixMilli(in.Timestamp).UTC()
	e.Urgency = in.Urgency
	e.Source = EventSource{Kind: in.EventSource.Kind}
	if in.EventSource.ID != nil {
		e.Source.AgentID = *in.EventSource.ID
	}

	payload := factory()
	if len(in.Payload) > 0 {
		if err := json.Unmarshal(in.Payload, payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", in.EventType, err)
		}
	}
	e.Payload = payload
	return nil
}
