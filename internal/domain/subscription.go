package domain

// Subscriber identifies who owns a subscription: a specific agent or a human
// audience.
type Subscriber struct {
	Kind    SourceKind // agent or human
	AgentID string     // set when Kind is agent
}

// AgentSubscriber builds a subscriber for the given agent.
func AgentSubscriber(agentID string) Subscriber {
	return Subscriber{Kind: SourceKindAgent, AgentID: agentID}
}

// HumanSubscriber builds a subscriber for the human audience.
func HumanSubscriber() Subscriber {
	return Subscriber{Kind: SourceKindHuman}
}

// Subscription is a subscriber-owned filter over the event stream. Matching
// is read-only; delivery never mutates the subscription.
type Subscription struct {
	ID             string
	Subscriber     Subscriber
	EventTypes     []EventType   // accepted kinds; empty matches nothing
	ExcludeSources []EventSource // optional source exclusions
	MinUrgency     *Urgency      // optional urgency floor
}

// Matches reports whether the event passes the kind, source exclusion and
// urgency filters. Self-notification suppression is the router's rule, not
// part of the subscription filter.
func (s *Subscription) Matches(ev *Event) bool {
	accepted := false
	for _, t := range s.EventTypes {
		if t == ev.Type {
			accepted = true
			break
		}
	}
	if !accepted {
		return false
	}

	for _, src := range s.ExcludeSources {
		if src == ev.Source {
			return false
		}
	}

	if s.MinUrgency != nil && !ev.Urgency.AtLeast(*s.MinUrgency) {
		return false
	}

	return true
}

// NotificationKind discriminates notification delivery targets.
type NotificationKind string

const (
	NotificationKindAgent NotificationKind = "agent"
	NotificationKindHuman NotificationKind = "human"
)

// Notification is the result of matching one event against one subscription.
// It wraps the event and is never persisted independently of it.
type Notification struct {
	Kind         NotificationKind
	AgentID      string // set when Kind is agent
	Event        *Event
	Subscription *Subscription
}

// ToAgent builds an agent-directed notification.
func ToAgent(agentID string, ev *Event, sub *Subscription) Notification {
	return Notification{
		Kind:         NotificationKindAgent,
		AgentID:      agentID,
		Event:        ev,
		Subscription: sub,
	}
}

// ToHuman builds a human-directed notification.
func ToHuman(ev *Event, sub *Subscription) Notification {
	return Notification{
		Kind:         NotificationKindHuman,
		Event:        ev,
		Subscription: sub,
	}
}
