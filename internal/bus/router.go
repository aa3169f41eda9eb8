package bus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mtlprog/slopmesh/internal/domain"
)

// NotificationSink consumes routed notifications. Sink errors are logged and
// isolated the same way bus handler errors are.
type NotificationSink func(ctx context.Context, n domain.Notification) error

// Router matches events against registered subscriptions and emits one
// notification per match. It runs as a bus handler, so every (event,
// subscription) pair is evaluated exactly once and sinks see notifications
// in event order.
type Router struct {
	mu    sync.RWMutex
	subs  []*domain.Subscription // registration order, kept for deterministic delivery
	sinks []NotificationSink
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{}
}

// AddSink registers a notification consumer.
func (r *Router) AddSink(sink NotificationSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sink)
}

// Register adds a subscription and returns its id, assigning one if the
// caller left it empty.
func (r *Router) Register(sub *domain.Subscription) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	r.subs = append(r.subs, sub)
	return sub.ID
}

// Unregister removes a subscription by id.
func (r *Router) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, sub := range r.subs {
		if sub.ID == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return domain.ErrSubscriptionNotFound
}

// Subscriptions returns the current registrations in registration order.
func (r *Router) Subscriptions() []*domain.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Subscription, len(r.subs))
	copy(out, r.subs)
	return out
}

// HandleEvent is the bus handler entry point: it evaluates ev against every
// subscription and pushes each match to every sink.
func (r *Router) HandleEvent(ctx context.Context, ev *domain.Event) error {
	r.mu.RLock()
	subs := make([]*domain.Subscription, len(r.subs))
	copy(subs, r.subs)
	sinks := make([]NotificationSink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.RUnlock()

	for _, sub := range subs {
		// An event never notifies the agent that produced it.
		if sub.Subscriber.Kind == domain.SourceKindAgent && ev.Source.IsAgent(sub.Subscriber.AgentID) {
			continue
		}
		if !sub.Matches(ev) {
			continue
		}

		n := r.notification(sub, ev)
		for _, sink := range sinks {
			if err := sink(ctx, n); err != nil {
				slog.Error("notification sink failed",
					"subscription_id", sub.ID,
					"event_id", ev.ID,
					"error", err,
				)
			}
		}
	}
	return nil
}

func (r *Router) notification(sub *domain.Subscription, ev *domain.Event) domain.Notification {
	if sub.Subscriber.Kind == domain.SourceKindHuman {
		return domain.ToHuman(ev, sub)
	}
	return domain.ToAgent(sub.Subscriber.AgentID, ev, sub)
}
