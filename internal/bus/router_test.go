package bus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mtlprog/slopmesh/internal/bus"
	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sinkRecorder collects routed notifications. Tests drive HandleEvent
// directly, so no locking is needed.
type sinkRecorder struct {
	notifications []domain.Notification
}

func (r *sinkRecorder) sink(_ context.Context, n domain.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func questionEvent(from, question string) *domain.Event {
	return domain.NewEvent(domain.AgentSource(from), domain.UrgencyMedium, &domain.QuestionRaisedPayload{Question: question})
}

func TestRouter_HandleEvent_MatchesEventType(t *testing.T) {
	r := bus.NewRouter()
	rec := &sinkRecorder{}
	r.AddSink(rec.sink)
	r.Register(&domain.Subscription{
		Subscriber: domain.AgentSubscriber("bob"),
		EventTypes: []domain.EventType{domain.EventTypeQuestionRaised},
	})

	ev := questionEvent("alice", "what port does staging use?")
	require.NoError(t, r.HandleEvent(context.Background(), ev))

	require.Len(t, rec.notifications, 1)
	n := rec.notifications[0]
	assert.Equal(t, domain.NotificationKindAgent, n.Kind)
	assert.Equal(t, "bob", n.AgentID)
	assert.Same(t, ev, n.Event)

	require.NoError(t, r.HandleEvent(context.Background(), newTestEvent("t-1")))
	assert.Len(t, rec.notifications, 1, "non-subscribed types route nowhere")
}

func TestRouter_HandleEvent_SuppressesSelfNotification(t *testing.T) {
	r := bus.NewRouter()
	rec := &sinkRecorder{}
	r.AddSink(rec.sink)
	r.Register(&domain.Subscription{
		Subscriber: domain.AgentSubscriber("alice"),
		EventTypes: []domain.EventType{domain.EventTypeQuestionRaised},
	})

	require.NoError(t, r.HandleEvent(context.Background(), questionEvent("alice", "own question")))
	assert.Empty(t, rec.notifications, "producers never hear their own events")

	require.NoError(t, r.HandleEvent(context.Background(), questionEvent("bob", "someone else's question")))
	assert.Len(t, rec.notifications, 1)
}

func TestRouter_HandleEvent_AppliesUrgencyFloor(t *testing.T) {
	r := bus.NewRouter()
	rec := &sinkRecorder{}
	r.AddSink(rec.sink)
	floor := domain.UrgencyHigh
	r.Register(&domain.Subscription{
		Subscriber: domain.AgentSubscriber("bob"),
		EventTypes: []domain.EventType{domain.EventTypeQuestionRaised},
		MinUrgency: &floor,
	})

	for urgency, want := range map[domain.Urgency]int{
		domain.UrgencyLow:      0,
		domain.UrgencyMedium:   0,
		domain.UrgencyHigh:     1,
		domain.UrgencyCritical: 1,
	} {
		rec.notifications = nil
		ev := domain.NewEvent(domain.AgentSource("alice"), urgency, &domain.QuestionRaisedPayload{Question: "q"})
		require.NoError(t, r.HandleEvent(context.Background(), ev))
		assert.Len(t, rec.notifications, want, "%s", urgency)
	}
}

func TestRouter_HandleEvent_AppliesSourceExclusions(t *testing.T) {
	r := bus.NewRouter()
	rec := &sinkRecorder{}
	r.AddSink(rec.sink)
	r.Register(&domain.Subscription{
		Subscriber:     domain.AgentSubscriber("bob"),
		EventTypes:     []domain.EventType{domain.EventTypeQuestionRaised},
		ExcludeSources: []domain.EventSource{domain.AgentSource("charlie")},
	})

	require.NoError(t, r.HandleEvent(context.Background(), questionEvent("charlie", "muted question")))
	assert.Empty(t, rec.notifications)

	require.NoError(t, r.HandleEvent(context.Background(), questionEvent("alice", "audible question")))
	assert.Len(t, rec.notifications, 1)
}

func TestRouter_HandleEvent_EmptyEventTypesMatchNothing(t *testing.T) {
	r := bus.NewRouter()
	rec := &sinkRecorder{}
	r.AddSink(rec.sink)
	r.Register(&domain.Subscription{Subscriber: domain.AgentSubscriber("bob")})

	require.NoError(t, r.HandleEvent(context.Background(), questionEvent("alice", "q")))
	require.NoError(t, r.HandleEvent(context.Background(), newTestEvent("t-1")))
	assert.Empty(t, rec.notifications)
}

func TestRouter_HandleEvent_HumanSubscriberGetsHumanNotification(t *testing.T) {
	r := bus.NewRouter()
	rec := &sinkRecorder{}
	r.AddSink(rec.sink)
	r.Register(&domain.Subscription{
		Subscriber: domain.HumanSubscriber(),
		EventTypes: []domain.EventType{domain.EventTypeEscalationRaised},
	})

	ev := domain.NewEvent(domain.SystemSource(), domain.UrgencyHigh, &domain.EscalationRaisedPayload{
		TicketID: "t-1",
		Reason:   "waiting on budget approval",
		Category: domain.EscalationBudgetCostApproval,
		Urgency:  domain.UrgencyLevelElevated,
	})
	require.NoError(t, r.HandleEvent(context.Background(), ev))

	require.Len(t, rec.notifications, 1)
	n := rec.notifications[0]
	assert.Equal(t, domain.NotificationKindHuman, n.Kind)
	assert.Empty(t, n.AgentID)
}

func TestRouter_Register_AssignsIDWhenEmpty(t *testing.T) {
	r := bus.NewRouter()

	sub := &domain.Subscription{
		Subscriber: domain.AgentSubscriber("bob"),
		EventTypes: []domain.EventType{domain.EventTypeTaskCreated},
	}
	id := r.Register(sub)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, sub.ID)

	keep := &domain.Subscription{
		ID:         "sub-keep",
		Subscriber: domain.AgentSubscriber("bob"),
		EventTypes: []domain.EventType{domain.EventTypeTaskCreated},
	}
	assert.Equal(t, "sub-keep", r.Register(keep))
}

func TestRouter_Unregister(t *testing.T) {
	r := bus.NewRouter()
	id := r.Register(&domain.Subscription{
		Subscriber: domain.AgentSubscriber("bob"),
		EventTypes: []domain.EventType{domain.EventTypeTaskCreated},
	})

	require.NoError(t, r.Unregister(id))
	assert.Empty(t, r.Subscriptions())

	err := r.Unregister(id)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestRouter_Subscriptions_ReturnsRegistrationOrder(t *testing.T) {
	r := bus.NewRouter()
	for _, id := range []string{"sub-1", "sub-2", "sub-3"} {
		r.Register(&domain.Subscription{
			ID:         id,
			Subscriber: domain.AgentSubscriber("bob"),
			EventTypes: []domain.EventType{domain.EventTypeTaskCreated},
		})
	}

	subs := r.Subscriptions()
	require.Len(t, subs, 3)
	for i, want := range []string{"sub-1", "sub-2", "sub-3"} {
		assert.Equal(t, want, subs[i].ID)
	}
}

func TestRouter_HandleEvent_FansOutToEverySink(t *testing.T) {
	r := bus.NewRouter()
	first := &sinkRecorder{}
	second := &sinkRecorder{}
	r.AddSink(first.sink)
	r.AddSink(second.sink)
	r.Register(&domain.Subscription{
		Subscriber: domain.AgentSubscriber("bob"),
		EventTypes: []domain.EventType{domain.EventTypeQuestionRaised},
	})

	require.NoError(t, r.HandleEvent(context.Background(), questionEvent("alice", "q")))
	assert.Len(t, first.notifications, 1)
	assert.Len(t, second.notifications, 1)
}

func TestRouter_HandleEvent_SinkErrorIsIsolated(t *testing.T) {
	r := bus.NewRouter()
	rec := &sinkRecorder{}
	r.AddSink(func(context.Context, domain.Notification) error {
		return errors.New("boom")
	})
	r.AddSink(rec.sink)
	r.Register(&domain.Subscription{
		Subscriber: domain.AgentSubscriber("bob"),
		EventTypes: []domain.EventType{domain.EventTypeQuestionRaised},
	})

	require.NoError(t, r.HandleEvent(context.Background(), questionEvent("alice", "q")))
	assert.Len(t, rec.notifications, 1)
}
