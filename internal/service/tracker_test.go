package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/service"
	"github.com/stretchr/testify/suite"
)

type CoordinationTrackerTestSuite struct {
	suite.Suite
	tracker *service.CoordinationTracker
	base    time.Time
}

func TestCoordinationTrackerTestSuite(t *testing.T) {
	suite.Run(t, new(CoordinationTrackerTestSuite))
}

func (s *CoordinationTrackerTestSuite) SetupTest() {
	s.tracker = service.NewCoordinationTracker()
	s.base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *CoordinationTrackerTestSuite) interaction(eventID, source string, target *string, typ domain.InteractionType, minute int) *domain.AgentInteraction {
	return &domain.AgentInteraction{
		SourceAgentID: source,
		TargetAgentID: target,
		Type:          typ,
		Timestamp:     s.base.Add(time.Duration(minute) * time.Minute),
		SourceEventID: eventID,
		Context:       "ctx",
	}
}

func (s *CoordinationTrackerTestSuite) TestFold_BuildsDirectedEdges() {
	s.tracker.Fold(s.interaction("ev-1", "alice", strptr("bob"), domain.InteractionDelegation, 0))
	s.tracker.Fold(s.interaction("ev-2", "alice", strptr("bob"), domain.InteractionClarificationRequest, 1))
	s.tracker.Fold(s.interaction("ev-3", "bob", strptr("alice"), domain.InteractionClarificationResponse, 2))

	state := s.tracker.State()
	s.Equal(3, state.TotalInteractions)
	s.Require().Len(state.Edges, 2)

	forward := state.Edges[domain.EdgeKey{Source: "alice", Target: "bob"}]
	s.Require().NotNil(forward)
	s.Equal(2, forward.InteractionCount)
	s.True(forward.Types[domain.InteractionDelegation])
	s.True(forward.Types[domain.InteractionClarificationRequest])
	s.True(forward.LastInteraction.Equal(s.base.Add(time.Minute)))

	back := state.Edges[domain.EdgeKey{Source: "bob", Target: "alice"}]
	s.Require().NotNil(back)
	s.Equal(1, back.InteractionCount)

	s.Equal(3, state.ActivityByAgent["alice"])
	s.Equal(3, state.ActivityByAgent["bob"])
	s.Equal(1, state.CountsByType[domain.InteractionDelegation])
	s.Equal(1, state.CountsByType[domain.InteractionClarificationRequest])
	s.Equal(1, state.CountsByType[domain.InteractionClarificationResponse])
}

func (s *CoordinationTrackerTestSuite) TestFold_DeduplicatesSameIdentity() {
	in := s.interaction("ev-1", "alice", strptr("bob"), domain.InteractionDelegation, 0)
	s.tracker.Fold(in)
	s.tracker.Fold(s.interaction("ev-1", "alice", strptr("bob"), domain.InteractionDelegation, 0))

	state := s.tracker.State()
	s.Equal(1, state.TotalInteractions)
	s.Equal(1, state.Edges[domain.EdgeKey{Source: "alice", Target: "bob"}].InteractionCount)
}

func (s *CoordinationTrackerTestSuite) TestHandleEventAndNotification_SharedActCountsOnce() {
	ev := domain.NewEvent(domain.AgentSource("alice"), domain.UrgencyMedium, &domain.CodeSubmittedPayload{
		Description:    "retry loop",
		ReviewRequired: true,
		AssignedTo:     strptr("bob"),
	})
	sub := &domain.Subscription{Subscriber: domain.AgentSubscriber("bob"), EventTypes: []domain.EventType{ev.Type}}

	ctx := context.Background()
	s.Require().NoError(s.tracker.HandleEvent(ctx, ev))
	s.Require().NoError(s.tracker.HandleNotification(ctx, domain.ToAgent("bob", ev, sub)))

	// Both paths classify the same review request, so it counts once.
	state := s.tracker.State()
	s.Equal(1, state.TotalInteractions)
	s.Equal(1, state.CountsByType[domain.InteractionReviewRequest])
}

func (s *CoordinationTrackerTestSuite) TestHandleEventAndNotification_DistinctActsBothCount() {
	ev := domain.NewEvent(domain.AgentSource("alice"), domain.UrgencyMedium, &domain.QuestionRaisedPayload{
		Question: "Hey @bob, is the migration done?",
	})
	sub := &domain.Subscription{Subscriber: domain.AgentSubscriber("bob"), EventTypes: []domain.EventType{ev.Type}}

	ctx := context.Background()
	s.Require().NoError(s.tracker.HandleEvent(ctx, ev))
	s.Require().NoError(s.tracker.HandleNotification(ctx, domain.ToAgent("bob", ev, sub)))

	// Raising the question and delivering it classify differently, so the
	// edge carries both acts.
	state := s.tracker.State()
	s.Equal(2, state.TotalInteractions)
	edge := state.Edges[domain.EdgeKey{Source: "alice", Target: "bob"}]
	s.Require().NotNil(edge)
	s.Equal(2, edge.InteractionCount)
	s.True(edge.Types[domain.InteractionClarificationRequest])
	s.True(edge.Types[domain.InteractionHelpRequest])
}

func (s *CoordinationTrackerTestSuite) TestFold_OpensHandoffOnDelegation() {
	s.tracker.Fold(s.interaction("ev-1", "alice", strptr("bob"), domain.InteractionDelegation, 0))
	s.tracker.Fold(s.interaction("ev-2", "alice", strptr("bob"), domain.InteractionDelegation, 5))

	state := s.tracker.State()
	s.Require().Len(state.PendingHandoffs, 1)
	handoff := state.PendingHandoffs[domain.EdgeKey{Source: "alice", Target: "bob"}]
	s.Require().NotNil(handoff)
	s.Equal("ev-1", handoff.SourceEventID, "the first delegation keeps the handoff")
	s.True(handoff.OpenedAt.Equal(s.base))
}

func (s *CoordinationTrackerTestSuite) TestFold_ResponseRetiresReversedHandoff() {
	s.tracker.Fold(s.interaction("ev-1", "alice", strptr("bob"), domain.InteractionDelegation, 0))

	// A response from a bystander does not touch the alice->bob handoff.
	s.tracker.Fold(s.interaction("ev-2", "charlie", strptr("alice"), domain.InteractionHelpResponse, 1))
	s.Len(s.tracker.State().PendingHandoffs, 1)

	s.tracker.Fold(s.interaction("ev-3", "bob", strptr("alice"), domain.InteractionHelpResponse, 2))
	s.Empty(s.tracker.State().PendingHandoffs)
}

func (s *CoordinationTrackerTestSuite) TestFold_TracksBlockedAgents() {
	s.tracker.Fold(s.interaction("ev-1", "alice", nil, domain.InteractionHumanEscalation, 0))
	s.True(s.tracker.State().BlockedAgents["alice"])

	s.tracker.Fold(s.interaction("ev-2", "human", strptr("alice"), domain.InteractionHumanResponse, 1))
	s.Empty(s.tracker.State().BlockedAgents)
}

func (s *CoordinationTrackerTestSuite) TestFold_RingKeepsFiftyMostRecent() {
	for i := 0; i < 55; i++ {
		s.tracker.Fold(s.interaction(fmt.Sprintf("ev-%d", i), "alice", strptr("bob"), domain.InteractionDelegation, i))
	}

	state := s.tracker.State()
	s.Equal(55, state.TotalInteractions)
	s.Require().Len(state.RecentInteractions, 50)
	s.Equal("ev-54", state.RecentInteractions[0].SourceEventID)
	s.Equal("ev-5", state.RecentInteractions[49].SourceEventID)
}

func (s *CoordinationTrackerTestSuite) TestFold_OldSnapshotsStayConsistent() {
	s.tracker.Fold(s.interaction("ev-1", "alice", strptr("bob"), domain.InteractionDelegation, 0))
	old := s.tracker.State()

	s.tracker.Fold(s.interaction("ev-2", "alice", strptr("bob"), domain.InteractionClarificationRequest, 1))

	s.Equal(1, old.TotalInteractions)
	s.Equal(1, old.Edges[domain.EdgeKey{Source: "alice", Target: "bob"}].InteractionCount)
	s.Len(old.RecentInteractions, 1)

	cur := s.tracker.State()
	s.Equal(2, cur.TotalInteractions)
	s.Equal(2, cur.Edges[domain.EdgeKey{Source: "alice", Target: "bob"}].InteractionCount)
}

func (s *CoordinationTrackerTestSuite) TestStatistics() {
	s.tracker.Fold(s.interaction("ev-1", "alice", strptr("bob"), domain.InteractionDelegation, 0))
	s.tracker.Fold(s.interaction("ev-2", "alice", strptr("bob"), domain.InteractionReviewRequest, 1))
	s.tracker.Fold(s.interaction("ev-3", "bob", strptr("alice"), domain.InteractionHelpResponse, 2))
	s.tracker.Fold(s.interaction("ev-4", "charlie", strptr("alice"), domain.InteractionDelegation, 3))

	stats := s.tracker.Statistics()
	s.Equal(4, stats.TotalInteractions)
	s.Equal(3, stats.DistinctPairs)
	s.Equal("alice", stats.MostActiveAgent)
	s.Equal(2, stats.CountsByType[domain.InteractionDelegation])
	s.Equal(1, stats.CountsByType[domain.InteractionReviewRequest])
	s.Equal(1, stats.CountsByType[domain.InteractionHelpResponse])
	s.InDelta(4.0/3.0, stats.MeanPerAgent, 1e-9)
}

func (s *CoordinationTrackerTestSuite) TestStatistics_TieResolvesToSmallestID() {
	s.tracker.Fold(s.interaction("ev-1", "bob", strptr("alice"), domain.InteractionDelegation, 0))

	stats := s.tracker.Statistics()
	s.Equal("alice", stats.MostActiveAgent)
}

func (s *CoordinationTrackerTestSuite) TestStatistics_EmptyState() {
	stats := s.tracker.Statistics()
	s.Zero(stats.TotalInteractions)
	s.Zero(stats.DistinctPairs)
	s.Empty(stats.MostActiveAgent)
	s.Zero(stats.MeanPerAgent)
}

func (s *CoordinationTrackerTestSuite) TestWatch_DeliversSnapshots() {
	updates, cancel := s.tracker.Watch()

	s.tracker.Fold(s.interaction("ev-1", "alice", strptr("bob"), domain.InteractionDelegation, 0))

	state := <-updates
	s.Equal(1, state.TotalInteractions)

	cancel()
	_, open := <-updates
	s.False(open, "cancel closes the feed")

	cancel() // second cancel must be a no-op
}

func (s *CoordinationTrackerTestSuite) TestWatch_SlowWatcherNeverBlocksFold() {
	updates, cancel := s.tracker.Watch()
	defer cancel()

	for i := 0; i < 30; i++ {
		s.tracker.Fold(s.interaction(fmt.Sprintf("ev-%d", i), "alice", strptr("bob"), domain.InteractionDelegation, i))
	}

	received := 0
	for {
		select {
		case <-updates:
			received++
			continue
		default:
		}
		break
	}
	s.Equal(16, received, "a full buffer drops snapshots instead of blocking")
	s.Equal(30, s.tracker.State().TotalInteractions)
}
