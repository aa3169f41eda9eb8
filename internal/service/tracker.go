package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mtlprog/slopmesh/internal/domain"
)

// maxRecentInteractions bounds the retained interaction ring.
const maxRecentInteractions = 50

// watchBuffer is the per-watcher snapshot channel capacity. Slow watchers
// miss intermediate snapshots instead of blocking the fold.
const watchBuffer = 16

// CoordinationTracker folds classified interactions into immutable
// coordination snapshots. Both entry points run inside the bus consumer, so
// folds never interleave; readers take the current snapshot through State()
// and never race the writer.
type CoordinationTracker struct {
	state atomic.Pointer[domain.CoordinationState]

	watchMu  sync.Mutex
	watchers map[int]chan *domain.CoordinationState
	nextID   int
}

// NewCoordinationTracker creates a tracker with an empty graph.
func NewCoordinationTracker() *CoordinationTracker {
	t := &CoordinationTracker{
		watchers: map[int]chan *domain.CoordinationState{},
	}
	t.state.Store(domain.NewCoordinationState())
	return t
}

// HandleEvent is the bus handler entry point.
func (t *CoordinationTracker) HandleEvent(ctx context.Context, ev *domain.Event) error {
	if in := ClassifyEvent(ev); in != nil {
		t.Fold(in)
	}
	return nil
}

// HandleNotification is the router sink entry point.
func (t *CoordinationTracker) HandleNotification(ctx context.Context, n domain.Notification) error {
	if in := ClassifyNotification(n); in != nil {
		t.Fold(in)
	}
	return nil
}

// State returns the current snapshot.
func (t *CoordinationTracker) State() *domain.CoordinationState {
	return t.state.Load()
}

// Fold applies one interaction and swaps in the next snapshot. An event and
// its routed notifications can classify into the same act; the ring is
// consulted so that act counts once.
func (t *CoordinationTracker) Fold(in *domain.AgentInteraction) {
	cur := t.state.Load()
	if seen(cur, in) {
		return
	}

	next := nextState(cur, in)
	t.state.Store(next)
	t.broadcast(next)
}

// seen checks the bounded ring for an interaction with the same identity.
// The duplicate always sits within the ring because an event and its
// notifications are adjacent in the serialized stream.
func seen(state *domain.CoordinationState, in *domain.AgentInteraction) bool {
	for _, r := range state.RecentInteractions {
		if r.SameIdentity(in) {
			return true
		}
	}
	return false
}

// nextState builds the successor snapshot. Maps are copied, and the one
// touched edge is deep-copied, so older snapshots stay consistent.
func nextState(cur *domain.CoordinationState, in *domain.AgentInteraction) *domain.CoordinationState {
	next := &domain.CoordinationState{
		Edges:             copyEdges(cur.Edges),
		PendingHandoffs:   copyHandoffs(cur.PendingHandoffs),
		BlockedAgents:     copyStringSet(cur.BlockedAgents),
		CountsByType:      copyTypeCounts(cur.CountsByType),
		ActivityByAgent:   copyStringCounts(cur.ActivityByAgent),
		TotalInteractions: cur.TotalInteractions + 1,
		LastUpdated:       in.Timestamp,
	}

	// Ring: most recent first, oldest evicted past the cap.
	recent := make([]*domain.AgentInteraction, 0, maxRecentInteractions)
	recent = append(recent, in)
	for _, r := range cur.RecentInteractions {
		if len(recent) == maxRecentInteractions {
			break
		}
		recent = append(recent, r)
	}
	next.RecentInteractions = recent

	next.CountsByType[in.Type]++
	next.ActivityByAgent[in.SourceAgentID]++
	if in.TargetAgentID != nil {
		next.ActivityByAgent[*in.TargetAgentID]++

		key := domain.EdgeKey{Source: in.SourceAgentID, Target: *in.TargetAgentID}
		edge := &domain.CoordinationEdge{
			Source: key.Source,
			Target: key.Target,
			Types:  map[domain.InteractionType]bool{},
		}
		if prev, ok := next.Edges[key]; ok {
			edge.InteractionCount = prev.InteractionCount
			for typ := range prev.Types {
				edge.Types[typ] = true
			}
		}
		edge.InteractionCount++
		edge.LastInteraction = in.Timestamp
		edge.Types[in.Type] = true
		next.Edges[key] = edge

		if in.Type == domain.InteractionDelegation {
			if _, open := next.PendingHandoffs[key]; !open {
				next.PendingHandoffs[key] = &domain.PendingHandoff{
					Source:        key.Source,
					Target:        key.Target,
					OpenedAt:      in.Timestamp,
					SourceEventID: in.SourceEventID,
					Context:       in.Context,
				}
			}
		}
		if in.Type.IsResponse() {
			// A response from B to A retires the A->B handoff.
			delete(next.PendingHandoffs, domain.EdgeKey{Source: *in.TargetAgentID, Target: in.SourceAgentID})
		}
	}

	switch in.Type {
	case domain.InteractionHumanEscalation:
		next.BlockedAgents[in.SourceAgentID] = true
	case domain.InteractionHumanResponse:
		if in.TargetAgentID != nil {
			delete(next.BlockedAgents, *in.TargetAgentID)
		}
	}

	return next
}

// Statistics derives summary numbers from the current snapshot on demand.
func (t *CoordinationTracker) Statistics() domain.CoordinationStatistics {
	s := t.State()

	stats := domain.CoordinationStatistics{
		TotalInteractions: s.TotalInteractions,
		DistinctPairs:     len(s.Edges),
		CountsByType:      copyTypeCounts(s.CountsByType),
	}

	for agent, activity := range s.ActivityByAgent {
		if stats.MostActiveAgent == "" {
			stats.MostActiveAgent = agent
			continue
		}
		best := s.ActivityByAgent[stats.MostActiveAgent]
		// Ties resolve to the lexicographically smallest participant id.
		if activity > best || (activity == best && agent < stats.MostActiveAgent) {
			stats.MostActiveAgent = agent
		}
	}

	if len(s.ActivityByAgent) > 0 {
		stats.MeanPerAgent = float64(s.TotalInteractions) / float64(len(s.ActivityByAgent))
	}

	return stats
}

// Watch registers a snapshot feed and returns the channel plus a cancel
// function. The channel closes on cancel.
func (t *CoordinationTracker) Watch() (<-chan *domain.CoordinationState, func()) {
	t.watchMu.Lock()
	defer t.watchMu.Unlock()

	id := t.nextID
	t.nextID++
	ch := make(chan *domain.CoordinationState, watchBuffer)
	t.watchers[id] = ch

	cancel := func() {
		t.watchMu.Lock()
		defer t.watchMu.Unlock()
		if ch, ok := t.watchers[id]; ok {
			delete(t.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// broadcast pushes the snapshot to every watcher without ever blocking the
// fold. A watcher with a full buffer skips this snapshot; it can always
// resync through State().
func (t *CoordinationTracker) broadcast(state *domain.CoordinationState) {
	t.watchMu.Lock()
	defer t.watchMu.Unlock()
	for _, ch := range t.watchers {
		select {
		case ch <- state:
		default:
		}
	}
}

func copyEdges(src map[domain.EdgeKey]*domain.CoordinationEdge) map[domain.EdgeKey]*domain.CoordinationEdge {
	dst := make(map[domain.EdgeKey]*domain.CoordinationEdge, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyHandoffs(src map[domain.EdgeKey]*domain.PendingHandoff) map[domain.EdgeKey]*domain.PendingHandoff {
	dst := make(map[domain.EdgeKey]*domain.PendingHandoff, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyStringSet(src map[string]bool) map[string]bool {
	dst := make(map[string]bool, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyTypeCounts(src map[domain.InteractionType]int) map[domain.InteractionType]int {
	dst := make(map[domain.InteractionType]int, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyStringCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
