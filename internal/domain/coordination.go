package domain

import "time"

// EdgeKey identifies a directed (source, target) pair in the coordination
// graph.
type EdgeKey struct {
	Source string
	Target string
}

// CoordinationEdge aggregates every interaction observed on one directed
// pair. Edges are upserted, never removed.
type CoordinationEdge struct {
	Source           string
	Target           string
	InteractionCount int
	LastInteraction  time.Time
	Types            map[InteractionType]bool // union of types ever observed
}

// PendingHandoff tracks a delegation still waiting for a response from its
// target.
type PendingHandoff struct {
	Source        string
	Target        string
	OpenedAt      time.Time
	SourceEventID string
	Context       string
}

// CoordinationState is one immutable snapshot of the coordination graph.
// The tracker builds a fresh snapshot per folded interaction and swaps it in
// atomically; holders of an old snapshot keep a consistent view. Treat every
// field as read-only.
type CoordinationState struct {
	Edges              map[EdgeKey]*CoordinationEdge
	PendingHandoffs    map[EdgeKey]*PendingHandoff
	BlockedAgents      map[string]bool
	RecentInteractions []*AgentInteraction // most recent first, bounded by the tracker
	TotalInteractions  int
	CountsByType       map[InteractionType]int
	ActivityByAgent    map[string]int // combined source+target counts
	LastUpdated        time.Time
}

// NewCoordinationState returns an empty snapshot.
func NewCoordinationState() *CoordinationState {
	return &CoordinationState{
		Edges:           map[EdgeKey]*CoordinationEdge{},
		PendingHandoffs: map[EdgeKey]*PendingHandoff{},
		BlockedAgents:   map[string]bool{},
		CountsByType:    map[InteractionType]int{},
		ActivityByAgent: map[string]int{},
	}
}

// CoordinationStatistics summarizes the retained interaction history.
type CoordinationStatistics struct {
	TotalInteractions int
	DistinctPairs     int
	MostActiveAgent   string // empty when nothing observed yet
	CountsByType      map[InteractionType]int
	MeanPerAgent      float64
}
