package dto

import (
	"sort"
	"time"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/service"
)

// TicketResponse represents a ticket on the wire.
type TicketResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Type            string     `json:"type"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	AssignedAgentID *string    `json:"assignedAgentId"`
	CreatedBy       string     `json:"createdBy"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	IsOverdue       bool       `json:"isOverdue"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TicketsListResponse represents the response for GET /tickets.
type TicketsListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Count   int              `json:"count"`
}

// ToTicketResponse converts domain.Ticket to TicketResponse.
func ToTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              ticket.ID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Type:            string(ticket.Type),
		Priority:        string(ticket.Priority),
		Status:          string(ticket.Status),
		AssignedAgentID: ticket.AssignedAgentID,
		CreatedBy:       ticket.CreatedBy,
		DueDate:         ticket.DueDate,
		IsOverdue:       ticket.IsOverdue(time.Now().UTC()),
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}

// ToTicketsListResponse converts a ticket slice to TicketsListResponse.
func ToTicketsListResponse(tickets []*domain.Ticket) TicketsListResponse {
	resp := TicketsListResponse{
		Tickets: make([]TicketResponse, len(tickets)),
		Count:   len(tickets),
	}
	for i, t := range tickets {
		resp.Tickets[i] = ToTicketResponse(t)
	}
	return resp
}

// EscalationDecisionResponse represents an escalation decision on the wire.
type EscalationDecisionResponse struct {
	Category string   `json:"category"`
	Urgency  string   `json:"urgency"`
	Reasons  []string `json:"reasons"`
}

// ToEscalationDecisionResponse converts domain.EscalationDecision.
func ToEscalationDecisionResponse(d *domain.EscalationDecision) *EscalationDecisionResponse {
	if d == nil {
		return nil
	}
	return &EscalationDecisionResponse{
		Category: string(d.Category),
		Urgency:  string(d.Urgency),
		Reasons:  d.Reasons,
	}
}

// BlockTicketResponse represents the response for POST /tickets/:id/block
// and for status transitions into BLOCKED.
type BlockTicketResponse struct {
	Ticket     TicketResponse              `json:"ticket"`
	Escalation *EscalationDecisionResponse `json:"escalation,omitempty"`
}

// EventAcceptedResponse represents the response for POST /events.
type EventAcceptedResponse struct {
	EventID string `json:"eventId"`
}

// EventsListResponse represents the response for GET /events. Events marshal
// in their wire format.
type EventsListResponse struct {
	Events []*domain.Event `json:"events"`
	Count  int             `json:"count"`
}

// SubscriptionResponse represents a subscription on the wire.
type SubscriptionResponse struct {
	ID             string           `json:"id"`
	Subscriber     EventSourceRef   `json:"subscriber"`
	EventTypes     []string         `json:"eventTypes"`
	ExcludeSources []EventSourceRef `json:"excludeSources,omitempty"`
	MinUrgency     *string          `json:"minUrgency,omitempty"`
}

// SubscriptionsListResponse represents the response for GET /subscriptions.
type SubscriptionsListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}

// ToSubscriptionResponse converts domain.Subscription to SubscriptionResponse.
func ToSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:         sub.ID,
		Subscriber: toSubscriberRef(sub.Subscriber),
		EventTypes: make([]string, len(sub.EventTypes)),
	}
	for i, t := range sub.EventTypes {
		resp.EventTypes[i] = string(t)
	}
	for _, src := range sub.ExcludeSources {
		resp.ExcludeSources = append(resp.ExcludeSources, toSourceRef(src))
	}
	if sub.MinUrgency != nil {
		urgency := string(*sub.MinUrgency)
		resp.MinUrgency = &urgency
	}
	return resp
}

func toSubscriberRef(sub domain.Subscriber) EventSourceRef {
	ref := EventSourceRef{Kind: string(sub.Kind)}
	if sub.AgentID != "" {
		id := sub.AgentID
		ref.ID = &id
	}
	return ref
}

func toSourceRef(src domain.EventSource) EventSourceRef {
	ref := EventSourceRef{Kind: string(src.Kind)}
	if src.AgentID != "" {
		id := src.AgentID
		ref.ID = &id
	}
	return ref
}

// BacklogSummaryResponse represents the response for GET /summary/backlog.
type BacklogSummaryResponse struct {
	TotalTickets int            `json:"totalTickets"`
	ByStatus     map[string]int `json:"byStatus"`
	ByPriority   map[string]int `json:"byPriority"`
	Unassigned   int            `json:"unassigned"`
	Overdue      int            `json:"overdue"`
}

// ToBacklogSummaryResponse converts service.BacklogSummary.
func ToBacklogSummaryResponse(s *service.BacklogSummary) BacklogSummaryResponse {
	resp := BacklogSummaryResponse{
		TotalTickets: s.TotalTickets,
		ByStatus:     make(map[string]int, len(s.ByStatus)),
		ByPriority:   make(map[string]int, len(s.ByPriority)),
		Unassigned:   s.Unassigned,
		Overdue:      s.Overdue,
	}
	for status, n := range s.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	for priority, n := range s.ByPriority {
		resp.ByPriority[string(priority)] = n
	}
	return resp
}

// AgentWorkloadInfo represents one agent's load.
type AgentWorkloadInfo struct {
	AgentID string `json:"agentId"`
	Active  int    `json:"active"`
	Blocked int    `json:"blocked"`
	Done    int    `json:"done"`
}

// WorkloadsResponse represents the response for GET /summary/workload.
type WorkloadsResponse struct {
	Agents []AgentWorkloadInfo `json:"agents"`
}

// ToWorkloadsResponse converts service workloads.
func ToWorkloadsResponse(workloads []service.AgentWorkload) WorkloadsResponse {
	resp := WorkloadsResponse{Agents: make([]AgentWorkloadInfo, len(workloads))}
	for i, w := range workloads {
		resp.Agents[i] = AgentWorkloadInfo{
			AgentID: w.AgentID,
			Active:  w.Active,
			Blocked: w.Blocked,
			Done:    w.Done,
		}
	}
	return resp
}

// DeadlinesResponse represents the response for GET /summary/deadlines.
type DeadlinesResponse struct {
	Within  string           `json:"within"`
	Tickets []TicketResponse `json:"tickets"`
}

// CoordinationEdgeInfo represents one directed pair in the graph.
type CoordinationEdgeInfo struct {
	Source           string    `json:"source"`
	Target           string    `json:"target"`
	InteractionCount int       `json:"interactionCount"`
	LastInteraction  time.Time `json:"lastInteraction"`
	Types            []string  `json:"types"`
}

// PendingHandoffInfo represents a delegation awaiting a response.
type PendingHandoffInfo struct {
	Source        string    `json:"source"`
	Target        string    `json:"target"`
	OpenedAt      time.Time `json:"openedAt"`
	SourceEventID string    `json:"sourceEventId"`
	Context       string    `json:"context,omitempty"`
}

// InteractionInfo represents one classified interaction.
type InteractionInfo struct {
	SourceAgentID string    `json:"sourceAgentId"`
	TargetAgentID *string   `json:"targetAgentId,omitempty"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	SourceEventID string    `json:"sourceEventId"`
	Context       string    `json:"context,omitempty"`
}

// CoordinationStateResponse represents a coordination snapshot on the wire.
// Map-backed fields are emitted as sorted slices for deterministic output.
type CoordinationStateResponse struct {
	Edges              []CoordinationEdgeInfo `json:"edges"`
	PendingHandoffs    []PendingHandoffInfo   `json:"pendingHandoffs"`
	BlockedAgents      []string               `json:"blockedAgents"`
	RecentInteractions []InteractionInfo      `json:"recentInteractions"`
	TotalInteractions  int                    `json:"totalInteractions"`
	LastUpdated        *time.Time             `json:"lastUpdated,omitempty"`
}

// ToCoordinationStateResponse converts domain.CoordinationState.
func ToCoordinationStateResponse(state *domain.CoordinationState) CoordinationStateResponse {
	resp := CoordinationStateResponse{
		Edges:              make([]CoordinationEdgeInfo, 0, len(state.Edges)),
		PendingHandoffs:    make([]PendingHandoffInfo, 0, len(state.PendingHandoffs)),
		BlockedAgents:      make([]string, 0, len(state.BlockedAgents)),
		RecentInteractions: make([]InteractionInfo, 0, len(state.RecentInteractions)),
		TotalInteractions:  state.TotalInteractions,
	}

	for _, edge := range state.Edges {
		info := CoordinationEdgeInfo{
			Source:           edge.Source,
			Target:           edge.Target,
			InteractionCount: edge.InteractionCount,
			LastInteraction:  edge.LastInteraction,
			Types:            make([]string, 0, len(edge.Types)),
		}
		for t := range edge.Types {
			info.Types = append(info.Types, string(t))
		}
		sort.Strings(info.Types)
		resp.Edges = append(resp.Edges, info)
	}
	sort.Slice(resp.Edges, func(i, j int) bool {
		if resp.Edges[i].Source != resp.Edges[j].Source {
			return resp.Edges[i].Source < resp.Edges[j].Source
		}
		return resp.Edges[i].Target < resp.Edges[j].Target
	})

	for _, h := range state.PendingHandoffs {
		resp.PendingHandoffs = append(resp.PendingHandoffs, PendingHandoffInfo{
			Source:        h.Source,
			Target:        h.Target,
			OpenedAt:      h.OpenedAt,
			SourceEventID: h.SourceEventID,
			Context:       h.Context,
		})
	}
	sort.Slice(resp.PendingHandoffs, func(i, j int) bool {
		if resp.PendingHandoffs[i].Source != resp.PendingHandoffs[j].Source {
			return resp.PendingHandoffs[i].Source < resp.PendingHandoffs[j].Source
		}
		return resp.PendingHandoffs[i].Target < resp.PendingHandoffs[j].Target
	})

	for agent := range state.BlockedAgents {
		resp.BlockedAgents = append(resp.BlockedAgents, agent)
	}
	sort.Strings(resp.BlockedAgents)

	for _, in := range state.RecentInteractions {
		resp.RecentInteractions = append(resp.RecentInteractions, InteractionInfo{
			SourceAgentID: in.SourceAgentID,
			TargetAgentID: in.TargetAgentID,
			Type:          string(in.Type),
			Timestamp:     in.Timestamp,
			SourceEventID: in.SourceEventID,
			Context:       in.Context,
		})
	}

	if !state.LastUpdated.IsZero() {
		updated := state.LastUpdated
		resp.LastUpdated = &updated
	}
	return resp
}

// CoordinationStatsResponse represents the response for GET /coordination/stats.
type CoordinationStatsResponse struct {
	TotalInteractions int            `json:"totalInteractions"`
	DistinctPairs     int            `json:"distinctPairs"`
	MostActiveAgent   string         `json:"mostActiveAgent,omitempty"`
	CountsByType      map[string]int `json:"countsByType"`
	MeanPerAgent      float64        `json:"meanPerAgent"`
}

// ToCoordinationStatsResponse converts domain.CoordinationStatistics.
func ToCoordinationStatsResponse(stats domain.CoordinationStatistics) CoordinationStatsResponse {
	resp := CoordinationStatsResponse{
		TotalInteractions: stats.TotalInteractions,
		DistinctPairs:     stats.DistinctPairs,
		MostActiveAgent:   stats.MostActiveAgent,
		CountsByType:      make(map[string]int, len(stats.CountsByType)),
		MeanPerAgent:      stats.MeanPerAgent,
	}
	for t, n := range stats.CountsByType {
		resp.CountsByType[string(t)] = n
	}
	return resp
}
