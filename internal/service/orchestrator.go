package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/repository"
)

// Publisher is the slice of the event bus the orchestrator emits through.
// TryPublish is the only safe shape here: several orchestrator methods run
// inside bus handlers, where a blocking publish would deadlock the consumer.
type Publisher interface {
	TryPublish(ev *domain.Event) error
}

// SchedulePort books a coordination meeting with an external calendar
// system. Implementations decide whether the request is honored. scheduledBy
// names the participant the booking is made as.
type SchedulePort func(ctx context.Context, meeting domain.Meeting, scheduledBy string) (domain.ScheduleOutcome, error)

// TicketSpec carries the caller-supplied fields for ticket creation.
type TicketSpec struct {
	Title       string
	Description string
	Type        domain.TicketType
	Priority    domain.TicketPriority
	CreatedBy   string
	AssignedTo  *string
	DueDate     *time.Time
}

// TicketOrchestrator owns the ticket lifecycle: creation, assignment, status
// transitions, and the escalation that fires when work becomes blocked. It
// is driven from two sides, bus handlers and the HTTP API, so check-then-act
// sequences are serialized with its own mutex on top of the repository's
// optimistic status update.
type TicketOrchestrator struct {
	tickets  repository.TicketRepository
	bus      Publisher
	policy   EscalationPolicy
	schedule SchedulePort

	mu sync.Mutex
}

// NewTicketOrchestrator creates a new TicketOrchestrator. A nil policy falls
// back to EvaluateEscalation; a nil schedule disables meeting booking.
func NewTicketOrchestrator(
	tickets repository.TicketRepository,
	bus Publisher,
	policy EscalationPolicy,
	schedule SchedulePort,
) *TicketOrchestrator {
	if policy == nil {
		policy = EvaluateEscalation
	}
	return &TicketOrchestrator{
		tickets:  tickets,
		bus:      bus,
		policy:   policy,
		schedule: schedule,
	}
}

// Create validates the caller's TicketSpec and persists a new ticket in
// BACKLOG. Missing required fields are all reported at once, not just the
// first one.
func (o *TicketOrchestrator) Create(ctx context.Context, spec TicketSpec) (*domain.Ticket, error) {
	return o.create(ctx, "", spec, true)
}

func (o *TicketOrchestrator) create(ctx context.Context, id string, spec TicketSpec, announce bool) (*domain.Ticket, error) {
	var missing []string
	if spec.Title == "" {
		missing = append(missing, "title")
	}
	if spec.Description == "" {
		missing = append(missing, "description")
	}
	if spec.Type == "" {
		missing = append(missing, "type")
	}
	if spec.Priority == "" {
		missing = append(missing, "priority")
	}
	if spec.CreatedBy == "" {
		missing = append(missing, "createdBy")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Missing: missing}
	}

	if !spec.Type.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidType, spec.Type)
	}
	if !spec.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPriority, spec.Priority)
	}

	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:          id,
		Title:       spec.Title,
		Description: spec.Description,
		Type:        spec.Type,
		Priority:    spec.Priority,
		Status:      domain.TicketStatusBacklog,
		CreatedBy:   spec.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if spec.AssignedTo != nil {
		assignee := *spec.AssignedTo
		ticket.AssignedAgentID = &assignee
	}
	if spec.DueDate != nil {
		due := spec.DueDate.UTC()
		ticket.DueDate = &due
	}

	if err := o.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	slog.Info("ticket created",
		"ticket_id", ticket.ID,
		"type", ticket.Type,
		"priority", ticket.Priority,
		"created_by", ticket.CreatedBy,
	)

	if announce {
		o.publish(domain.SourceForParticipant(ticket.CreatedBy), ticket.Priority.Urgency(), &domain.TaskCreatedPayload{
			TicketID:    ticket.ID,
			Title:       ticket.Title,
			Description: ticket.Description,
			TicketType:  ticket.Type,
			Priority:    ticket.Priority,
			AssignedTo:  spec.AssignedTo,
			DueDate:     ticket.DueDate,
		})
	}
	return ticket, nil
}

// Assign sets or clears the ticket's agent and announces the change.
func (o *TicketOrchestrator) Assign(ctx context.Context, ticketID string, agentID *string) (*domain.Ticket, error) {
	ticket, err := o.tickets.UpdateAssignee(ctx, ticketID, agentID)
	if err != nil {
		return nil, err
	}

	assignee := ""
	if agentID != nil {
		assignee = *agentID
	}
	slog.Info("ticket assigned", "ticket_id", ticketID, "assigned_to", assignee)

	o.publish(domain.SystemSource(), ticket.Priority.Urgency(), &domain.TicketAssignedPayload{
		TicketID:   ticketID,
		AssignedTo: agentID,
	})
	return ticket, nil
}

// Transition moves a ticket to another status if the workflow allows it. The
// ticket is left untouched when the transition is rejected. A transition
// into BLOCKED additionally runs the escalation policy.
func (o *TicketOrchestrator) Transition(ctx context.Context, ticketID string, to domain.TicketStatus, reason string) (*domain.Ticket, error) {
	ticket, _, err := o.transition(ctx, ticketID, to, reason)
	return ticket, err
}

// Block moves a ticket into BLOCKED and returns the escalation decision made
// for it. The reason is required: the policy classifies it.
func (o *TicketOrchestrator) Block(ctx context.Context, ticketID, reason string) (*domain.Ticket, *domain.EscalationDecision, error) {
	if reason == "" {
		return nil, nil, &domain.ValidationError{Missing: []string{"reason"}}
	}
	return o.transition(ctx, ticketID, domain.TicketStatusBlocked, reason)
}

func (o *TicketOrchestrator) transition(ctx context.Context, ticketID string, to domain.TicketStatus, reason string) (*domain.Ticket, *domain.EscalationDecision, error) {
	if !to.IsValid() {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, to)
	}

	o.mu.Lock()
	ticket, err := o.tickets.GetByID(ctx, ticketID)
	if err != nil {
		o.mu.Unlock()
		return nil, nil, err
	}
	from := ticket.Status
	if !from.CanTransitionTo(to) {
		o.mu.Unlock()
		return nil, nil, &domain.InvalidTransitionError{From: from, To: to}
	}
	updated, err := o.tickets.UpdateStatus(ctx, ticketID, from, to)
	o.mu.Unlock()
	if err != nil {
		return nil, nil, err
	}

	slog.Info("ticket status changed",
		"ticket_id", ticketID,
		"from", from,
		"to", to,
	)

	o.publish(domain.SystemSource(), updated.Priority.Urgency(), &domain.TicketStatusChangedPayload{
		TicketID: ticketID,
		From:     from,
		To:       to,
		Reason:   reason,
	})

	var decision *domain.EscalationDecision
	if to == domain.TicketStatusBlocked {
		decision = o.escalate(ctx, updated, reason)
	}
	return updated, decision, nil
}

// escalate runs the policy over the freshly blocked ticket, announces the
// decision, and books a meeting when the severity warrants one.
func (o *TicketOrchestrator) escalate(ctx context.Context, ticket *domain.Ticket, reason string) *domain.EscalationDecision {
	snapshot, err := o.projectSnapshot(ctx, ticket)
	if err != nil {
		// The policy treats a nil snapshot as "no project signals".
		slog.Error("failed to build project snapshot", "ticket_id", ticket.ID, "error", err)
	}

	decision := o.policy(domain.EscalationContext{
		Ticket:   ticket,
		Reason:   reason,
		Snapshot: snapshot,
	})

	slog.Info("escalation raised",
		"ticket_id", ticket.ID,
		"category", decision.Category,
		"urgency", decision.Urgency,
	)

	o.publish(domain.SystemSource(), eventUrgencyFor(decision.Urgency), &domain.EscalationRaisedPayload{
		TicketID: ticket.ID,
		Reason:   reason,
		Category: decision.Category,
		Urgency:  decision.Urgency,
		Details:  decision.Reasons,
	})

	if decision.Urgency != domain.UrgencyLevelNormal && o.schedule != nil {
		o.scheduleMeeting(ctx, ticket, decision)
	}
	return &decision
}

func (o *TicketOrchestrator) scheduleMeeting(ctx context.Context, ticket *domain.Ticket, decision domain.EscalationDecision) {
	meeting := domain.Meeting{
		Topic:        fmt.Sprintf("Unblock %q", ticket.Title),
		TicketID:     ticket.ID,
		Participants: meetingParticipants(ticket),
		Urgency:      decision.Urgency,
	}

	outcome, err := o.schedule(ctx, meeting, domain.SystemParticipantID)
	if err != nil {
		slog.Error("failed to schedule escalation meeting", "ticket_id", ticket.ID, "error", err)
		return
	}
	if !outcome.Scheduled {
		slog.Warn("escalation meeting declined", "ticket_id", ticket.ID, "note", outcome.Note)
		return
	}

	slog.Info("escalation meeting scheduled", "ticket_id", ticket.ID, "meeting_id", outcome.MeetingID)

	o.publish(domain.SystemSource(), eventUrgencyFor(decision.Urgency), &domain.MeetingScheduledPayload{
		MeetingID:    outcome.MeetingID,
		TicketID:     ticket.ID,
		Topic:        meeting.Topic,
		Participants: meeting.Participants,
	})
}

// meetingParticipants always includes the human plus whoever holds or filed
// the ticket.
func meetingParticipants(ticket *domain.Ticket) []string {
	participants := []string{domain.HumanParticipantID}
	seen := map[string]bool{domain.HumanParticipantID: true}

	add := func(id string) {
		if id != "" && id != domain.SystemParticipantID && !seen[id] {
			seen[id] = true
			participants = append(participants, id)
		}
	}
	if ticket.AssignedAgentID != nil {
		add(*ticket.AssignedAgentID)
	}
	add(ticket.CreatedBy)
	return participants
}

// projectSnapshot counts the live project signals the escalation policy
// weighs. The blocked ticket is already stored with its new status, so it is
// part of the blocked count.
func (o *TicketOrchestrator) projectSnapshot(ctx context.Context, blocked *domain.Ticket) (*domain.ProjectSnapshot, error) {
	tickets, err := o.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snapshot := &domain.ProjectSnapshot{ActiveByAgent: make(map[string]int)}
	for _, t := range tickets {
		if t.Status == domain.TicketStatusBlocked {
			snapshot.BlockedTickets++
			if t.ID != blocked.ID {
				if t.Priority == domain.TicketPriorityHigh || t.Priority == domain.TicketPriorityCritical {
					snapshot.OtherHighPrioBlocked++
				}
				if blocked.AssignedAgentID != nil && t.IsAssignedTo(*blocked.AssignedAgentID) {
					snapshot.AssigneeBlocked++
				}
			}
		}
		if t.IsOverdue(now) {
			snapshot.OverdueTickets++
		}
		if t.Status.IsActive() && t.AssignedAgentID != nil {
			snapshot.ActiveByAgent[*t.AssignedAgentID]++
		}
	}
	return snapshot, nil
}

// HandleEvent reacts to bus events that demand ticket mutations:
// task_created materializes a ticket when none exists yet, task_completed
// closes one out.
func (o *TicketOrchestrator) HandleEvent(ctx context.Context, ev *domain.Event) error {
	switch p := ev.Payload.(type) {
	case *domain.TaskCreatedPayload:
		return o.materializeTicket(ctx, ev, p)
	case *domain.TaskCompletedPayload:
		return o.completeTicket(ctx, p)
	}
	return nil
}

func (o *TicketOrchestrator) materializeTicket(ctx context.Context, ev *domain.Event, p *domain.TaskCreatedPayload) error {
	if p.TicketID != "" {
		_, err := o.tickets.GetByID(ctx, p.TicketID)
		if err == nil {
			// Announced by Create; the ticket already exists.
			return nil
		}
		if !errors.Is(err, domain.ErrTicketNotFound) {
			return err
		}
	}

	spec := TicketSpec{
		Title:       p.Title,
		Description: p.Description,
		Type:        p.TicketType,
		Priority:    p.Priority,
		CreatedBy:   ev.Source.ParticipantID(),
		AssignedTo:  p.AssignedTo,
		DueDate:     p.DueDate,
	}
	if spec.Type == "" {
		spec.Type = domain.TicketTypeTask
	}
	if spec.Priority == "" {
		spec.Priority = domain.TicketPriorityNormal
	}

	_, err := o.create(ctx, p.TicketID, spec, false)
	return err
}

func (o *TicketOrchestrator) completeTicket(ctx context.Context, p *domain.TaskCompletedPayload) error {
	if p.TicketID == "" {
		return nil
	}

	ticket, err := o.tickets.GetByID(ctx, p.TicketID)
	if err != nil {
		return err
	}
	if ticket.Status == domain.TicketStatusDone {
		return nil
	}

	reason := p.Summary
	if reason == "" {
		reason = "task completed"
	}
	_, err = o.Transition(ctx, p.TicketID, domain.TicketStatusDone, reason)
	return err
}

// publish emits an engine-produced event. Failures are logged and swallowed:
// the ticket mutation already happened and must not be rolled back because
// the bus is stopped or saturated.
func (o *TicketOrchestrator) publish(source domain.EventSource, urgency domain.Urgency, payload domain.Payload) {
	ev := domain.NewEvent(source, urgency, payload)
	if err := o.bus.TryPublish(ev); err != nil {
		slog.Error("failed to publish event",
			"event_type", payload.EventType(),
			"error", err,
		)
	}
}

// eventUrgencyFor maps an escalation severity onto the event urgency scale.
func eventUrgencyFor(level domain.UrgencyLevel) domain.Urgency {
	switch level {
	case domain.UrgencyLevelCritical:
		return domain.UrgencyCritical
	case domain.UrgencyLevelElevated:
		return domain.UrgencyHigh
	default:
		return domain.UrgencyMedium
	}
}

// BacklogSummary aggregates ticket counts for reporting.
type BacklogSummary struct {
	TotalTickets int
	ByStatus     map[domain.TicketStatus]int
	ByPriority   map[domain.TicketPriority]int
	Unassigned   int
	Overdue      int
}

// BacklogSummary folds the current ticket population into counts. Read-only.
func (o *TicketOrchestrator) BacklogSummary(ctx context.Context) (*BacklogSummary, error) {
	tickets, err := o.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summary := &BacklogSummary{
		ByStatus:   make(map[domain.TicketStatus]int),
		ByPriority: make(map[domain.TicketPriority]int),
	}
	for _, t := range tickets {
		summary.TotalTickets++
		summary.ByStatus[t.Status]++
		summary.ByPriority[t.Priority]++
		if t.AssignedAgentID == nil {
			summary.Unassigned++
		}
		if t.IsOverdue(now) {
			summary.Overdue++
		}
	}
	return summary, nil
}

// AgentWorkload reports the ticket load carried by one agent.
type AgentWorkload struct {
	AgentID string
	Active  int // READY, IN_PROGRESS, BLOCKED, or IN_REVIEW
	Blocked int
	Done    int
}

// AgentWorkloads reports per-agent load, sorted by agent ID. Read-only.
func (o *TicketOrchestrator) AgentWorkloads(ctx context.Context) ([]AgentWorkload, error) {
	tickets, err := o.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, err
	}

	byAgent := make(map[string]*AgentWorkload)
	for _, t := range tickets {
		if t.AssignedAgentID == nil {
			continue
		}
		w := byAgent[*t.AssignedAgentID]
		if w == nil {
			w = &AgentWorkload{AgentID: *t.AssignedAgentID}
			byAgent[*t.AssignedAgentID] = w
		}
		if t.Status.IsActive() {
			w.Active++
		}
		if t.Status == domain.TicketStatusBlocked {
			w.Blocked++
		}
		if t.Status == domain.TicketStatusDone {
			w.Done++
		}
	}

	workloads := make([]AgentWorkload, 0, len(byAgent))
	for _, w := range byAgent {
		workloads = append(workloads, *w)
	}
	sort.Slice(workloads, func(i, j int) bool { return workloads[i].AgentID < workloads[j].AgentID })
	return workloads, nil
}

// UpcomingDeadlines lists not-yet-done tickets due before now+within, soonest
// first. Already overdue tickets are included. Read-only.
func (o *TicketOrchestrator) UpcomingDeadlines(ctx context.Context, within time.Duration) ([]*domain.Ticket, error) {
	horizon := time.Now().UTC().Add(within)
	tickets, err := o.tickets.List(ctx, repository.TicketFilter{DueBefore: &horizon})
	if err != nil {
		return nil, err
	}

	upcoming := make([]*domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Status != domain.TicketStatusDone {
			upcoming = append(upcoming, t)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		if !upcoming[i].DueDate.Equal(*upcoming[j].DueDate) {
			return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
		}
		return upcoming[i].ID < upcoming[j].ID
	})
	return upcoming, nil
}
