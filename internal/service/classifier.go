package service

import (
	"regexp"

	"github.com/mtlprog/slopmesh/internal/domain"
)

// maxContextLen caps the free-text context carried on an interaction.
const maxContextLen = 100

// mentionPattern matches an @Name token. Matches whose '@' is preceded by a
// word character are email-like and rejected separately.
var mentionPattern = regexp.MustCompile(`@([A-Za-z][A-Za-z0-9_-]*)`)

// ClassifyEvent derives the direct coordination act expressed by a single
// event. It is total: events that carry no interaction yield nil, never an
// error.
func ClassifyEvent(ev *domain.Event) *domain.AgentInteraction {
	source := ev.Source.ParticipantID()

	switch p := ev.Payload.(type) {
	case *domain.TaskCreatedPayload:
		// Unassigned work is not a coordination act yet.
		if p.AssignedTo == nil {
			return nil
		}
		return newInteraction(ev, source, p.AssignedTo, domain.InteractionTicketAssigned, p.Title)

	case *domain.QuestionRaisedPayload:
		return newInteraction(ev, source, ExtractMention(p.Question), domain.InteractionClarificationRequest, p.Question)

	case *domain.QuestionAnsweredPayload:
		return newInteraction(ev, source, optional(p.AskedBy), domain.InteractionClarificationResponse, p.Answer)

	case *domain.CodeSubmittedPayload:
		if !p.ReviewRequired || p.AssignedTo == nil {
			return nil
		}
		return newInteraction(ev, source, p.AssignedTo, domain.InteractionReviewRequest, p.Description)

	case *domain.ReviewCompletedPayload:
		return newInteraction(ev, source, optional(p.SubmittedBy), domain.InteractionReviewComplete, p.Notes)

	case *domain.HumanRespondedPayload:
		return newInteraction(ev, source, optional(p.TargetAgentID), domain.InteractionHumanResponse, p.Response)

	case *domain.MeetingScheduledPayload:
		return newInteraction(ev, source, firstOther(p.Participants, source), domain.InteractionMeetingInvite, p.Topic)

	default:
		return nil
	}
}

// ClassifyNotification derives the coordination act expressed by routing an
// event to a subscriber. Delivery back to the producing agent is never an
// interaction; delivery to a human is always an escalation.
func ClassifyNotification(n domain.Notification) *domain.AgentInteraction {
	ev := n.Event
	source := ev.Source.ParticipantID()

	switch n.Kind {
	case domain.NotificationKindHuman:
		in := &domain.AgentInteraction{
			SourceAgentID: source,
			Type:          domain.InteractionHumanEscalation,
			Timestamp:     ev.Timestamp,
			SourceEventID: ev.ID,
			Context:       TruncateContext(payloadContext(ev)),
		}
		return in

	case domain.NotificationKindAgent:
		if ev.Source.IsAgent(n.AgentID) {
			return nil
		}
		typ := domain.InteractionDelegation
		switch p := ev.Payload.(type) {
		case *domain.QuestionRaisedPayload:
			typ = domain.InteractionHelpRequest
		case *domain.QuestionAnsweredPayload:
			typ = domain.InteractionHelpResponse
		case *domain.CodeSubmittedPayload:
			if p.ReviewRequired {
				typ = domain.InteractionReviewRequest
			}
		}
		return newInteraction(ev, source, optional(n.AgentID), typ, payloadContext(ev))

	default:
		return nil
	}
}

// newInteraction builds an interaction, enforcing the self-exclusion rule:
// an act whose source and target are the same participant is no interaction.
func newInteraction(ev *domain.Event, source string, target *string, typ domain.InteractionType, context string) *domain.AgentInteraction {
	if target != nil && *target == source {
		return nil
	}
	return &domain.AgentInteraction{
		SourceAgentID: source,
		TargetAgentID: target,
		Type:          typ,
		Timestamp:     ev.Timestamp,
		SourceEventID: ev.ID,
		Context:       TruncateContext(context),
	}
}

// ExtractMention returns the first @Name token in text that is not part of
// an email-like pattern, or nil when the text addresses nobody.
func ExtractMention(text string) *string {
	for _, match := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		at := match[0]
		if at > 0 && isWordChar(text[at-1]) {
			continue // inside an email address
		}
		name := text[match[2]:match[3]]
		return &name
	}
	return nil
}

func isWordChar(c byte) bool {
	return c == '.' || c == '_' || c == '-' || c == '+' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// TruncateContext keeps strings of up to 100 characters unchanged; longer
// ones are cut to the first 97 characters plus "...", exactly 100 total.
func TruncateContext(s string) string {
	runes := []rune(s)
	if len(runes) <= maxContextLen {
		return s
	}
	return string(runes[:maxContextLen-3]) + "..."
}

// payloadContext extracts the most descriptive free-text field of an event
// for use as interaction context.
func payloadContext(ev *domain.Event) string {
	switch p := ev.Payload.(type) {
	case *domain.TaskCreatedPayload:
		return p.Title
	case *domain.TaskCompletedPayload:
		return p.Summary
	case *domain.QuestionRaisedPayload:
		return p.Question
	case *domain.QuestionAnsweredPayload:
		return p.Answer
	case *domain.CodeSubmittedPayload:
		return p.Description
	case *domain.ReviewCompletedPayload:
		return p.Notes
	case *domain.TicketStatusChangedPayload:
		return p.Reason
	case *domain.EscalationRaisedPayload:
		return p.Reason
	case *domain.HumanRespondedPayload:
		return p.Response
	case *domain.MeetingScheduledPayload:
		return p.Topic
	default:
		return string(ev.Type)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// firstOther returns the first participant that is not self.
func firstOther(participants []string, self string) *string {
	for _, p := range participants {
		if p != self {
			return &p
		}
	}
	return nil
}
