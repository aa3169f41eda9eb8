package dto

import (
	"encoding/json"
	"time"
)

// CreateTicketRequest represents the request body for POST /tickets.
// createdBy is taken from the authenticated caller, never from the body.
type CreateTicketRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// AssignTicketRequest represents the request body for POST /tickets/:id/assign.
// A null assignedTo clears the assignee.
type AssignTicketRequest struct {
	AssignedTo *string `json:"assignedTo"`
}

// TransitionStatusRequest represents the request body for PATCH /tickets/:id/status.
type TransitionStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// BlockTicketRequest represents the request body for POST /tickets/:id/block.
type BlockTicketRequest struct {
	Reason string `json:"reason"`
}

// PublishEventRequest represents the request body for POST /events. The
// server assigns the event id, timestamp, and source; producers only choose
// type, urgency, and payload.
type PublishEventRequest struct {
	EventType string          `json:"eventType"`
	Urgency   string          `json:"urgency,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// EventSourceRef identifies an event source on the wire.
type EventSourceRef struct {
	Kind string  `json:"kind"`
	ID   *string `json:"id,omitempty"`
}

// CreateSubscriptionRequest represents the request body for POST /subscriptions.
// The subscriber is the authenticated caller.
type CreateSubscriptionRequest struct {
	EventTypes     []string         `json:"eventTypes"`
	ExcludeSources []EventSourceRef `json:"excludeSources,omitempty"`
	MinUrgency     *string          `json:"minUrgency,omitempty"`
}
