package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain-specific errors for business logic validation.
var (
	// Ticket errors
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStatusConflict    = errors.New("ticket status changed concurrently")
	ErrValidation        = errors.New("validation failed")

	// Event errors
	ErrUnknownEventType = errors.New("unknown event type")

	// Bus errors
	ErrBusClosed = errors.New("event bus is stopped")
	ErrQueueFull = errors.New("event queue is full")

	// Subscription errors
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// Agent errors
	ErrAgentNotFound = errors.New("agent not found")
	ErrInvalidToken  = errors.New("invalid authentication token")

	// Validation errors
	ErrInvalidStatus   = errors.New("invalid ticket status")
	ErrInvalidType     = errors.New("invalid ticket type")
	ErrInvalidPriority = errors.New("invalid ticket priority")
	ErrInvalidUrgency  = errors.New("invalid event urgency")
)

// ValidationError reports every missing required field of a create request,
// not only the first one found.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Unwrap returns ErrValidation so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidTransitionError reports a (from, to) status pair that is not in the
// transition table. The ticket is left unchanged when this is returned.
type InvalidTransitionError struct {
	From TicketStatus
	To   TicketStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// Unwrap returns ErrInvalidTransition so callers can match with errors.Is.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
