package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/handler/dto"
	"github.com/mtlprog/slopmesh/internal/middleware"
	"github.com/mtlprog/slopmesh/internal/repository"
)

// handlePublishEvent accepts an event from an authenticated producer and
// enqueues it on the bus. The server assigns the id, timestamp, and source;
// the source is always the caller, so producers cannot impersonate each
// other.
// @Summary Publish an event
// @Description Accepts an event for dispatch. The server assigns the id, timestamp, and source; the source is always the authenticated caller.
// @Tags events
// @Accept json
// @Produce json
// @Param request body dto.PublishEventRequest true "Event publication request"
// @Success 202 {object} dto.EventAcceptedResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /events [post]
func (h *Handler) handlePublishEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	agent, err := middleware.GetAgentFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.PublishEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.EventType == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "eventType is required")
		return
	}

	eventType := domain.EventType(req.EventType)
	payload, ok := domain.NewPayload(eventType)
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown event type: "+req.EventType)
		return
	}

	if len(req.Payload) > 0 {
		if err := json.Unmarshal(req.Payload, payload); err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "payload does not match event type "+req.EventType)
			return
		}
	}

	urgency := domain.UrgencyMedium
	if req.Urgency != "" {
		urgency = domain.Urgency(req.Urgency)
		if !urgency.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "urgency must be 'LOW', 'MEDIUM', 'HIGH', or 'CRITICAL'")
			return
		}
	}

	ev := domain.NewEvent(domain.SourceForParticipant(agent.ID), urgency, payload)

	// Publish blocks when the queue is full. HTTP goroutines may wait here;
	// only bus handlers must not.
	if err := h.bus.Publish(ctx, ev); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusAccepted, dto.EventAcceptedResponse{EventID: ev.ID})
}

// handleListEvents returns journaled events in dispatch order.
// @Summary List journaled events
// @Description Get dispatched events in sequence order with optional filters
// @Tags events
// @Produce json
// @Param type query string false "Comma-separated event types: question_raised,task_created"
// @Param since query string false "Only events at or after this RFC3339 timestamp"
// @Param limit query int false "Page size (1-1000, default 100)"
// @Success 200 {object} dto.EventsListResponse
// @Security BearerAuth
// @Router /events [get]
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()

	var types []domain.EventType
	if typeParam := query.Get("type"); typeParam != "" {
		for _, raw := range splitAndTrim(typeParam, ",") {
			t := domain.EventType(raw)
			if !t.IsValid() {
				respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown event type: "+raw)
				return
			}
			types = append(types, t)
		}
	}

	var since *time.Time
	if sinceParam := query.Get("since"); sinceParam != "" {
		ts, err := time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "since must be an RFC3339 timestamp")
			return
		}
		since = &ts
	}

	limit := 100
	if limitParam := query.Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	events, err := h.journal.List(ctx, repository.EventFilter{
		Types: types,
		Since: since,
		Limit: limit,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list events")
		return
	}

	respondJSON(w, http.StatusOK, dto.EventsListResponse{
		Events: events,
		Count:  len(events),
	})
}
