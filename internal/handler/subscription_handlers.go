package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/handler/dto"
	"github.com/mtlprog/slopmesh/internal/middleware"
)

// handleCreateSubscription registers an event subscription for the
// authenticated caller. Subscribers only ever subscribe themselves.
// @Summary Create a subscription
// @Description Subscribe the authenticated caller to event types, optionally excluding sources or setting an urgency floor.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body dto.CreateSubscriptionRequest true "Subscription request"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *Handler) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	agent, err := middleware.GetAgentFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	// An empty type set would match nothing, which is never what a caller
	// wants.
	if len(req.EventTypes) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "eventTypes is required")
		return
	}

	eventTypes := make([]domain.EventType, 0, len(req.EventTypes))
	for _, raw := range req.EventTypes {
		t := domain.EventType(raw)
		if !t.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown event type: "+raw)
			return
		}
		eventTypes = append(eventTypes, t)
	}

	var excludeSources []domain.EventSource
	for _, ref := range req.ExcludeSources {
		src, err := sourceFromRef(ref)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
			return
		}
		excludeSources = append(excludeSources, src)
	}

	var minUrgency *domain.Urgency
	if req.MinUrgency != nil {
		urgency := domain.Urgency(*req.MinUrgency)
		if !urgency.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "minUrgency must be 'LOW', 'MEDIUM', 'HIGH', or 'CRITICAL'")
			return
		}
		minUrgency = &urgency
	}

	subscriber := domain.AgentSubscriber(agent.ID)
	if agent.ID == domain.HumanParticipantID {
		subscriber = domain.HumanSubscriber()
	}

	sub := &domain.Subscription{
		Subscriber:     subscriber,
		EventTypes:     eventTypes,
		ExcludeSources: excludeSources,
		MinUrgency:     minUrgency,
	}
	h.router.Register(sub)

	respondJSON(w, http.StatusCreated, dto.ToSubscriptionResponse(sub))
}

// handleListSubscriptions returns every registration in registration order.
// @Summary List subscriptions
// @Description Get every active subscription in registration order
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionsListResponse
// @Security BearerAuth
// @Router /subscriptions [get]
func (h *Handler) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs := h.router.Subscriptions()

	resp := dto.SubscriptionsListResponse{
		Subscriptions: make([]dto.SubscriptionResponse, len(subs)),
	}
	for i, sub := range subs {
		resp.Subscriptions[i] = dto.ToSubscriptionResponse(sub)
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleDeleteSubscription removes a subscription by id.
// @Summary Delete a subscription
// @Description Remove a subscription so its subscriber stops receiving notifications
// @Tags subscriptions
// @Param id path string true "Subscription ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/{id} [delete]
func (h *Handler) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "subscription id is required")
		return
	}

	if err := h.router.Unregister(id); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func sourceFromRef(ref dto.EventSourceRef) (domain.EventSource, error) {
	switch domain.SourceKind(ref.Kind) {
	case domain.SourceKindAgent:
		if ref.ID == nil || *ref.ID == "" {
			return domain.EventSource{}, errors.New("agent sources require an id")
		}
		return domain.AgentSource(*ref.ID), nil
	case domain.SourceKindHuman:
		return domain.HumanSource(), nil
	case domain.SourceKindSystem:
		return domain.SystemSource(), nil
	default:
		return domain.EventSource{}, errors.New("excludeSources kind must be 'agent', 'human', or 'system'")
	}
}
