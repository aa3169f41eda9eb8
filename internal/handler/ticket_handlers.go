package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/handler/dto"
	"github.com/mtlprog/slopmesh/internal/middleware"
	"github.com/mtlprog/slopmesh/internal/repository"
	"github.com/mtlprog/slopmesh/internal/service"
)

// handleCreateTicket creates a new ticket in BACKLOG. The creator is the
// authenticated caller.
// @Summary Create a new ticket
// @Description Creates a ticket in BACKLOG and announces it on the event bus. The creator is the authenticated caller.
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body dto.CreateTicketRequest true "Ticket creation request"
// @Success 201 {object} dto.TicketResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tickets [post]
func (h *Handler) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	agent, err := middleware.GetAgentFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	// Field presence and enum validity are checked by the orchestrator so
	// tickets materialized from events go through the same rules.
	ticket, err := h.orchestrator.Create(ctx, service.TicketSpec{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.TicketType(req.Type),
		Priority:    domain.TicketPriority(req.Priority),
		CreatedBy:   agent.ID,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTicketResponse(ticket))
}

// handleGetTicket retrieves one ticket by id.
// @Summary Get ticket details
// @Description Get one ticket by id, including assignment and due date.
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} dto.TicketResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tickets/{id} [get]
func (h *Handler) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticketID, ok := extractTicketID(w, r)
	if !ok {
		return
	}

	ticket, err := h.tickets.GetByID(ctx, ticketID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTicketResponse(ticket))
}

// handleListTickets returns tickets ordered by priority, then age.
// @Summary List tickets
// @Description Get tickets ordered by priority then age, with optional filters
// @Tags tickets
// @Produce json
// @Param status query string false "Comma-separated statuses: BACKLOG,IN_PROGRESS"
// @Param assignedTo query string false "Filter by assignee: 'me' or an agent id"
// @Param unassigned query bool false "Show only unassigned tickets"
// @Param priority query string false "Comma-separated priorities: high,critical"
// @Param overdue query bool false "Show only overdue tickets"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {object} dto.TicketsListResponse
// @Security BearerAuth
// @Router /tickets [get]
func (h *Handler) handleListTickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	agent, err := middleware.GetAgentFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	query := r.URL.Query()

	var statuses []domain.TicketStatus
	if statusParam := query.Get("status"); statusParam != "" {
		for _, raw := range splitAndTrim(statusParam, ",") {
			status := domain.TicketStatus(raw)
			if !status.IsValid() {
				respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid status: "+raw)
				return
			}
			statuses = append(statuses, status)
		}
	}

	var assignedTo *string
	if assigneeParam := query.Get("assignedTo"); assigneeParam != "" {
		if assigneeParam == "me" {
			assignedTo = &agent.ID
		} else {
			assignedTo = &assigneeParam
		}
	}
	unassigned := query.Get("unassigned") == "true"

	var priorities []domain.TicketPriority
	if priorityParam := query.Get("priority"); priorityParam != "" {
		for _, raw := range splitAndTrim(priorityParam, ",") {
			priority := domain.TicketPriority(raw)
			if !priority.IsValid() {
				respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid priority: "+raw)
				return
			}
			priorities = append(priorities, priority)
		}
	}

	overdue := query.Get("overdue") == "true"

	limit := 50
	if limitParam := query.Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	offset := 0
	if offsetParam := query.Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			offset = n
		}
	}

	tickets, err := h.tickets.List(ctx, repository.TicketFilter{
		Statuses:   statuses,
		AssignedTo: assignedTo,
		Unassigned: unassigned,
		Priorities: priorities,
		Overdue:    overdue,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tickets")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTicketsListResponse(tickets))
}

// handleAssignTicket sets or clears the assignee. A null assignedTo clears.
// @Summary Assign a ticket
// @Description Set or clear the ticket assignee. A null assignedTo clears the assignment.
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body dto.AssignTicketRequest true "Assignment request"
// @Success 200 {object} dto.TicketResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tickets/{id}/assign [post]
func (h *Handler) handleAssignTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticketID, ok := extractTicketID(w, r)
	if !ok {
		return
	}

	var req dto.AssignTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	ticket, err := h.orchestrator.Assign(ctx, ticketID, req.AssignedTo)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTicketResponse(ticket))
}

// handleTransitionStatus changes ticket status. Transitions into BLOCKED run
// the escalation policy and include its decision in the response.
// @Summary Transition ticket status
// @Description Change ticket status along the allowed transitions. Moving into BLOCKED runs the escalation policy and returns its decision.
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body dto.TransitionStatusRequest true "Status transition request"
// @Success 200 {object} dto.TicketResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tickets/{id}/status [patch]
func (h *Handler) handleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticketID, ok := extractTicketID(w, r)
	if !ok {
		return
	}

	var req dto.TransitionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Status == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status is required")
		return
	}

	newStatus := domain.TicketStatus(req.Status)
	if !newStatus.IsValid() {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid status: "+req.Status)
		return
	}

	if newStatus == domain.TicketStatusBlocked {
		ticket, decision, err := h.orchestrator.Block(ctx, ticketID, req.Reason)
		if err != nil {
			status, code, message := dto.MapDomainError(err)
			respondError(w, status, code, message)
			return
		}

		respondJSON(w, http.StatusOK, dto.BlockTicketResponse{
			Ticket:     dto.ToTicketResponse(ticket),
			Escalation: dto.ToEscalationDecisionResponse(decision),
		})
		return
	}

	ticket, err := h.orchestrator.Transition(ctx, ticketID, newStatus, req.Reason)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTicketResponse(ticket))
}

// handleBlockTicket marks a ticket BLOCKED and reports the escalation
// decision.
// @Summary Block a ticket
// @Description Mark an IN_PROGRESS ticket BLOCKED with a reason. The escalation policy runs and severe decisions book a coordination meeting.
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body dto.BlockTicketRequest true "Block request"
// @Success 200 {object} dto.BlockTicketResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tickets/{id}/block [post]
func (h *Handler) handleBlockTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticketID, ok := extractTicketID(w, r)
	if !ok {
		return
	}

	var req dto.BlockTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	ticket, decision, err := h.orchestrator.Block(ctx, ticketID, req.Reason)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.BlockTicketResponse{
		Ticket:     dto.ToTicketResponse(ticket),
		Escalation: dto.ToEscalationDecisionResponse(decision),
	})
}
