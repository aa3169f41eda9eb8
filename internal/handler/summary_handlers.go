package handler

import (
	"net/http"
	"time"

	"github.com/mtlprog/slopmesh/internal/config"
	"github.com/mtlprog/slopmesh/internal/handler/dto"
)

// handleBacklogSummary returns ticket counts by status and priority.
// @Summary Backlog summary
// @Description Get ticket counts by status and priority, plus unassigned and overdue totals
// @Tags summary
// @Produce json
// @Success 200 {object} dto.BacklogSummaryResponse
// @Security BearerAuth
// @Router /summary/backlog [get]
func (h *Handler) handleBacklogSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.orchestrator.BacklogSummary(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build backlog summary")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToBacklogSummaryResponse(summary))
}

// handleWorkloadSummary returns per-agent ticket counts.
// @Summary Agent workload summary
// @Description Get active, blocked, and done ticket counts per assigned agent
// @Tags summary
// @Produce json
// @Success 200 {object} dto.WorkloadsResponse
// @Security BearerAuth
// @Router /summary/workload [get]
func (h *Handler) handleWorkloadSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workloads, err := h.orchestrator.AgentWorkloads(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build workload summary")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToWorkloadsResponse(workloads))
}

// handleDeadlines returns unfinished tickets due within the window. The
// window comes from the "within" query parameter as a Go duration, for
// example "72h" or "30m".
// @Summary Upcoming deadlines
// @Description Get unfinished tickets due within a window, soonest first
// @Tags summary
// @Produce json
// @Param within query string false "Window as a Go duration (default 72h)"
// @Success 200 {object} dto.DeadlinesResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /summary/deadlines [get]
func (h *Handler) handleDeadlines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	within := config.DefaultDeadlineWindow
	if withinParam := r.URL.Query().Get("within"); withinParam != "" {
		d, err := time.ParseDuration(withinParam)
		if err != nil || d <= 0 {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "within must be a positive duration such as '72h'")
			return
		}
		within = d
	}

	tickets, err := h.orchestrator.UpcomingDeadlines(ctx, within)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list deadlines")
		return
	}

	resp := dto.DeadlinesResponse{
		Within:  within.String(),
		Tickets: make([]dto.TicketResponse, len(tickets)),
	}
	for i, t := range tickets {
		resp.Tickets[i] = dto.ToTicketResponse(t)
	}

	respondJSON(w, http.StatusOK, resp)
}
