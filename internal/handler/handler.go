package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	_ "github.com/mtlprog/slopmesh/docs" // Import generated docs
	"github.com/mtlprog/slopmesh/internal/bus"
	"github.com/mtlprog/slopmesh/internal/handler/dto"
	"github.com/mtlprog/slopmesh/internal/middleware"
	"github.com/mtlprog/slopmesh/internal/repository"
	"github.com/mtlprog/slopmesh/internal/service"
	"github.com/mtlprog/slopmesh/internal/static"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Deps holds the wired engine parts the HTTP layer exposes. The caller
// assembles them because bus subscription order matters and must be decided
// in one place.
type Deps struct {
	Bus          *bus.Bus
	Router       *bus.Router
	Orchestrator *service.TicketOrchestrator
	Tracker      *service.CoordinationTracker
	Tickets      repository.TicketRepository
	Journal      repository.EventJournal
	Agents       middleware.AgentLookup

	// Health reports backing-store reachability. Nil means no external
	// dependencies, so the health check always passes.
	Health func(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	bus            *bus.Bus
	router         *bus.Router
	orchestrator   *service.TicketOrchestrator
	tracker        *service.CoordinationTracker
	tickets        repository.TicketRepository
	journal        repository.EventJournal
	health         func(ctx context.Context) error
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bus:            deps.Bus,
		router:         deps.Router,
		orchestrator:   deps.Orchestrator,
		tracker:        deps.Tracker,
		tickets:        deps.Tickets,
		journal:        deps.Journal,
		health:         deps.Health,
		authMiddleware: middleware.NewAuthMiddleware(deps.Agents),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Static files for AI agents
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /skill.md", h.handleSkillMd)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// API v1 routes with authentication
	mux.Handle("POST /api/v1/events", h.authMiddleware.Authenticate(http.HandlerFunc(h.handlePublishEvent)))
	mux.Handle("GET /api/v1/events", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListEvents)))

	mux.Handle("POST /api/v1/subscriptions", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateSubscription)))
	mux.Handle("GET /api/v1/subscriptions", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListSubscriptions)))
	mux.Handle("DELETE /api/v1/subscriptions/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleDeleteSubscription)))

	mux.Handle("POST /api/v1/tickets", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateTicket)))
	mux.Handle("GET /api/v1/tickets", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListTickets)))
	mux.Handle("GET /api/v1/tickets/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetTicket)))
	mux.Handle("POST /api/v1/tickets/{id}/assign", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleAssignTicket)))
	mux.Handle("PATCH /api/v1/tickets/{id}/status", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleTransitionStatus)))
	mux.Handle("POST /api/v1/tickets/{id}/block", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleBlockTicket)))

	mux.Handle("GET /api/v1/summary/backlog", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleBacklogSummary)))
	mux.Handle("GET /api/v1/summary/workload", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleWorkloadSummary)))
	mux.Handle("GET /api/v1/summary/deadlines", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleDeadlines)))

	mux.Handle("GET /api/v1/coordination", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCoordinationState)))
	mux.Handle("GET /api/v1/coordination/stats", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCoordinationStats)))
	mux.Handle("GET /api/v1/coordination/watch", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCoordinationWatch)))
}

// handleHealthz returns 200 OK if the backing store is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.health != nil {
		if err := h.health(ctx); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex serves the embedded landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.IndexHTML))
}

// handleSkillMd serves the embedded skill.md usage guide for AI agents.
func (h *Handler) handleSkillMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.SkillMd))
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractTicketID extracts the ticket ID from the path parameter. Externally
// announced tickets keep their producer-assigned ids, so there is no format
// requirement beyond being non-empty.
// Returns (ticketID, true) if present, ("", false) if missing (error already sent to client).
func extractTicketID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ticketID := r.PathValue("id")
	if ticketID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "ticket id is required")
		return "", false
	}

	return ticketID, true
}

// splitAndTrim splits a string by separator and trims whitespace, skipping
// empty segments.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
