package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mtlprog/slopmesh/internal/domain"
	"github.com/mtlprog/slopmesh/internal/handler/dto"
)

// handleCoordinationState returns the current coordination snapshot.
// @Summary Coordination snapshot
// @Description Get the current coordination graph: edges, pending handoffs, blocked agents, and recent interactions
// @Tags coordination
// @Produce json
// @Success 200 {object} dto.CoordinationStateResponse
// @Security BearerAuth
// @Router /coordination [get]
func (h *Handler) handleCoordinationState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.ToCoordinationStateResponse(h.tracker.State()))
}

// handleCoordinationStats returns aggregate interaction statistics.
// @Summary Coordination statistics
// @Description Get interaction totals, distinct pairs, the most active agent, and counts by type
// @Tags coordination
// @Produce json
// @Success 200 {object} dto.CoordinationStatsResponse
// @Security BearerAuth
// @Router /coordination/stats [get]
func (h *Handler) handleCoordinationStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.ToCoordinationStatsResponse(h.tracker.Statistics()))
}

// handleCoordinationWatch streams coordination snapshots as server-sent
// events. The current state is sent immediately, then one event per change,
// until the client disconnects.
// @Summary Watch coordination changes
// @Description Stream coordination snapshots as server-sent events, starting with the current state
// @Tags coordination
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Security BearerAuth
// @Router /coordination/watch [get]
func (h *Handler) handleCoordinationWatch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming not supported")
		return
	}

	// The stream outlives the server's write timeout; lift it for this
	// response only.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates, cancel := h.tracker.Watch()
	defer cancel()

	if err := writeStateEvent(w, h.tracker.State()); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case state, open := <-updates:
			if !open {
				return
			}
			if err := writeStateEvent(w, state); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeStateEvent(w http.ResponseWriter, state *domain.CoordinationState) error {
	data, err := json.Marshal(dto.ToCoordinationStateResponse(state))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: coordination\ndata: %s\n\n", data)
	return err
}
