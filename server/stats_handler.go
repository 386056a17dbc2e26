package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// GetUserStatsHandler returns a user's aggregate metrics.
func (h *APIHandler) GetUserStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.aggregator.UserStats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetTrackStatsHandler returns a track's aggregate metrics.
func (h *APIHandler) GetTrackStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.aggregator.TrackStats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
