package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Read-only listings over the engagement tables.

// GetTrackPlaysHandler lists a track's play events.
func (h *APIHandler) GetTrackPlaysHandler(w http.ResponseWriter, r *http.Request) {
	plays, err := h.engRepo.GetPlaysByTrackID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plays)
}

// GetTrackDownloadsHandler lists a track's download events.
func (h *APIHandler) GetTrackDownloadsHandler(w http.ResponseWriter, r *http.Request) {
	downloads, err := h.engRepo.GetDownloadsByTrackID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, downloads)
}

// GetUserPlaysHandler lists a user's play events.
func (h *APIHandler) GetUserPlaysHandler(w http.ResponseWriter, r *http.Request) {
	plays, err := h.engRepo.GetPlaysByUserID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plays)
}

// GetUserLikesHandler lists a user's likes.
func (h *APIHandler) GetUserLikesHandler(w http.ResponseWriter, r *http.Request) {
	likes, err := h.engRepo.GetLikesByUserID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, likes)
}

// GetFollowersHandler lists the follow edges pointing at a user.
func (h *APIHandler) GetFollowersHandler(w http.ResponseWriter, r *http.Request) {
	follows, err := h.engRepo.GetFollowers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, follows)
}

// GetFollowingHandler lists the follow edges created by a user.
func (h *APIHandler) GetFollowingHandler(w http.ResponseWriter, r *http.Request) {
	follows, err := h.engRepo.GetFollowing(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, follows)
}
