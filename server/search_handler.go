package server

import (
	"net/http"
	"strconv"
	"strings"

	"musewave/model"
)

// searchResults is the combined search response.
type searchResults struct {
	Tracks []*model.Track `json:"tracks"`
	Users  []*model.User  `json:"users"`
}

// SearchHandler runs a substring search over tracks and/or users.
// Track results only include published tracks.
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		handleError(w, model.NewValidationError("q", "query parameter 'q' is required"))
		return
	}

	searchType := q.Get("type")
	if searchType == "" {
		searchType = "all"
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	results := searchResults{
		Tracks: []*model.Track{},
		Users:  []*model.User{},
	}

	if searchType == "tracks" || searchType == "all" {
		tracks, err := h.trackRepo.SearchTracks(r.Context(), query, limit)
		if err != nil {
			handleError(w, err)
			return
		}
		results.Tracks = tracks
	}

	if searchType == "users" || searchType == "all" {
		users, err := h.userRepo.SearchUsers(r.Context(), query, limit)
		if err != nil {
			handleError(w, err)
			return
		}
		results.Users = users
	}

	respondJSON(w, http.StatusOK, results)
}

// RebuildSearchIndexHandler exists for API compatibility. Searches run
// directly against the catalog, so there is no index to rebuild.
func (h *APIHandler) RebuildSearchIndexHandler(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w)
}
