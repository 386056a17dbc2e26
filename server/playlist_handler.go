package server

import (
	"net/http"

	"musewave/model"

	"github.com/gorilla/mux"
)

// CreatePlaylistHandler creates a new playlist.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist := &model.Playlist{}
	if err := decodeJSON(r, playlist); err != nil {
		handleError(w, err)
		return
	}

	if playlist.UserID == "" {
		handleError(w, model.NewValidationError("userId", "userId is required"))
		return
	}
	if playlist.Name == "" {
		handleError(w, model.NewValidationError("name", "name is required"))
		return
	}

	owner, err := h.userRepo.GetUserByID(r.Context(), playlist.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	if owner == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.playlistRepo.CreatePlaylist(r.Context(), playlist); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, playlist)
}

// playlistWithTrackIDs is the playlist detail representation.
type playlistWithTrackIDs struct {
	*model.Playlist
	TrackIDs []string `json:"trackIds"`
}

// GetPlaylistHandler returns a playlist with its track IDs.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlistRepo.GetPlaylistByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "playlist not found")
		return
	}

	trackIDs, err := h.playlistRepo.GetPlaylistTrackIDs(r.Context(), playlist.ID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, playlistWithTrackIDs{Playlist: playlist, TrackIDs: trackIDs})
}

// GetUserPlaylistsHandler lists a user's playlists.
func (h *APIHandler) GetUserPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlistRepo.GetPlaylistsByUserID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, playlists)
}

// DeletePlaylistHandler removes a playlist and its memberships.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.playlistRepo.DeletePlaylist(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}

// AddPlaylistTrackHandler adds a track to a playlist.
func (h *APIHandler) AddPlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	playlist, err := h.playlistRepo.GetPlaylistByID(r.Context(), vars["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "playlist not found")
		return
	}

	track, err := h.trackRepo.GetTrackByID(r.Context(), vars["trackId"])
	if err != nil {
		handleError(w, err)
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "track not found")
		return
	}

	if err := h.playlistRepo.AddTrackToPlaylist(r.Context(), playlist.ID, track.ID); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}

// RemovePlaylistTrackHandler removes a track from a playlist.
func (h *APIHandler) RemovePlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.playlistRepo.RemoveTrackFromPlaylist(r.Context(), vars["id"], vars["trackId"]); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}
