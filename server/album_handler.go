package server

import (
	"net/http"

	"musewave/model"

	"github.com/gorilla/mux"
)

// CreateAlbumHandler creates a new album.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	album := &model.Album{}
	if err := decodeJSON(r, album); err != nil {
		handleError(w, err)
		return
	}

	if album.UserID == "" {
		handleError(w, model.NewValidationError("userId", "userId is required"))
		return
	}
	if album.Title == "" {
		handleError(w, model.NewValidationError("title", "title is required"))
		return
	}

	owner, err := h.userRepo.GetUserByID(r.Context(), album.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	if owner == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.albumRepo.CreateAlbum(r.Context(), album); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, album)
}

// albumWithTracks is the album detail representation.
type albumWithTracks struct {
	*model.Album
	Tracks []*model.Track `json:"tracks"`
}

// GetAlbumHandler returns an album together with its tracks.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	album, err := h.albumRepo.GetAlbumByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	if album == nil {
		respondError(w, http.StatusNotFound, "album not found")
		return
	}

	tracks, err := h.trackRepo.GetTracksByAlbumID(r.Context(), album.ID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, albumWithTracks{Album: album, Tracks: tracks})
}

// GetUserAlbumsHandler lists a user's albums.
func (h *APIHandler) GetUserAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albumRepo.GetAlbumsByUserID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, albums)
}

// albumPatch carries the updatable album fields.
type albumPatch struct {
	Title         *string `json:"title"`
	Artist        *string `json:"artist"`
	Description   *string `json:"description"`
	CoverURL      *string `json:"coverUrl"`
	CoverGradient *string `json:"coverGradient"`
	Genre         *string `json:"genre"`
	Published     *bool   `json:"published"`
}

// UpdateAlbumHandler partially updates an album.
func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	album, err := h.albumRepo.GetAlbumByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	if album == nil {
		respondError(w, http.StatusNotFound, "album not found")
		return
	}

	var patch albumPatch
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, err)
		return
	}

	if patch.Title != nil {
		album.Title = *patch.Title
	}
	if patch.Artist != nil {
		album.Artist = *patch.Artist
	}
	if patch.Description != nil {
		album.Description = *patch.Description
	}
	if patch.CoverURL != nil {
		album.CoverURL = *patch.CoverURL
	}
	if patch.CoverGradient != nil {
		album.CoverGradient = *patch.CoverGradient
	}
	if patch.Genre != nil {
		album.Genre = *patch.Genre
	}
	if patch.Published != nil {
		album.Published = *patch.Published
	}

	if err := h.albumRepo.UpdateAlbum(r.Context(), album); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, album)
}

// DeleteAlbumHandler deletes an album. Its tracks survive, detached.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.albumRepo.DeleteAlbum(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}
