package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"musewave/core/catalog"
	"musewave/model"

	"github.com/gorilla/mux"
)

// parseTrackFilter maps the listing query parameters onto a catalog filter.
func parseTrackFilter(r *http.Request) catalog.TrackFilter {
	q := r.URL.Query()

	filter := catalog.TrackFilter{
		UserID:    q.Get("userId"),
		Genre:     q.Get("genre"),
		Mood:      q.Get("mood"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if tags := q.Get("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	switch q.Get("published") {
	case "true":
		published := true
		filter.Published = &published
	case "false":
		published := false
		filter.Published = &published
	}

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = offset
	}
	return filter
}

// GetTracksHandler lists tracks with filtering, sorting and pagination.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.trackRepo.ListTracks(r.Context(), parseTrackFilter(r))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tracks)
}

// CreateTrackHandler creates a new track.
func (h *APIHandler) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	track := &model.Track{}
	if err := decodeJSON(r, track); err != nil {
		handleError(w, err)
		return
	}

	if track.UserID == "" {
		handleError(w, model.NewValidationError("userId", "userId is required"))
		return
	}
	if track.Title == "" {
		handleError(w, model.NewValidationError("title", "title is required"))
		return
	}

	owner, err := h.userRepo.GetUserByID(r.Context(), track.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	if owner == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.trackRepo.CreateTrack(r.Context(), track); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, track)
}

// GetTrackHandler returns a single track.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.trackRepo.GetTrackByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "track not found")
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// trackPatch carries the updatable track fields. Pointer fields
// distinguish "absent" from "set to zero value".
type trackPatch struct {
	AlbumID       *string     `json:"albumId"`
	Title         *string     `json:"title"`
	Artist        *string     `json:"artist"`
	ArtistSlug    *string     `json:"artistSlug"`
	Description   *string     `json:"description"`
	Genre         *string     `json:"genre"`
	Mood          *string     `json:"mood"`
	Tags          *model.Tags `json:"tags"`
	AudioURL      *string     `json:"audioUrl"`
	AudioFileSize *int64      `json:"audioFileSize"`
	AudioDuration *float64    `json:"audioDuration"`
	AudioFormat   *string     `json:"audioFormat"`
	CoverURL      *string     `json:"coverUrl"`
	CoverGradient *string     `json:"coverGradient"`
	WaveformData  *string     `json:"waveformData"`
	BPM           *int        `json:"bpm"`
	Key           *string     `json:"key"`
	Published     *bool       `json:"published"`
}

// UpdateTrackHandler partially updates a track. The first transition to
// published stamps publishedAt; it is never overwritten afterwards.
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.trackRepo.GetTrackByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "track not found")
		return
	}

	var patch trackPatch
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, err)
		return
	}

	applyTrackPatch(track, &patch)

	if err := h.trackRepo.UpdateTrack(r.Context(), track); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

func applyTrackPatch(track *model.Track, patch *trackPatch) {
	if patch.AlbumID != nil {
		track.AlbumID = patch.AlbumID
	}
	if patch.Title != nil {
		track.Title = *patch.Title
	}
	if patch.Artist != nil {
		track.Artist = *patch.Artist
	}
	if patch.ArtistSlug != nil {
		track.ArtistSlug = *patch.ArtistSlug
	}
	if patch.Description != nil {
		track.Description = *patch.Description
	}
	if patch.Genre != nil {
		track.Genre = *patch.Genre
	}
	if patch.Mood != nil {
		track.Mood = *patch.Mood
	}
	if patch.Tags != nil {
		track.Tags = *patch.Tags
	}
	if patch.AudioURL != nil {
		track.AudioURL = *patch.AudioURL
	}
	if patch.AudioFileSize != nil {
		track.AudioFileSize = *patch.AudioFileSize
	}
	if patch.AudioDuration != nil {
		track.AudioDuration = *patch.AudioDuration
	}
	if patch.AudioFormat != nil {
		track.AudioFormat = *patch.AudioFormat
	}
	if patch.CoverURL != nil {
		track.CoverURL = *patch.CoverURL
	}
	if patch.CoverGradient != nil {
		track.CoverGradient = *patch.CoverGradient
	}
	if patch.WaveformData != nil {
		track.WaveformData = *patch.WaveformData
	}
	if patch.BPM != nil {
		track.BPM = patch.BPM
	}
	if patch.Key != nil {
		track.Key = *patch.Key
	}
	if patch.Published != nil {
		track.Published = *patch.Published
		if track.Published && track.PublishedAt == nil {
			now := time.Now()
			track.PublishedAt = &now
		}
	}
}

// DeleteTrackHandler deletes a track and everything referencing it.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.trackRepo.DeleteTrack(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}
