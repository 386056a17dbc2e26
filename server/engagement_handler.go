package server

import (
	"net/http"

	"musewave/core/engagement"
	"musewave/model"

	"github.com/gorilla/mux"
)

// LikeTrackHandler creates a like for the track. 201 when newly created,
// 200 when the user had already liked it.
func (h *APIHandler) LikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["id"]

	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if req.UserID == "" {
		handleError(w, model.NewValidationError("userId", "userId is required"))
		return
	}

	like, created, err := h.engine.Like(r.Context(), req.UserID, trackID)
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, like)
}

// UnlikeTrackHandler removes the user's like from the track.
func (h *APIHandler) UnlikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["id"]

	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if req.UserID == "" {
		handleError(w, model.NewValidationError("userId", "userId is required"))
		return
	}

	if err := h.engine.Unlike(r.Context(), req.UserID, trackID); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}

// CheckLikeHandler reports whether a user has liked the track.
func (h *APIHandler) CheckLikeHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	hasLiked, err := h.engine.HasLiked(r.Context(), vars["userId"], vars["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"hasLiked": hasLiked})
}

// FollowUserHandler creates a follow edge. 201 when newly created, 200
// when the follower already follows the user.
func (h *APIHandler) FollowUserHandler(w http.ResponseWriter, r *http.Request) {
	followingID := mux.Vars(r)["id"]

	var req struct {
		FollowerID string `json:"followerId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if req.FollowerID == "" {
		handleError(w, model.NewValidationError("followerId", "followerId is required"))
		return
	}

	follow, created, err := h.engine.Follow(r.Context(), req.FollowerID, followingID)
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, follow)
}

// UnfollowUserHandler removes a follow edge.
func (h *APIHandler) UnfollowUserHandler(w http.ResponseWriter, r *http.Request) {
	followingID := mux.Vars(r)["id"]

	var req struct {
		FollowerID string `json:"followerId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if req.FollowerID == "" {
		handleError(w, model.NewValidationError("followerId", "followerId is required"))
		return
	}

	if err := h.engine.Unfollow(r.Context(), req.FollowerID, followingID); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}

// CheckFollowHandler reports whether follower follows the user.
func (h *APIHandler) CheckFollowHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	isFollowing, err := h.engine.IsFollowing(r.Context(), vars["followerId"], vars["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"isFollowing": isFollowing})
}

// RecordPlayHandler appends a play event. Always 201: playback events are
// never deduplicated.
func (h *APIHandler) RecordPlayHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["id"]

	var req struct {
		UserID    *string `json:"userId"`
		Duration  float64 `json:"duration"`
		Completed bool    `json:"completed"`
	}
	// The play body is optional; an empty body records an anonymous play.
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, err)
			return
		}
	}

	meta := engagement.ClientMeta{IPAddress: clientIP(r), UserAgent: r.UserAgent()}
	play, err := h.engine.RecordPlay(r.Context(), trackID, req.UserID, req.Duration, req.Completed, meta)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, play)
}

// RecordDownloadHandler appends a download event.
func (h *APIHandler) RecordDownloadHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["id"]

	var req struct {
		UserID *string `json:"userId"`
	}
	// The download body is optional.
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, err)
			return
		}
	}

	meta := engagement.ClientMeta{IPAddress: clientIP(r), UserAgent: r.UserAgent()}
	download, err := h.engine.RecordDownload(r.Context(), trackID, req.UserID, meta)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, download)
}
