package server

import (
	"net/http"

	"musewave/model"

	"github.com/gorilla/mux"
)

// GetTrackCommentsHandler lists a track's comments.
func (h *APIHandler) GetTrackCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentRepo.GetCommentsByTrackID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// CreateCommentHandler adds a comment to a track.
func (h *APIHandler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["id"]

	var req struct {
		UserID    string   `json:"userId"`
		Content   string   `json:"content"`
		Timestamp *float64 `json:"timestamp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if req.UserID == "" {
		handleError(w, model.NewValidationError("userId", "userId is required"))
		return
	}
	if req.Content == "" {
		handleError(w, model.NewValidationError("content", "content is required"))
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), req.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		handleError(w, err)
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "track not found")
		return
	}

	comment := &model.Comment{
		UserID:    req.UserID,
		TrackID:   trackID,
		Content:   req.Content,
		Timestamp: req.Timestamp,
	}
	if err := h.commentRepo.CreateComment(r.Context(), comment); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// DeleteCommentHandler removes a comment.
func (h *APIHandler) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.commentRepo.DeleteComment(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}
