package server

import (
	"net/http"
	"strconv"

	"musewave/core/auth"
	"musewave/model"

	"github.com/gorilla/mux"
)

// GetUsersHandler pages through all users.
func (h *APIHandler) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	users, err := h.userRepo.ListUsers(r.Context(), limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// CreateUserHandler registers a new user.
func (h *APIHandler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if req.Username == "" {
		handleError(w, model.NewValidationError("username", "username is required"))
		return
	}
	if req.Email == "" {
		handleError(w, model.NewValidationError("email", "email is required"))
		return
	}
	if req.Password == "" {
		handleError(w, model.NewValidationError("password", "password is required"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		handleError(w, err)
		return
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
	}
	if err := h.userRepo.CreateUser(r.Context(), user); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// GetUserHandler returns a single user.
func (h *APIHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetUserByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// GetUserByUsernameHandler returns a user looked up by username.
func (h *APIHandler) GetUserByUsernameHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetUserByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		handleError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// userPatch carries the updatable profile fields.
type userPatch struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
	HeaderURL   *string `json:"headerUrl"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
	Twitter     *string `json:"twitter"`
	Instagram   *string `json:"instagram"`
	Spotify     *string `json:"spotify"`
	Soundcloud  *string `json:"soundcloud"`
	Verified    *bool   `json:"verified"`
}

// UpdateUserHandler partially updates a user's profile.
func (h *APIHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetUserByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	var patch userPatch
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, err)
		return
	}

	if patch.DisplayName != nil {
		user.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}
	if patch.HeaderURL != nil {
		user.HeaderURL = *patch.HeaderURL
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.Website != nil {
		user.Website = *patch.Website
	}
	if patch.Twitter != nil {
		user.Twitter = *patch.Twitter
	}
	if patch.Instagram != nil {
		user.Instagram = *patch.Instagram
	}
	if patch.Spotify != nil {
		user.Spotify = *patch.Spotify
	}
	if patch.Soundcloud != nil {
		user.Soundcloud = *patch.Soundcloud
	}
	if patch.Verified != nil {
		user.Verified = *patch.Verified
	}

	if err := h.userRepo.UpdateUser(r.Context(), user); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteUserHandler deletes a user and cascades per the store rules.
func (h *APIHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.userRepo.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}

// GetArtistsHandler lists users who have uploaded tracks.
func (h *APIHandler) GetArtistsHandler(w http.ResponseWriter, r *http.Request) {
	artists, err := h.userRepo.ListArtists(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, artists)
}
