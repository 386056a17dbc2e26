package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"musewave/logger"
	"musewave/model"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// respondError writes a uniform {"error": ...} envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondSuccess writes the {"success": true} envelope used by deletions.
func respondSuccess(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleError maps domain errors onto the response envelope. Nothing
// propagates to the client as an unstructured failure.
func handleError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Error())
	default:
		logger.Error("request failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewValidationError("body", "invalid request body")
	}
	return nil
}
