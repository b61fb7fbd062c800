package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kozaktomas/face-auth/internal/identity"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a workflow error onto a status code and a
// caller-safe message. Unknown errors are reported as internal.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidName), errors.Is(err, identity.ErrInvalidPassword):
		// Validation errors carry no internals.
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrDuplicateIdentity):
		respondError(w, http.StatusBadRequest, "username already registered")
	case errors.Is(err, identity.ErrInvalidImage):
		respondError(w, http.StatusBadRequest, "invalid or empty image file")
	case errors.Is(err, identity.ErrNoFaceDetected):
		respondError(w, http.StatusBadRequest, "no face found in the image, please ensure your face is clearly visible")
	case errors.Is(err, identity.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "incorrect username or password")
	case errors.Is(err, identity.ErrNoEnrolledBiometrics):
		respondError(w, http.StatusUnauthorized, "no registered faces found")
	case errors.Is(err, identity.ErrFaceNotRecognized):
		respondError(w, http.StatusUnauthorized, "face not recognized")
	case errors.Is(err, identity.ErrNotFound):
		respondError(w, http.StatusNotFound, "user not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
