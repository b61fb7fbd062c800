package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-auth/internal/identity"
)

// UsersHandler handles identity lookup and removal
type UsersHandler struct {
	service *identity.Service
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(service *identity.Service) *UsersHandler {
	return &UsersHandler{service: service}
}

// UserResponse represents an enrolled identity
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	HasFace  bool   `json:"has_face"`
}

// Get returns a single identity
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	found, err := h.service.GetIdentity(r.Context(), username)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{
		ID:       found.ID,
		Username: found.Name,
		HasFace:  found.HasTemplate,
	})
}

// Delete permanently removes an identity
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	name, err := h.service.RemoveIdentity(r.Context(), username)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "user " + name + " deleted successfully",
	})
}
