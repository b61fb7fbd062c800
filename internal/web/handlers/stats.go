package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-auth/internal/identity"
)

// StatsHandler reports enrollment statistics
type StatsHandler struct {
	service *identity.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *identity.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// StatsResponse represents the stats response
type StatsResponse struct {
	EnrolledFaces int     `json:"enrolled_faces"`
	Threshold     float64 `json:"threshold"`
}

// Get returns the number of identities enrolled with a face
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.EnrolledFaces(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, StatsResponse{
		EnrolledFaces: count,
		Threshold:     h.service.Threshold(),
	})
}
