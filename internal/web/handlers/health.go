package handlers

import (
	"net/http"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "facial-recognition-api"

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}
