package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-auth/internal/identity"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{identity.ErrDuplicateIdentity, http.StatusBadRequest},
		{identity.ErrInvalidImage, http.StatusBadRequest},
		{identity.ErrNoFaceDetected, http.StatusBadRequest},
		{fmt.Errorf("%w: too long", identity.ErrInvalidName), http.StatusBadRequest},
		{identity.ErrInvalidPassword, http.StatusBadRequest},
		{identity.ErrInvalidCredentials, http.StatusUnauthorized},
		{identity.ErrNoEnrolledBiometrics, http.StatusUnauthorized},
		{identity.ErrFaceNotRecognized, http.StatusUnauthorized},
		{identity.ErrNotFound, http.StatusNotFound},
		{identity.ErrInternal, http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if rec.Header().Get("Content-Type") != "application/json" {
				t.Error("expected JSON content type")
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" || body["service"] != "facial-recognition-api" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestStatsHandler(t *testing.T) {
	svc, store, _ := newTestService(t)
	h := NewStatsHandler(svc)

	if _, err := svc.EnrollPasswordOnly(t.Context(), "bob", "pw"); err != nil {
		t.Fatalf("EnrollPasswordOnly failed: %v", err)
	}
	if _, err := svc.Enroll(t.Context(), identity.EnrollRequest{Name: "alice", Password: "pw", Image: []byte("alice")}); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["enrolled_faces"] != 1.0 {
		t.Errorf("expected 1 enrolled face, got %v", body["enrolled_faces"])
	}
	if body["threshold"] != 0.6 {
		t.Errorf("expected threshold 0.6, got %v", body["threshold"])
	}

	store.CountError = errors.New("db down")
	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
