package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-auth/internal/identity"
)

func TestUsersHandler(t *testing.T) {
	svc, store, _ := newTestService(t)
	h := NewUsersHandler(svc)

	if _, err := svc.Enroll(t.Context(), identity.EnrollRequest{Name: "alice", Password: "pw", Image: []byte("alice")}); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	get := func(name string) *httptest.ResponseRecorder {
		req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+name, nil),
			map[string]string{"username": name})
		rec := httptest.NewRecorder()
		h.Get(rec, req)
		return rec
	}
	del := func(name string) *httptest.ResponseRecorder {
		req := requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+name, nil),
			map[string]string{"username": name})
		rec := httptest.NewRecorder()
		h.Delete(rec, req)
		return rec
	}

	rec := get("alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["username"] != "alice" || body["has_face"] != true {
		t.Errorf("unexpected body %v", body)
	}
	if _, ok := body["password_verifier"]; ok {
		t.Error("verifier must never be exposed")
	}

	if rec := del("alice"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := get("alice"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := del("alice"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for second delete, got %d", rec.Code)
	}

	store.FindError = errors.New("db down")
	if rec := get("alice"); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on store failure, got %d", rec.Code)
	}
}
