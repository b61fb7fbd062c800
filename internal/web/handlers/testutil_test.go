package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-auth/internal/biometric"
	"github.com/kozaktomas/face-auth/internal/database/memory"
	"github.com/kozaktomas/face-auth/internal/identity"
	"github.com/kozaktomas/face-auth/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

// stubExtractor maps image bytes to canned templates.
type stubExtractor struct {
	faces map[string][]float32
	err   error
}

func (s *stubExtractor) Extract(_ context.Context, image []byte) ([]biometric.Detection, error) {
	if s.err != nil {
		return nil, s.err
	}
	switch string(image) {
	case "noface":
		return nil, biometric.ErrNoFace
	case "garbage":
		return nil, biometric.ErrInvalidImage
	}
	template, ok := s.faces[string(image)]
	if !ok {
		return nil, biometric.ErrInvalidImage
	}
	return []biometric.Detection{{Template: template}}, nil
}

// newTestService creates a service over an empty memory store
func newTestService(t *testing.T) (*identity.Service, *memory.Store, *stubExtractor) {
	t.Helper()
	store := memory.NewStore()
	extractor := &stubExtractor{faces: map[string][]float32{
		"alice": {0.1, 0.2, 0.3},
		"near":  {0.15, 0.2, 0.3},
		"far":   {0.9, 0.2, 0.3},
	}}
	svc := identity.NewService(store, extractor, identity.NewBcryptHasher(bcrypt.MinCost), identity.Options{
		Threshold: 0.6,
		Dim:       3,
		Logger:    logging.Discard(),
	})
	return svc, store, extractor
}

// multipartRequest builds a multipart POST with text fields and an optional file part
func multipartRequest(t *testing.T, path string, fields map[string]string, file []byte, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="face.jpg"`)
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		part.Write(file)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes a JSON response body into a map
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}
