package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/kozaktomas/face-auth/internal/embedding"
	"github.com/kozaktomas/face-auth/internal/identity"
)

// AuthHandler handles registration and both login paths
type AuthHandler struct {
	service       *identity.Service
	maxUploadSize int64
	logger        *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *identity.Service, maxUploadSize int64, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// loginRequest represents a password login request
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and both login endpoints
type AuthResponse struct {
	Username   string   `json:"username"`
	Message    string   `json:"message"`
	Confidence *float64 `json:"confidence,omitempty"`
}

var (
	errMissingFile = errors.New("file is required")
	errNotAnImage  = errors.New("file must be an image")
	errFormParse   = errors.New("failed to parse multipart form")
)

// readImage parses the multipart form and returns the bytes of the "file" part.
// The part must declare an image/* content type.
func (h *AuthHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, errFormParse
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errMissingFile
	}
	defer file.Close()

	if !embedding.IsImageContentType(header.Header.Get("Content-Type")) {
		return nil, errNotAnImage
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errFormParse
	}
	return data, nil
}

// Register handles multipart enrollment with username, password and file
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	image, err := h.readImage(w, r)
	if err != nil {
		h.logger.Debug("upload rejected", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Enroll(r.Context(), identity.EnrollRequest{
		Name:     r.FormValue("username"),
		Password: r.FormValue("password"),
		Image:    image,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Username: result.Name,
		Message:  "registration successful",
	})
}

// Login handles password login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	name, err := h.service.AuthenticatePassword(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Username: name,
		Message:  "login successful",
	})
}

// LoginFace handles face login with a multipart file
func (h *AuthHandler) LoginFace(w http.ResponseWriter, r *http.Request) {
	image, err := h.readImage(w, r)
	if err != nil {
		h.logger.Debug("upload rejected", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.AuthenticateFace(r.Context(), image)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	confidence := result.Confidence
	respondJSON(w, http.StatusOK, AuthResponse{
		Username:   result.Name,
		Message:    "login successful",
		Confidence: &confidence,
	})
}
