package identity

import (
	"context"
	"errors"

	"github.com/kozaktomas/face-auth/internal/database"
	"github.com/kozaktomas/face-auth/internal/logging"
	"github.com/kozaktomas/face-auth/internal/metrics"
)

// EnrollRequest holds everything needed to create an identity with a face.
type EnrollRequest struct {
	Name     string
	Password string
	Image    []byte
}

// EnrollResult is returned by a successful enrollment.
type EnrollResult struct {
	ID   int64
	Name string
}

// Enroll validates the request, extracts a face descriptor and creates the
// identity in a single store call. If the image holds several faces the
// first detection is used.
func (s *Service) Enroll(ctx context.Context, req EnrollRequest) (*EnrollResult, error) {
	result, outcome, err := s.enroll(ctx, req)
	metrics.RecordEnrollment(outcome)
	return result, err
}

func (s *Service) enroll(ctx context.Context, req EnrollRequest) (*EnrollResult, string, error) {
	if err := validateName(req.Name); err != nil {
		return nil, metrics.OutcomeInvalidInput, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, metrics.OutcomeInvalidInput, err
	}

	existing, err := s.store.FindByName(ctx, req.Name)
	if err != nil {
		return nil, metrics.OutcomeInternalError, s.internal("find identity", err)
	}
	if existing != nil {
		return nil, metrics.OutcomeDuplicate, ErrDuplicateIdentity
	}

	detections, err := s.extract(ctx, req.Image)
	if err != nil {
		return nil, extractOutcome(err), err
	}
	if len(detections) > 1 {
		s.logger.Warn("multiple faces detected, using the first one",
			"username", logging.Sanitize(req.Name), "faces", len(detections))
		metrics.RecordMultiFaceEnrollment()
	}
	template := detections[0].Template
	if err := s.checkDim(template); err != nil {
		return nil, metrics.OutcomeInternalError, s.internal("check template", err)
	}

	return s.create(ctx, req.Name, req.Password, template)
}

// EnrollPasswordOnly creates an identity without a face template. Such an
// identity can only log in with its password.
func (s *Service) EnrollPasswordOnly(ctx context.Context, name, password string) (*EnrollResult, error) {
	if err := validateName(name); err != nil {
		metrics.RecordEnrollment(metrics.OutcomeInvalidInput)
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		metrics.RecordEnrollment(metrics.OutcomeInvalidInput)
		return nil, err
	}
	result, outcome, err := s.create(ctx, name, password, nil)
	metrics.RecordEnrollment(outcome)
	return result, err
}

func (s *Service) create(ctx context.Context, name, password string, template []float32) (*EnrollResult, string, error) {
	verifier, err := s.hasher.Hash(password)
	if err != nil {
		return nil, metrics.OutcomeInternalError, s.internal("hash password", err)
	}

	created, err := s.store.Create(ctx, name, verifier, template)
	if errors.Is(err, database.ErrDuplicateIdentity) {
		return nil, metrics.OutcomeDuplicate, ErrDuplicateIdentity
	}
	if err != nil {
		return nil, metrics.OutcomeInternalError, s.internal("create identity", err)
	}

	s.logger.Info("identity enrolled",
		"username", logging.Sanitize(created.Name), "id", created.ID, "face", len(template) > 0)
	return &EnrollResult{ID: created.ID, Name: created.Name}, metrics.OutcomeSuccess, nil
}

func extractOutcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidImage):
		return metrics.OutcomeInvalidInput
	case errors.Is(err, ErrNoFaceDetected):
		return metrics.OutcomeNoFace
	default:
		return metrics.OutcomeInternalError
	}
}
