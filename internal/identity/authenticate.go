package identity

import (
	"context"

	"github.com/kozaktomas/face-auth/internal/biometric"
	"github.com/kozaktomas/face-auth/internal/logging"
	"github.com/kozaktomas/face-auth/internal/metrics"
)

// FaceResult is returned by a successful face login.
type FaceResult struct {
	Name       string
	Confidence float64 // 0..100
	Distance   float64
}

// AuthenticatePassword checks name and password. Unknown names and wrong
// passwords both return ErrInvalidCredentials; only the log tells them apart.
func (s *Service) AuthenticatePassword(ctx context.Context, name, password string) (string, error) {
	stored, err := s.store.FindByName(ctx, name)
	if err != nil {
		metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeInternalError)
		return "", s.internal("find identity", err)
	}

	if stored == nil {
		if v := s.dummy(); v != nil {
			s.hasher.Verify(password, v)
		}
		s.logger.Info("password login rejected",
			"username", logging.Sanitize(name), "reason", "unknown_identity")
		metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeBadCredentials)
		return "", ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, stored.PasswordVerifier) {
		s.logger.Info("password login rejected",
			"username", logging.Sanitize(name), "reason", "wrong_password")
		metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeBadCredentials)
		return "", ErrInvalidCredentials
	}

	metrics.RecordLogin(metrics.MethodPassword, metrics.OutcomeSuccess)
	return stored.Name, nil
}

// AuthenticateFace identifies the person in image among all enrolled faces.
func (s *Service) AuthenticateFace(ctx context.Context, image []byte) (*FaceResult, error) {
	result, outcome, err := s.authenticateFace(ctx, image)
	metrics.RecordLogin(metrics.MethodFace, outcome)
	return result, err
}

func (s *Service) authenticateFace(ctx context.Context, image []byte) (*FaceResult, string, error) {
	detections, err := s.extract(ctx, image)
	if err != nil {
		return nil, extractOutcome(err), err
	}
	probe := detections[0].Template
	if err := s.checkDim(probe); err != nil {
		return nil, metrics.OutcomeInternalError, s.internal("check probe", err)
	}

	stored, err := s.store.ListWithTemplate(ctx)
	if err != nil {
		return nil, metrics.OutcomeInternalError, s.internal("list templates", err)
	}
	if len(stored) == 0 {
		return nil, metrics.OutcomeNoEnrolled, ErrNoEnrolledBiometrics
	}

	candidates := make([]biometric.Candidate, len(stored))
	for i := range stored {
		candidates[i] = biometric.Candidate{
			ID:       stored[i].ID,
			Name:     stored[i].Name,
			Template: stored[i].Template,
		}
	}

	match, ok := biometric.Match(probe, candidates, s.threshold, s.metric)
	if match.Skipped > 0 {
		s.logger.Warn("stored templates skipped due to dimension mismatch",
			"skipped", match.Skipped, "probe_dim", len(probe))
		metrics.RecordSkippedTemplates(match.Skipped)
	}
	if !ok {
		s.logger.Info("face login rejected", "candidates", len(candidates), "threshold", s.threshold)
		return nil, metrics.OutcomeNotRecognized, ErrFaceNotRecognized
	}

	metrics.ObserveMatchDistance(match.Distance)
	s.logger.Info("face login accepted",
		"username", logging.Sanitize(match.Name), "distance", match.Distance, "confidence", match.Confidence)
	return &FaceResult{
		Name:       match.Name,
		Confidence: match.Confidence,
		Distance:   match.Distance,
	}, metrics.OutcomeSuccess, nil
}
