// Package identity implements enrollment and the two login paths on top of
// an identity store, a face extractor and a password hasher.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kozaktomas/face-auth/internal/biometric"
	"github.com/kozaktomas/face-auth/internal/database"
	"github.com/kozaktomas/face-auth/internal/logging"
)

// DefaultThreshold is the match threshold used when Options.Threshold is unset.
const DefaultThreshold = 0.6

// Options tunes a Service. Zero values select defaults.
type Options struct {
	Threshold float64          // strict upper bound on match distance
	Metric    biometric.Metric // defaults to Euclidean distance
	Dim       int              // expected template length, 0 accepts any
	Logger    *slog.Logger
}

// Service orchestrates enrollment and authentication.
// It holds no mutable state of its own; the store is the only shared state.
type Service struct {
	store     database.IdentityStore
	extractor biometric.Extractor
	hasher    PasswordHasher
	logger    *slog.Logger
	threshold float64
	metric    biometric.Metric
	dim       int

	dummyOnce     sync.Once
	dummyVerifier []byte
}

// NewService creates a new identity service.
func NewService(store database.IdentityStore, extractor biometric.Extractor, hasher PasswordHasher, opts Options) *Service {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Metric == nil {
		opts.Metric = biometric.EuclideanDistance
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Service{
		store:     store,
		extractor: extractor,
		hasher:    hasher,
		logger:    opts.Logger,
		threshold: opts.Threshold,
		metric:    opts.Metric,
		dim:       opts.Dim,
	}
}

// Threshold returns the effective match threshold.
func (s *Service) Threshold() float64 {
	return s.threshold
}

// Identity is the public view of a stored identity.
type Identity struct {
	ID          int64
	Name        string
	HasTemplate bool
}

// GetIdentity looks up an identity by exact name.
func (s *Service) GetIdentity(ctx context.Context, name string) (*Identity, error) {
	stored, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, s.internal("find identity", err)
	}
	if stored == nil {
		return nil, ErrNotFound
	}
	return &Identity{ID: stored.ID, Name: stored.Name, HasTemplate: stored.HasTemplate()}, nil
}

// RemoveIdentity permanently deletes an identity and its template.
func (s *Service) RemoveIdentity(ctx context.Context, name string) (string, error) {
	err := s.store.Delete(ctx, name)
	if errors.Is(err, database.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", s.internal("delete identity", err)
	}
	s.logger.Info("identity removed", "username", logging.Sanitize(name))
	return name, nil
}

// EnrolledFaces returns how many identities can log in with a face.
func (s *Service) EnrolledFaces(ctx context.Context) (int, error) {
	count, err := s.store.CountWithTemplate(ctx)
	if err != nil {
		return 0, s.internal("count templates", err)
	}
	return count, nil
}

// internal logs the cause and returns the opaque ErrInternal.
func (s *Service) internal(op string, err error) error {
	s.logger.Error("identity operation failed", "op", op, "error", err)
	return ErrInternal
}

// extract runs the extractor and maps its failures onto workflow errors.
func (s *Service) extract(ctx context.Context, image []byte) ([]biometric.Detection, error) {
	if len(image) == 0 {
		return nil, ErrInvalidImage
	}
	detections, err := s.extractor.Extract(ctx, image)
	switch {
	case errors.Is(err, biometric.ErrInvalidImage):
		s.logger.Debug("image rejected", "error", err)
		return nil, ErrInvalidImage
	case errors.Is(err, biometric.ErrNoFace):
		return nil, ErrNoFaceDetected
	case err != nil:
		return nil, s.internal("extract descriptor", err)
	case len(detections) == 0:
		return nil, ErrNoFaceDetected
	}
	return detections, nil
}

// checkDim rejects a template whose length differs from the configured profile.
func (s *Service) checkDim(template []float32) error {
	if s.dim > 0 && len(template) != s.dim {
		return fmt.Errorf("extractor returned %d dimensions, expected %d", len(template), s.dim)
	}
	return nil
}

// dummy returns a verifier used to keep unknown-user logins as slow as
// wrong-password logins.
func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		v, err := s.hasher.Hash("face-auth-unknown-identity")
		if err != nil {
			s.logger.Warn("failed to prepare dummy verifier", "error", err)
			return
		}
		s.dummyVerifier = v
	})
	return s.dummyVerifier
}
