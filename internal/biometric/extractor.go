// Package biometric turns face images into fixed-length descriptors and
// decides whether a probe descriptor matches one of the enrolled ones.
package biometric

import (
	"context"
	"errors"
)

// ErrNoFace is returned by an Extractor that found no face in the image.
var ErrNoFace = errors.New("no face detected")

// ErrInvalidImage is returned by an Extractor that could not decode the image.
var ErrInvalidImage = errors.New("invalid image")

// Detection is a single face found by an Extractor.
type Detection struct {
	Template []float32
	BBox     []float64 // [x1, y1, x2, y2], may be nil
	Score    float64   // detector confidence, 0 when the backend does not report it
}

// Extractor converts raw image bytes into face descriptors.
// Implementations return ErrInvalidImage for undecodable input and either
// ErrNoFace or an empty slice when the image holds no face.
type Extractor interface {
	Extract(ctx context.Context, image []byte) ([]Detection, error)
}
