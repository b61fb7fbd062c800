package biometric

import (
	"fmt"
	"math"
)

// Metric computes the distance between two descriptors of equal length.
// Smaller means more similar.
type Metric func(a, b []float32) float64

// EuclideanDistance is the L2 distance used by dlib ResNet descriptors.
func EuclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CosineDistance computes 1 - cosine similarity.
// Zero vectors are treated as maximally distant.
func CosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// MetricByName resolves a metric name from models.yaml.
func MetricByName(name string) (Metric, error) {
	switch name {
	case "", "euclidean":
		return EuclideanDistance, nil
	case "cosine":
		return CosineDistance, nil
	default:
		return nil, fmt.Errorf("unknown distance metric %q", name)
	}
}
