package biometric

import (
	"math"
)

// Candidate is an enrolled descriptor the matcher may select.
type Candidate struct {
	ID       int64
	Name     string
	Template []float32
}

// Result describes the outcome of a successful match.
type Result struct {
	ID         int64
	Name       string
	Distance   float64
	Confidence float64 // percent, one decimal place
	Skipped    int     // candidates ignored because of a dimension mismatch
}

// Match returns the candidate closest to probe whose distance is strictly
// below threshold. When several candidates share the minimum distance the
// first one in slice order wins, so callers must pass a stable order.
//
// The returned Result carries the Skipped count even when ok is false.
func Match(probe []float32, candidates []Candidate, threshold float64, metric Metric) (Result, bool) {
	if len(candidates) == 0 || len(probe) == 0 {
		return Result{}, false
	}
	if metric == nil {
		metric = EuclideanDistance
	}

	best := -1
	bestDistance := math.Inf(1)
	skipped := 0
	for i := range candidates {
		if len(candidates[i].Template) != len(probe) {
			skipped++
			continue
		}
		d := metric(probe, candidates[i].Template)
		if d < threshold && d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best < 0 {
		return Result{Skipped: skipped}, false
	}
	return Result{
		ID:         candidates[best].ID,
		Name:       candidates[best].Name,
		Distance:   bestDistance,
		Confidence: Confidence(bestDistance),
		Skipped:    skipped,
	}, true
}

// Confidence maps a distance to a percentage: (1 - distance) * 100,
// clamped to [0, 100] and rounded to one decimal place.
func Confidence(distance float64) float64 {
	c := (1 - distance) * 100
	c = max(0, min(100, c))
	return math.Round(c*10) / 10
}
