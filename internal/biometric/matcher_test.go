package biometric

import (
	"math"
	"testing"
)

func vec(values ...float32) []float32 {
	return values
}

func TestMatch(t *testing.T) {
	probe := vec(0, 0, 0)

	tests := []struct {
		name           string
		candidates     []Candidate
		threshold      float64
		wantOK         bool
		wantName       string
		wantConfidence float64
	}{
		{
			name:       "empty candidate set",
			candidates: nil,
			threshold:  0.6,
			wantOK:     false,
		},
		{
			name:           "exact match",
			candidates:     []Candidate{{ID: 1, Name: "alice", Template: vec(0, 0, 0)}},
			threshold:      0.6,
			wantOK:         true,
			wantName:       "alice",
			wantConfidence: 100,
		},
		{
			name: "closest under threshold wins",
			candidates: []Candidate{
				{ID: 1, Name: "alice", Template: vec(0.3, 0, 0)},
				{ID: 2, Name: "bob", Template: vec(0.05, 0, 0)},
			},
			threshold:      0.6,
			wantOK:         true,
			wantName:       "bob",
			wantConfidence: 95,
		},
		{
			name:       "above threshold rejected",
			candidates: []Candidate{{ID: 1, Name: "alice", Template: vec(0.8, 0, 0)}},
			threshold:  0.6,
			wantOK:     false,
		},
		{
			name:       "distance equal to threshold rejected",
			candidates: []Candidate{{ID: 1, Name: "alice", Template: vec(0.5, 0, 0)}},
			threshold:  0.5,
			wantOK:     false,
		},
		{
			name: "tie resolves to first candidate",
			candidates: []Candidate{
				{ID: 1, Name: "alice", Template: vec(0, 0.2, 0)},
				{ID: 2, Name: "bob", Template: vec(0.2, 0, 0)},
			},
			threshold:      0.6,
			wantOK:         true,
			wantName:       "alice",
			wantConfidence: 80,
		},
		{
			name: "mismatched dimension skipped",
			candidates: []Candidate{
				{ID: 1, Name: "broken", Template: vec(0, 0)},
				{ID: 2, Name: "bob", Template: vec(0.1, 0, 0)},
			},
			threshold:      0.6,
			wantOK:         true,
			wantName:       "bob",
			wantConfidence: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Match(probe, tt.candidates, tt.threshold, EuclideanDistance)
			if ok != tt.wantOK {
				t.Fatalf("Match() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if result.Name != tt.wantName {
				t.Errorf("Match() name = %q, want %q", result.Name, tt.wantName)
			}
			if result.Confidence != tt.wantConfidence {
				t.Errorf("Match() confidence = %v, want %v", result.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestMatch_SkippedCount(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Name: "a", Template: vec(0, 0)},
		{ID: 2, Name: "b", Template: vec(0, 0, 0, 0)},
	}
	result, ok := Match(vec(0, 0, 0), candidates, 0.6, EuclideanDistance)
	if ok {
		t.Fatal("expected no match")
	}
	if result.Skipped != 2 {
		t.Errorf("expected 2 skipped, got %d", result.Skipped)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Name: "alice", Template: vec(0.1, 0.2, 0.3)},
		{ID: 2, Name: "bob", Template: vec(0.3, 0.2, 0.1)},
		{ID: 3, Name: "carol", Template: vec(0.2, 0.2, 0.2)},
	}
	probe := vec(0.2, 0.2, 0.21)

	first, ok := Match(probe, candidates, 0.6, EuclideanDistance)
	if !ok {
		t.Fatal("expected a match")
	}
	for range 20 {
		again, _ := Match(probe, candidates, 0.6, EuclideanDistance)
		if again != first {
			t.Fatalf("non-deterministic result: %+v vs %+v", again, first)
		}
	}
	if first.Name != "carol" {
		t.Errorf("expected carol, got %q", first.Name)
	}
}

func TestMatch_NilMetricDefaultsToEuclidean(t *testing.T) {
	result, ok := Match(vec(0, 0), []Candidate{{ID: 1, Name: "a", Template: vec(0.3, 0.4)}}, 0.6, nil)
	if !ok {
		t.Fatal("expected a match")
	}
	if math.Abs(result.Distance-0.5) > 1e-6 {
		t.Errorf("expected distance 0.5, got %v", result.Distance)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 100},
		{0.05, 95},
		{0.123, 87.7},
		{1, 0},
		{1.4, 0},
		{-0.2, 100},
	}
	for _, tt := range tests {
		if got := Confidence(tt.distance); got != tt.want {
			t.Errorf("Confidence(%v) = %v, want %v", tt.distance, got, tt.want)
		}
	}
}
