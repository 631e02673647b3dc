package inference

import (
	"testing"

	"gradesense/artifact"
)

func TestPredictScore(t *testing.T) {
	bundle := &artifact.Bundle{
		FeatureOrder: []string{"a", "b"},
		Coefficients: []float64{1.0, 2.0},
		Intercept:    0.5,
	}

	score, err := PredictScore([]float64{2.0, 3.0}, bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 8.5 {
		t.Fatalf("expected 8.5, got %v", score)
	}
}

func TestPredictScoreLengthMismatch(t *testing.T) {
	bundle := &artifact.Bundle{
		FeatureOrder: []string{"a", "b"},
		Coefficients: []float64{1.0, 2.0},
	}
	if _, err := PredictScore([]float64{1.0}, bundle); err == nil {
		t.Fatal("expected error for wrong vector length")
	}
}
