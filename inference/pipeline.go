package inference

import (
	"math"

	"gradesense/artifact"
)

// Natural range of the target metric. Reported predictions clamp to it.
const (
	minCGPA = 0.0
	maxCGPA = 4.0
)

// Result is the prediction returned to the caller.
type Result struct {
	PredictedCGPA float64 `json:"predicted_cgpa"`
	CGPARange     string  `json:"cgpa_range"`
	Message       string  `json:"message"`

	// RawScore is the unclamped model output, kept for logging.
	RawScore float64 `json:"-"`
}

// Run executes the five pipeline stages in fixed order. It is pure: the
// same record and bundle always produce the same result, and nothing in
// the bundle is mutated, so concurrent calls need no locking.
func Run(r StudentRecord, b *artifact.Bundle) (Result, error) {
	record, err := ValidateRecord(r)
	if err != nil {
		return Result{}, err
	}

	vec, err := EncodeRecord(record, b)
	if err != nil {
		return Result{}, err
	}

	scaled, err := ScaleVector(vec, b)
	if err != nil {
		return Result{}, err
	}

	score, err := PredictScore(scaled, b)
	if err != nil {
		return Result{}, err
	}

	cgpa := math.Min(maxCGPA, math.Max(minCGPA, score))
	cgpa = math.Round(cgpa*100) / 100

	bucket, err := Classify(cgpa, b.Buckets)
	if err != nil {
		return Result{}, err
	}

	return Result{
		PredictedCGPA: cgpa,
		CGPARange:     bucket.Label,
		Message:       bucket.Message,
		RawScore:      score,
	}, nil
}
