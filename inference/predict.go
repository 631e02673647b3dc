package inference

import (
	"fmt"

	"gradesense/artifact"
)

// PredictScore evaluates the linear model over a scaled vector.
func PredictScore(scaled []float64, b *artifact.Bundle) (float64, error) {
	if len(scaled) != len(b.Coefficients) {
		return 0, fmt.Errorf("vector length %d does not match %d coefficients", len(scaled), len(b.Coefficients))
	}

	score := b.Intercept
	for i, w := range b.Coefficients {
		score += w * scaled[i]
	}
	return score, nil
}
