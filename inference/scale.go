package inference

import (
	"fmt"

	"gradesense/artifact"
)

// ScaleVector standardizes each entry with the frozen per-feature mean and
// standard deviation. A feature with zero deviation was constant at fit
// time; its scaled value is defined as 0 instead of dividing by zero.
func ScaleVector(vec []float64, b *artifact.Bundle) ([]float64, error) {
	if len(vec) != len(b.FeatureOrder) {
		return nil, fmt.Errorf("vector length %d does not match %d features", len(vec), len(b.FeatureOrder))
	}

	out := make([]float64, len(vec))
	for i, name := range b.FeatureOrder {
		stats, ok := b.Stats[name]
		if !ok {
			return nil, fmt.Errorf("no statistics for feature %q", name)
		}
		if stats.Std == 0 {
			out[i] = 0
			continue
		}
		out[i] = (vec[i] - stats.Mean) / stats.Std
	}
	return out, nil
}
