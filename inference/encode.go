package inference

import (
	"fmt"

	"gradesense/artifact"
)

// EncodeRecord turns a validated record into a numeric vector whose
// position i corresponds to bundle.FeatureOrder[i]. Categorical values go
// through the frozen label encoders; values outside the training
// vocabulary are rejected, never coerced.
func EncodeRecord(r StudentRecord, b *artifact.Bundle) ([]float64, error) {
	vec := make([]float64, len(b.FeatureOrder))
	for i, name := range b.FeatureOrder {
		if artifact.IsNumericFeature(name) {
			vec[i] = float64(r.Age)
			continue
		}

		raw, ok := rawValue(r, name)
		if !ok {
			return nil, fmt.Errorf("no record field for feature %q", name)
		}
		mapping, ok := b.Encoders[name]
		if !ok {
			return nil, fmt.Errorf("no encoder for feature %q", name)
		}
		index, ok := mapping[raw]
		if !ok {
			return nil, &UnknownCategoryError{Feature: name, Value: raw}
		}
		vec[i] = float64(index)
	}
	return vec, nil
}

// rawValue maps a training column name to the matching record field.
func rawValue(r StudentRecord, feature string) (string, bool) {
	switch feature {
	case artifact.FeatureGender:
		return r.Gender, true
	case artifact.FeatureCourse:
		return r.Course, true
	case artifact.FeatureYear:
		return r.Year, true
	case artifact.FeatureMarital:
		return r.MaritalStatus, true
	case artifact.FeatureDepression:
		return r.Depression, true
	case artifact.FeatureAnxiety:
		return r.Anxiety, true
	case artifact.FeaturePanic:
		return r.PanicAttack, true
	case artifact.FeatureTreatment:
		return r.Treatment, true
	}
	return "", false
}
