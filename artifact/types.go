// Package artifact loads and holds the frozen model artifacts produced by
// the offline fitting job: label encoders, scaler statistics and the linear
// model. Everything here is read-only after load.
package artifact

// Feature names as they appeared in the training dataset columns. The
// artifacts are keyed by these exact strings.
const (
	FeatureAge        = "Age"
	FeatureGender     = "Choose your gender"
	FeatureCourse     = "What is your course?"
	FeatureYear       = "Your current year of Study"
	FeatureMarital    = "Marital status"
	FeatureDepression = "Do you have Depression?"
	FeatureAnxiety    = "Do you have Anxiety?"
	FeaturePanic      = "Do you have Panic attack?"
	FeatureTreatment  = "Did you seek any specialist for a treatment?"
)

// IsNumericFeature reports whether a feature passes through the encoder
// unchanged instead of going through a label encoder.
func IsNumericFeature(name string) bool {
	return name == FeatureAge
}

// Stats holds the frozen standardization statistics for one feature.
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Bucket maps a half-open score interval [Low, High) to a label and an
// advisory message. The topmost bucket is closed at both ends.
type Bucket struct {
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
	Label   string  `json:"label"`
	Message string  `json:"message"`
}

// Bundle is one consistent set of fitted artifacts. It is immutable after
// Load and may be shared by any number of concurrent inference calls.
type Bundle struct {
	ModelVersion string
	FeatureOrder []string
	Encoders     map[string]map[string]int
	Stats        map[string]Stats
	Coefficients []float64
	Intercept    float64
	Buckets      []Bucket
}
