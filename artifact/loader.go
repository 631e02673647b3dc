package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// File names of the three artifact blobs inside the artifact directory.
const (
	EncodersFile = "label_encoders.json"
	ScalerFile   = "scaler.json"
	ModelFile    = "model.json"
)

// LoadError reports a missing, malformed or inconsistent artifact blob.
// It is fatal for inference: no predictions may be served without a
// complete, consistent bundle.
type LoadError struct {
	Artifact string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("artifact %s: %v", e.Artifact, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Status is the per-blob availability surface exposed to health checks.
type Status struct {
	ModelLoaded    bool `json:"model_loaded"`
	ScalerLoaded   bool `json:"scaler_loaded"`
	EncodersLoaded bool `json:"encoders_loaded"`
}

type scalerFile struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Std      []float64 `json:"std"`
}

type modelFile struct {
	Version      string    `json:"version"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Buckets      []Bucket  `json:"buckets"`
}

// Load reads the three artifact blobs from dir and cross-checks them. The
// returned Status reports which blobs parsed, independent of whether the
// bundle as a whole is usable.
func Load(dir string) (*Bundle, Status, error) {
	var status Status

	var encoders map[string]map[string]int
	if err := readJSON(filepath.Join(dir, EncodersFile), &encoders); err != nil {
		return nil, status, &LoadError{Artifact: EncodersFile, Err: err}
	}
	status.EncodersLoaded = true

	var scaler scalerFile
	if err := readJSON(filepath.Join(dir, ScalerFile), &scaler); err != nil {
		return nil, status, &LoadError{Artifact: ScalerFile, Err: err}
	}
	status.ScalerLoaded = true

	var model modelFile
	if err := readJSON(filepath.Join(dir, ModelFile), &model); err != nil {
		return nil, status, &LoadError{Artifact: ModelFile, Err: err}
	}
	status.ModelLoaded = true

	bundle, err := assemble(encoders, scaler, model)
	if err != nil {
		return nil, status, err
	}
	return bundle, status, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// assemble cross-checks the three blobs against each other. The model's
// feature list is the authoritative order; the scaler and the encoders
// must cover it exactly.
func assemble(encoders map[string]map[string]int, scaler scalerFile, model modelFile) (*Bundle, error) {
	if len(model.Features) == 0 {
		return nil, &LoadError{Artifact: ModelFile, Err: fmt.Errorf("empty feature list")}
	}
	if len(model.Coefficients) != len(model.Features) {
		return nil, &LoadError{Artifact: ModelFile, Err: fmt.Errorf(
			"%d coefficients for %d features", len(model.Coefficients), len(model.Features))}
	}
	if len(scaler.Mean) != len(scaler.Features) || len(scaler.Std) != len(scaler.Features) {
		return nil, &LoadError{Artifact: ScalerFile, Err: fmt.Errorf(
			"features/mean/std lengths disagree: %d/%d/%d",
			len(scaler.Features), len(scaler.Mean), len(scaler.Std))}
	}

	stats := make(map[string]Stats, len(scaler.Features))
	for i, name := range scaler.Features {
		stats[name] = Stats{Mean: scaler.Mean[i], Std: scaler.Std[i]}
	}

	for _, name := range model.Features {
		if _, ok := stats[name]; !ok {
			return nil, &LoadError{Artifact: ScalerFile, Err: fmt.Errorf("no statistics for feature %q", name)}
		}
		if IsNumericFeature(name) {
			continue
		}
		mapping, ok := encoders[name]
		if !ok || len(mapping) == 0 {
			return nil, &LoadError{Artifact: EncodersFile, Err: fmt.Errorf("no encoder for feature %q", name)}
		}
	}

	if err := checkBuckets(model.Buckets); err != nil {
		return nil, &LoadError{Artifact: ModelFile, Err: err}
	}

	return &Bundle{
		ModelVersion: model.Version,
		FeatureOrder: model.Features,
		Encoders:     encoders,
		Stats:        stats,
		Coefficients: model.Coefficients,
		Intercept:    model.Intercept,
		Buckets:      model.Buckets,
	}, nil
}

// checkBuckets verifies the bucket table partitions its range: sorted,
// non-empty intervals, no gap and no overlap between neighbours.
func checkBuckets(buckets []Bucket) error {
	if len(buckets) == 0 {
		return fmt.Errorf("empty bucket table")
	}
	if !sort.SliceIsSorted(buckets, func(i, j int) bool { return buckets[i].Low < buckets[j].Low }) {
		return fmt.Errorf("bucket table not sorted by lower bound")
	}
	for i, b := range buckets {
		if b.High <= b.Low {
			return fmt.Errorf("bucket %q has empty interval [%v, %v)", b.Label, b.Low, b.High)
		}
		if b.Label == "" {
			return fmt.Errorf("bucket %d has no label", i)
		}
		if i > 0 && buckets[i-1].High != b.Low {
			return fmt.Errorf("gap or overlap between %q and %q", buckets[i-1].Label, b.Label)
		}
	}
	return nil
}
