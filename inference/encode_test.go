package inference

import (
	"errors"
	"testing"

	"gradesense/artifact"
)

func TestEncodeRecordVectorAlignment(t *testing.T) {
	bundle := testBundle()
	vec, err := EncodeRecord(sampleRecord(), bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != len(bundle.FeatureOrder) {
		t.Fatalf("expected %d entries, got %d", len(bundle.FeatureOrder), len(vec))
	}

	// Position i must reflect FeatureOrder[i]: age passes through, every
	// categorical entry is the frozen encoder index.
	expected := []float64{21, 1, 4, 1, 0, 0, 1, 0, 0}
	for i, want := range expected {
		if vec[i] != want {
			t.Fatalf("position %d (%s): expected %v, got %v", i, bundle.FeatureOrder[i], want, vec[i])
		}
	}
}

func TestEncodeRecordUnknownCategory(t *testing.T) {
	record := sampleRecord()
	record.Course = "Astrophysics"

	_, err := EncodeRecord(record, testBundle())
	var categoryErr *UnknownCategoryError
	if !errors.As(err, &categoryErr) {
		t.Fatalf("expected UnknownCategoryError, got %v", err)
	}
	if categoryErr.Feature != artifact.FeatureCourse {
		t.Fatalf("unexpected feature: %q", categoryErr.Feature)
	}
	if categoryErr.Value != "Astrophysics" {
		t.Fatalf("unexpected value: %q", categoryErr.Value)
	}
}

func TestEncodeRecordClosedVocabularyPerFeature(t *testing.T) {
	// A value valid for one feature is still rejected on another: "Male"
	// is not in the year encoder.
	record := sampleRecord()
	record.Year = "Male"

	// Bypass schema validation on purpose; the encoder must enforce
	// closure on its own.
	_, err := EncodeRecord(record, testBundle())
	var categoryErr *UnknownCategoryError
	if !errors.As(err, &categoryErr) {
		t.Fatalf("expected UnknownCategoryError, got %v", err)
	}
	if categoryErr.Feature != artifact.FeatureYear {
		t.Fatalf("unexpected feature: %q", categoryErr.Feature)
	}
}

func TestEncodeRecordFollowsArtifactOrder(t *testing.T) {
	// Reversing the artifact order must reverse the vector; encoding may
	// never impose its own ordering.
	bundle := testBundle()
	reversed := make([]string, len(bundle.FeatureOrder))
	for i, name := range bundle.FeatureOrder {
		reversed[len(reversed)-1-i] = name
	}
	bundle.FeatureOrder = reversed

	vec, err := EncodeRecord(sampleRecord(), bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec[len(vec)-1] != 21 {
		t.Fatalf("expected age at the last position, got %v", vec[len(vec)-1])
	}
	if vec[0] != 0 { // treatment "No"
		t.Fatalf("expected treatment index at position 0, got %v", vec[0])
	}
}
