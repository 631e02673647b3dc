package inference

import (
	"math"
	"testing"

	"gradesense/artifact"
)

func yesNoEncoder() map[string]int {
	return map[string]int{"No": 0, "Yes": 1}
}

func testBuckets() []artifact.Bucket {
	return []artifact.Bucket{
		{Low: 0.0, High: 2.0, Label: "Poor (0.00 - 1.99)", Message: "Student requires immediate academic and mental health support."},
		{Low: 2.0, High: 2.5, Label: "Below Average (2.00 - 2.49)", Message: "Student may need academic support and intervention."},
		{Low: 2.5, High: 3.0, Label: "Average (2.50 - 2.99)", Message: "Student is performing at an average level. Some improvement possible."},
		{Low: 3.0, High: 3.5, Label: "Good (3.00 - 3.49)", Message: "Student is performing well academically."},
		{Low: 3.5, High: 4.0, Label: "Excellent (3.50 - 4.00)", Message: "Student is performing excellently! Keep up the great work."},
	}
}

func testBundle() *artifact.Bundle {
	return &artifact.Bundle{
		ModelVersion: "test",
		FeatureOrder: []string{
			artifact.FeatureAge,
			artifact.FeatureGender,
			artifact.FeatureCourse,
			artifact.FeatureYear,
			artifact.FeatureMarital,
			artifact.FeatureDepression,
			artifact.FeatureAnxiety,
			artifact.FeaturePanic,
			artifact.FeatureTreatment,
		},
		Encoders: map[string]map[string]int{
			artifact.FeatureGender: {"Female": 0, "Male": 1},
			artifact.FeatureCourse: {"BIT": 1, "Engineering": 4, "Law": 7, "Psychology": 11},
			artifact.FeatureYear: {
				"year 1": 0, "year 2": 1, "year 3": 2, "year 4": 3,
			},
			artifact.FeatureMarital:    yesNoEncoder(),
			artifact.FeatureDepression: yesNoEncoder(),
			artifact.FeatureAnxiety:    yesNoEncoder(),
			artifact.FeaturePanic:      yesNoEncoder(),
			artifact.FeatureTreatment:  yesNoEncoder(),
		},
		Stats: map[string]artifact.Stats{
			artifact.FeatureAge:        {Mean: 20.5, Std: 2.5},
			artifact.FeatureGender:     {Mean: 0.25, Std: 0.5},
			artifact.FeatureCourse:     {Mean: 5.2, Std: 4.0},
			artifact.FeatureYear:       {Mean: 1.2, Std: 1.0},
			artifact.FeatureMarital:    {Mean: 0.16, Std: 0.4},
			artifact.FeatureDepression: {Mean: 0.35, Std: 0.5},
			artifact.FeatureAnxiety:    {Mean: 0.34, Std: 0.5},
			artifact.FeaturePanic:      {Mean: 0.33, Std: 0.5},
			artifact.FeatureTreatment:  {Mean: 0.06, Std: 0.24},
		},
		Coefficients: []float64{0.05, -0.02, 0.03, 0.04, -0.01, -0.08, -0.06, -0.03, 0.02},
		Intercept:    3.2914,
		Buckets:      testBuckets(),
	}
}

func sampleRecord() StudentRecord {
	return StudentRecord{
		Age:           21,
		Gender:        "Male",
		Course:        "Engineering",
		Year:          "year 2",
		MaritalStatus: "No",
		Depression:    "No",
		Anxiety:       "Yes",
		PanicAttack:   "No",
		Treatment:     "No",
	}
}

func TestRunEndToEnd(t *testing.T) {
	result, err := Run(sampleRecord(), testBundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.PredictedCGPA-3.25) > 1e-9 {
		t.Fatalf("expected predicted CGPA 3.25, got %v", result.PredictedCGPA)
	}
	if result.CGPARange != "Good (3.00 - 3.49)" {
		t.Fatalf("unexpected range: %q", result.CGPARange)
	}
	if result.Message != "Student is performing well academically." {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestRunDeterministic(t *testing.T) {
	bundle := testBundle()
	record := sampleRecord()

	first, err := Run(record, bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Run(record, bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("pipeline not deterministic: %+v vs %+v", first, second)
	}
}

func TestRunValidationErrorPropagates(t *testing.T) {
	record := sampleRecord()
	record.Age = 17
	record.Gender = "Other"

	_, err := Run(record, testBundle())
	validationErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(validationErr.Fields), validationErr.Fields)
	}
}

func TestRunUnknownCategoryPropagates(t *testing.T) {
	record := sampleRecord()
	record.Course = "Astrology"

	_, err := Run(record, testBundle())
	categoryErr, ok := err.(*UnknownCategoryError)
	if !ok {
		t.Fatalf("expected UnknownCategoryError, got %v", err)
	}
	if categoryErr.Value != "Astrology" {
		t.Fatalf("unexpected value: %q", categoryErr.Value)
	}
}

func TestRunClampsReportedCGPA(t *testing.T) {
	bundle := testBundle()
	bundle.Intercept = 9.0

	result, err := Run(sampleRecord(), bundle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PredictedCGPA != 4.0 {
		t.Fatalf("expected reported CGPA clamped to 4.0, got %v", result.PredictedCGPA)
	}
	if result.CGPARange != "Excellent (3.50 - 4.00)" {
		t.Fatalf("unexpected range: %q", result.CGPARange)
	}
	if result.RawScore <= 4.0 {
		t.Fatalf("expected raw score above 4.0, got %v", result.RawScore)
	}
}
