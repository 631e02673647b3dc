package inference

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	minAge       = 18
	maxAge       = 30
	minCourseLen = 2
	maxCourseLen = 100
)

var yearOptions = map[string]bool{
	"year 1": true,
	"year 2": true,
	"year 3": true,
	"year 4": true,
}

var yesNo = map[string]bool{"Yes": true, "No": true}

// ValidateRecord checks a record against the request schema and returns a
// normalized copy. All violations are collected into one ValidationError.
// Schema rules are independent of the artifact vocabulary; vocabulary
// closure is enforced later by the encoder.
func ValidateRecord(r StudentRecord) (StudentRecord, error) {
	var fields []FieldError

	if r.Age < minAge || r.Age > maxAge {
		fields = append(fields, FieldError{
			Field:   "age",
			Message: fmt.Sprintf("must be between %d and %d, got %d", minAge, maxAge, r.Age),
		})
	}

	if r.Gender != "Male" && r.Gender != "Female" {
		fields = append(fields, FieldError{Field: "gender", Message: `must be "Male" or "Female"`})
	}

	// Course is free text from the client; normalize it so length checks
	// and encoder lookups see one canonical form.
	r.Course = norm.NFC.String(strings.TrimSpace(r.Course))
	if n := utf8.RuneCountInString(r.Course); n < minCourseLen || n > maxCourseLen {
		fields = append(fields, FieldError{
			Field:   "course",
			Message: fmt.Sprintf("must be %d to %d characters, got %d", minCourseLen, maxCourseLen, n),
		})
	}

	if !yearOptions[r.Year] {
		fields = append(fields, FieldError{Field: "year", Message: `must be one of "year 1" to "year 4"`})
	}

	for _, f := range []struct {
		name  string
		value string
	}{
		{"marital_status", r.MaritalStatus},
		{"depression", r.Depression},
		{"anxiety", r.Anxiety},
		{"panic_attack", r.PanicAttack},
		{"treatment", r.Treatment},
	} {
		if !yesNo[f.value] {
			fields = append(fields, FieldError{Field: f.name, Message: `must be "Yes" or "No"`})
		}
	}

	if len(fields) > 0 {
		return r, &ValidationError{Fields: fields}
	}
	return r, nil
}
